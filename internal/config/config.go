package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	AppEnv     string
	ServerPort string
	LogLevel   string

	DBType     string // postgres, mysql, sqlite, sqlserver
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBMaxConns int

	JwtSecret     string
	Issuer        string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	CORSOrigins   []string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	ExportEnabled  bool

	AuditRetention    time.Duration
	NotifyTimeout     time.Duration
	NotifyMaxInFlight int64
}

// IsProduction reports whether cookies should be marked secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig reads the optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DBType:     getEnv("DB_TYPE", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "formbuilder"),
		DBMaxConns: getEnvAsInt("DB_MAX_CONNS", 10),

		JwtSecret:     getEnv("JWT_SECRET", "defaultsecret"),
		Issuer:        getEnv("ISSUER", "formbuilder"),
		TokenTTL:      getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:,http://127.0.0.1:")),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "form-exports"),
		MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		ExportEnabled:  getEnvAsBool("EXPORT_ENABLED", false),

		AuditRetention:    getEnvAsDuration("AUDIT_RETENTION", 30*24*time.Hour),
		NotifyTimeout:     getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
		NotifyMaxInFlight: int64(getEnvAsInt("NOTIFY_MAX_IN_FLIGHT", 16)),
	}

	if cfg.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	if cfg.IsProduction() && cfg.JwtSecret == "defaultsecret" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
