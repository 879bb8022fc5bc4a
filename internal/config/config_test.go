package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_NAME", "forms.db")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("EXPORT_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "http://a:, http://b:")
	t.Setenv("ADMIN_PASSWORD", "s3cret!")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "forms.db", cfg.DBName)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.ExportEnabled)
	assert.Equal(t, []string{"http://a:", "http://b:"}, cfg.CORSOrigins)
	assert.Equal(t, "s3cret!", cfg.AdminPassword)
}

func TestLoadConfigRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "defaultsecret")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
	assert.Equal(t, time.Minute, getEnvAsDuration("MISSING_DURATION", time.Minute))
	assert.False(t, getEnvAsBool("MISSING_BOOL", false))
}
