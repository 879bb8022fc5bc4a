// Package database opens the gorm handle for the configured driver.
package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/linskybing/formbuilder-go/internal/config"
	"github.com/linskybing/formbuilder-go/internal/migrations"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector builds the gorm dialector for cfg.DBType. For sqlite DBName is
// the file path or DSN.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		return postgres.Open(dsn), nil
	case "mysql", "mariadb":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		return mysql.Open(dsn), nil
	case "sqlserver", "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		return sqlserver.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
}

// Open connects, sizes the pool and returns the handle. Driver errors are
// translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	maxConns := cfg.DBMaxConns
	if cfg.DBType == "sqlite" || maxConns < 1 {
		maxConns = 1
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns((maxConns + 1) / 2)

	log.Info("database connected", zap.String("driver", cfg.DBType), zap.String("database", cfg.DBName))
	return db, nil
}

// OpenAndMigrate is Open followed by a schema migration.
func OpenAndMigrate(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db); err != nil {
		_ = Close(db)
		return nil, err
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
