package database

import (
	"path/filepath"
	"testing"

	"github.com/linskybing/formbuilder-go/internal/config"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "postgresql", "mysql", "mariadb", "sqlserver", "mssql", "sqlite"} {
		d, err := Dialector(&config.Config{DBType: driver, DBName: "x"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := Dialector(&config.Config{DBType: "oracle"})
	assert.EqualError(t, err, "unsupported database type: oracle")
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{DBType: "sqlite", DBName: filepath.Join(t.TempDir(), "forms.db"), DBMaxConns: 8}

	db, err := OpenAndMigrate(cfg, zap.NewNop())
	require.NoError(t, err)
	defer func() { require.NoError(t, Close(db)) }()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	for _, table := range []string{"users", "forms", "form_pages", "form_fields", "submissions", "audit_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&form.Page{}, "idx_page_form_position"))
}
