package testkit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/inventario/database/migrations" // registers the schema
	"github.com/shashiranjanraj/inventario/pkg/database"
	"github.com/shashiranjanraj/inventario/pkg/migration"
)

// OpenDB returns a migrated sqlite database in a temp directory, closed when
// the test ends. Foreign keys are enforced.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "inventario.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db, nil).Run(context.Background())
	require.NoError(t, err)
	return db
}
