package migration_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventario/pkg/database"
	"github.com/shashiranjanraj/inventario/pkg/migration"
)

type rawTable struct {
	name  string
	upErr error
}

func (m rawTable) Up(db *gorm.DB) error {
	if m.upErr != nil {
		return m.upErr
	}
	return db.Exec("CREATE TABLE " + m.name + " (id INTEGER PRIMARY KEY)").Error
}

func (m rawTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.name)
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "migrate.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestRunAppliesPendingOnce(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	var reg migration.Registry
	reg.Register("20240101000001_b", rawTable{name: "b"})
	reg.Register("20240101000000_a", rawTable{name: "a"})

	var out bytes.Buffer
	runner := migration.NewWithRegistry(db, &out, &reg)

	n, err := runner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, db.Migrator().HasTable("a"))
	assert.True(t, db.Migrator().HasTable("b"))
	assert.Less(t, bytes.Index(out.Bytes(), []byte("_a")), bytes.Index(out.Bytes(), []byte("_b")))

	n, err = runner.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRollbackRevertsLastBatchOnly(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	var reg migration.Registry
	reg.Register("20240101000000_a", rawTable{name: "a"})
	runner := migration.NewWithRegistry(db, nil, &reg)
	_, err := runner.Run(ctx)
	require.NoError(t, err)

	reg.Register("20240102000000_b", rawTable{name: "b"})
	_, err = runner.Run(ctx)
	require.NoError(t, err)

	n, err := runner.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable("a"))
	assert.False(t, db.Migrator().HasTable("b"))

	status, err := runner.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.Equal(t, migration.Status{Name: "20240101000000_a", Ran: true, Batch: 1}, status[0])
	assert.False(t, status[1].Ran)
}

func TestRunStopsOnFailureWithoutRecording(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	boom := errors.New("boom")
	var reg migration.Registry
	reg.Register("20240101000000_bad", rawTable{name: "bad", upErr: boom})
	runner := migration.NewWithRegistry(db, nil, &reg)

	_, err := runner.Run(ctx)
	require.ErrorIs(t, err, boom)

	status, err := runner.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status[0].Ran)
}

func TestRollbackWithNothingRan(t *testing.T) {
	var out bytes.Buffer
	runner := migration.NewWithRegistry(openDB(t), &out, &migration.Registry{})

	n, err := runner.Rollback(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "Nothing to roll back.")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	var reg migration.Registry
	reg.Register("x", rawTable{name: "x"})
	assert.Panics(t, func() { reg.Register("x", rawTable{name: "x"}) })
}
