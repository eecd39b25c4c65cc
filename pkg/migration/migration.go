// Package migration runs versioned schema changes and records them in the
// inventario_migrations table.
//
// Migrations register themselves from init() in database/migrations:
//
//	func init() {
//	    migration.Register("20240101000000_create_productos_table", &CreateProductosTable{})
//	}
//
// and are driven from the CLI:
//
//	inventario migrate             // run all pending
//	inventario migrate:rollback    // roll back the last batch
//	inventario migrate:status
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/inventario/pkg/logger"
	"gorm.io/gorm"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "inventario_migrations" }

// ErrNotRegistered is returned when rolling back a recorded migration whose
// code is no longer registered.
var ErrNotRegistered = errors.New("migration: not registered")

type entry struct {
	name string
	m    Migration
}

// Registry is an ordered set of named migrations.
type Registry struct {
	entries []entry
}

// Register adds m under name. Names are timestamp-prefixed and run in
// lexical order; registering a name twice panics.
func (g *Registry) Register(name string, m Migration) {
	for _, e := range g.entries {
		if e.name == name {
			panic("migration: duplicate name " + name)
		}
	}
	g.entries = append(g.entries, entry{name: name, m: m})
	sort.Slice(g.entries, func(i, j int) bool { return g.entries[i].name < g.entries[j].name })
}

var defaultRegistry Registry

// Register adds m to the process-wide registry used by New.
func Register(name string, m Migration) { defaultRegistry.Register(name, m) }

// Runner applies and reverts migrations against one database.
type Runner struct {
	db  *gorm.DB
	out io.Writer
	reg *Registry
}

// New returns a Runner over the process-wide registry. Progress lines are
// written to out.
func New(db *gorm.DB, out io.Writer) *Runner {
	return NewWithRegistry(db, out, &defaultRegistry)
}

func NewWithRegistry(db *gorm.DB, out io.Writer, reg *Registry) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out, reg: reg}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Run applies every pending migration as one new batch and returns how many
// ran. Each migration and its history row commit together.
func (r *Runner) Run(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return 0, err
	}

	var pending []entry
	for _, e := range r.reg.entries {
		if _, ok := done[e.name]; !ok {
			pending = append(pending, e)
		}
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch := 1
	for _, row := range done {
		if row.Batch >= batch {
			batch = row.Batch + 1
		}
	}

	for _, e := range pending {
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return 0, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		fmt.Fprintf(r.out, "  ✔ Migrated:  %s\n", e.name)
	}

	logger.WithCtx(ctx).Info("migration: done", "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverts the most recent batch, newest first, and returns how many
// migrations were reverted.
func (r *Runner) Rollback(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}

	var last record
	err := r.db.WithContext(ctx).Order("batch desc").Limit(1).Find(&last).Error
	if err != nil {
		return 0, fmt.Errorf("migration: find last batch: %w", err)
	}
	if last.ID == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", last.Batch).Order("id desc").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("migration: load batch %d: %w", last.Batch, err)
	}

	byName := make(map[string]Migration, len(r.reg.entries))
	for _, e := range r.reg.entries {
		byName[e.name] = e.m
	}

	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrNotRegistered, row.Name)
		}
		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", row.Name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, row.ID).Error
		})
		if err != nil {
			return 0, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		fmt.Fprintf(r.out, "  ✔ Rolled back: %s\n", row.Name)
	}
	return len(rows), nil
}

// Status is one registered migration and whether it has run.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Status lists every registered migration in run order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(r.reg.entries))
	for _, e := range r.reg.entries {
		row, ok := done[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}

// PrintStatus writes Status as a table to the runner's output.
func (r *Runner) PrintStatus(ctx context.Context) error {
	rows, err := r.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%-50s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 68))
	for _, s := range rows {
		if s.Ran {
			fmt.Fprintf(r.out, "%-50s  %-8s  %d\n", s.Name, "Ran", s.Batch)
		} else {
			fmt.Fprintf(r.out, "%-50s  %-8s  -\n", s.Name, "Pending")
		}
	}
	return nil
}
