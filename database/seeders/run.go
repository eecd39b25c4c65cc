// Package seeders fills a database with synthetic catalogue and order data.
//
// Seeders register from init() and run by name from the CLI:
//
//	inventario seed                 // every seeder, in registration order
//	inventario seed productos       // just one
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventario/pkg/cache"
)

// Deps are the resources a seeder may use. Cache is the store whose product
// listings must be invalidated while orders are placed.
type Deps struct {
	DB    *gorm.DB
	Cache cache.Store
	Out   io.Writer
}

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, d Deps) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// Names lists registered seeders in run order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// Run executes the named seeders, or all of them when names is empty, in
// registration order. It stops on the first error.
func Run(ctx context.Context, d Deps, names ...string) error {
	if d.Out == nil {
		d.Out = io.Discard
	}
	if d.Cache == nil {
		d.Cache = cache.NewMemory()
	}

	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for _, n := range names {
		if !registered(current, n) {
			return fmt.Errorf("seeder %q is not registered", n)
		}
	}

	for _, e := range current {
		if len(want) > 0 && !want[e.name] {
			continue
		}
		fmt.Fprintf(d.Out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, d); err != nil {
			fmt.Fprintln(d.Out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(d.Out, "done")
	}
	return nil
}

func registered(list []seederEntry, name string) bool {
	for _, e := range list {
		if e.name == name {
			return true
		}
	}
	return false
}
