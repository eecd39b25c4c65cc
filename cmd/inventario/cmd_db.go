package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventario/config"
	"github.com/shashiranjanraj/inventario/database/seeders"
	"github.com/shashiranjanraj/inventario/pkg/cache"
	"github.com/shashiranjanraj/inventario/pkg/database"
	"github.com/shashiranjanraj/inventario/pkg/migration"
)

// bootDB loads config and opens the database. The caller closes it.
func bootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Open(database.FromEnv())
}

// withDB runs fn over a freshly opened database and closes it afterwards.
func withDB(fn func(cmd *cobra.Command, args []string, db *gorm.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close(db) //nolint:errcheck
		return fn(cmd, args, db)
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending database migrations",
		RunE: withDB(func(cmd *cobra.Command, _ []string, db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			_, err := migration.New(db, cmd.OutOrStdout()).Run(cmd.Context())
			return err
		}),
	}
}

func newMigrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Roll back the last batch of migrations",
		RunE: withDB(func(cmd *cobra.Command, _ []string, db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			_, err := migration.New(db, cmd.OutOrStdout()).Rollback(cmd.Context())
			return err
		}),
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: withDB(func(cmd *cobra.Command, _ []string, db *gorm.DB) error {
			return migration.New(db, cmd.OutOrStdout()).PrintStatus(cmd.Context())
		}),
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "seed [seeder...]",
		Short:     "Run database seeders (all when none are named)",
		ValidArgs: seeders.Names(),
		Args:      cobra.OnlyValidArgs,
		RunE: withDB(func(cmd *cobra.Command, args []string, db *gorm.DB) error {
			// Placing orders must invalidate the listings a running server caches.
			store := cache.Open(cmd.Context(), config.CacheDriver(), config.RedisAddr(), config.RedisPassword())
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.Run(cmd.Context(), seeders.Deps{DB: db, Cache: store, Out: cmd.OutOrStdout()}, args...)
		}),
	}
}
