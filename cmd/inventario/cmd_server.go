package main

import (
	"fmt"
	"net"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventario/config"
	"github.com/shashiranjanraj/inventario/internal/kernel"
	"github.com/shashiranjanraj/inventario/internal/server"
	"github.com/shashiranjanraj/inventario/pkg/cache"
	"github.com/shashiranjanraj/inventario/pkg/logger"
	"github.com/shashiranjanraj/inventario/pkg/migration"
)

func kernelOptions() kernel.Options {
	return kernel.Options{
		OrderTimeout:       config.OrderTimeout(),
		CacheTTL:           config.CacheTTL(),
		LowStockThreshold:  config.LowStockThreshold(),
		RateLimitPerMinute: config.RateLimitPerMinute(),
		StaticDir:          config.StaticDir(),
	}
}

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"run"},
		Short:   "Start the HTTP server",
		RunE: withDB(func(cmd *cobra.Command, _ []string, db *gorm.DB) error {
			ctx := cmd.Context()
			if migrate {
				if _, err := migration.New(db, cmd.OutOrStdout()).Run(ctx); err != nil {
					return err
				}
			}

			store := cache.Open(ctx, config.CacheDriver(), config.RedisAddr(), config.RedisPassword())
			if closer, ok := store.(interface{ Close() error }); ok {
				defer closer.Close() //nolint:errcheck
			}

			k := kernel.New(db, store, kernelOptions())
			addr := net.JoinHostPort("", config.AppPort())
			logger.Info("inventario starting", "addr", addr, "env", config.AppEnv(), "driver", config.DatabaseDriver())
			return server.Run(ctx, server.DefaultConfig(addr), k.Handler())
		}),
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run pending migrations before serving")
	return cmd
}

func newRouteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "List all registered named routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Routes are mounted without touching the database.
			k := kernel.New(nil, cache.NewMemory(), kernelOptions())

			infos := k.Routes()
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No named routes registered.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}
