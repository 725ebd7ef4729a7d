package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seantiz/catsapi/internal/api"
	"github.com/seantiz/catsapi/internal/cats"
	"github.com/seantiz/catsapi/internal/config"
	"github.com/seantiz/catsapi/internal/store"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "catsapi",
		Short:        "Cats demo HTTP API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

type serveFlags struct {
	envFile string
	addr    string
	dbPath  string
	timeout time.Duration
}

func newServeCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(f.envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = f.addr
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = f.dbPath
			}
			if cmd.Flags().Changed("timeout") {
				if f.timeout <= 0 {
					return fmt.Errorf("--timeout must be positive, got %s", f.timeout)
				}
				cfg.RequestTimeout = f.timeout
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&f.envFile, "env-file", config.DefaultEnvFile, "env-format file read before the process environment")
	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (overrides CATS_LISTEN_ADDR)")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite path, :memory: keeps nothing (overrides CATS_DB_PATH)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "per-request deadline (overrides CATS_REQUEST_TIMEOUT)")

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	logger.Info("catsapi: starting",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"request_timeout", cfg.RequestTimeout.String(),
	)

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	svc := cats.NewService(db, logger)
	srv := api.NewServer(api.Config{
		Addr:           cfg.ListenAddr,
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
	}, svc, logger)

	return srv.Run(ctx)
}
