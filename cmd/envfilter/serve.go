package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JakWdo/envfilter/internal/config"
	"github.com/JakWdo/envfilter/internal/engine"
	"github.com/JakWdo/envfilter/internal/server"
	"github.com/JakWdo/envfilter/internal/store"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the filter HTTP server",
	Long:  `Serve the environment filter and saved-filter endpoints over HTTP.`,
	Args:  cobra.NoArgs,
	Example: `  envfilter serve
  envfilter serve -c /etc/envfilter/config.yaml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to config file (defaults apply if omitted)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithDefaults(serveConfigPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	executor := engine.New(st, engine.Options{
		DefaultLimit: cfg.DefaultPageSize,
		MaxLimit:     cfg.MaxPageSize,
	})

	srv := server.New(cfg.ListenAddr, logger,
		&server.EnvironmentController{Executor: executor, Logger: logger},
		&server.FiltersController{Store: st, Logger: logger},
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
