package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	adapthttp "rations/internal/adapter/http"
	"rations/internal/adapter/memory"
	"rations/internal/app"
	"rations/internal/config"
	"rations/internal/metrics"
	"rations/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		addr     string
		seedFile string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("seed") {
				cfg.SeedFile = seedFile
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cfg.Logger(os.Stderr)
			srv, err := buildServer(cfg, logger, time.Now())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, srv, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides "+config.EnvAddr+")")
	cmd.Flags().StringVar(&seedFile, "seed", "", "seed YAML file (overrides "+config.EnvSeedFile+")")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides "+config.EnvLogLevel+")")
	return cmd
}

// buildServer seeds a fresh store and wires the services behind an
// http.Server. Nothing is listening yet.
func buildServer(cfg config.Config, logger *slog.Logger, now time.Time) (*http.Server, error) {
	f, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	ds, err := f.Dataset(cfg.BcryptCost, now)
	if err != nil {
		return nil, err
	}
	store := memory.New(ds)
	m := metrics.New()

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithMetrics(m),
		app.WithSessionTTL(cfg.SessionTTL),
	}
	ledger := app.NewStockLedger(store, opts...)
	svc := adapthttp.Services{
		Auth:          app.NewAuthService(store, memory.NewSessionRepo(), opts...),
		Ledger:        ledger,
		Distributions: app.NewDistributionService(store, ledger, opts...),
		Complaints:    app.NewComplaintService(store, opts...),
		Directory:     app.NewDirectoryService(store),
		Dashboards:    app.NewDashboardService(store, opts...),
	}

	logger.Info("store seeded",
		"beneficiaries", len(ds.Beneficiaries),
		"shops", len(ds.Shops),
		"distributions", len(ds.Distributions),
		"complaints", len(ds.Complaints),
	)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           adapthttp.New(svc, logger, m, cfg.SessionTTL).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
