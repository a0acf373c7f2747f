package cli

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

	"github.com/GoSim-25-26J-441/reading-list-api/config"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/bootstrap"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/logging"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/repository"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/service"
	"github.com/spf13/cobra"
)

type ServeOptions struct {
	*RootOptions
	Port    string
	Backend string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&opts.Backend, "rate-limit-backend", "", "rate limit backend (memory|redis)")

	return cmd
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(opts *RootOptions, port, backend string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.App.LogLevel = opts.LogLevel
	}
	if port != "" {
		cfg.Server.Port = port
	}
	if backend != "" {
		cfg.RateLimit.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := loadConfig(opts.RootOptions, opts.Port, opts.Backend)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	logger := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter, err := bootstrap.OpenLimiter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	defer limiter.Close()

	entries := service.NewEntryService(repository.NewEntryStore(), service.WithLogger(logger))

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		MaxBodyBytes:   cfg.Limits.MaxBodyBytes,
		RateWindow:     windowLabel(cfg.RateLimit.Window),
		TrustedProxies: cfg.Server.TrustedProxies,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Entries:        entries,
		Limiter:        limiter.Limiter,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"port", cfg.Server.Port,
			"env", cfg.App.Environment,
			"rate_limit_backend", limiter.Backend(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// windowLabel renders a rate limit window for problem details,
// e.g. "minute" for one minute and "30s" otherwise.
func windowLabel(d time.Duration) string {
	switch d {
	case time.Second:
		return "second"
	case time.Minute:
		return "minute"
	case time.Hour:
		return "hour"
	default:
		return d.String()
	}
}
