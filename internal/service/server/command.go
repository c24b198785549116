package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/kvasnikov/sentinel/internal/api/rest"
	"github.com/kvasnikov/sentinel/internal/config"
	"github.com/kvasnikov/sentinel/internal/logger"
	"github.com/kvasnikov/sentinel/internal/repository"
	directoryrepo "github.com/kvasnikov/sentinel/internal/repository/directory"
	recordrepo "github.com/kvasnikov/sentinel/internal/repository/record"
	directorysvc "github.com/kvasnikov/sentinel/internal/service/directory"
	"github.com/kvasnikov/sentinel/internal/service/engine"
	"github.com/kvasnikov/sentinel/internal/service/guard"
	"github.com/kvasnikov/sentinel/internal/service/query"
)

// Options controls the sentinel-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override.
	ListenAddress string
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server stops. The store handle is opened here and injected into every
// component; nothing in the process reaches for a global connection.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sentinel-server")

	// A .env file is optional; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	defer func() {
		if closeErr := repository.Close(db); closeErr != nil {
			logger.Errorf(ctx, "Failed to close store: %v", closeErr)
		}
	}()

	directory := directoryrepo.NewGormRepository(db)
	records := recordrepo.NewGormRepository(db)
	ownership := guard.NewGuard(directory)

	api := rest.NewServer(
		directorysvc.NewService(directory),
		engine.NewService(directory, records, ownership),
		query.NewService(directory, records, ownership, cfg.DefaultRecordsLimit, cfg.MaxRecordsLimit),
	)

	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           api.Router(),
		ReadHeaderTimeout: cfg.Timeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.InfoKV(ctx, "Sentinel server listening", "listen_address", listenAddress)

	// Done channel is closed after Shutdown finishes to ensure we block until
	// in-flight requests drain before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf(ctx, "Shutdown did not complete cleanly: %v", err)
		}

		close(done)
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}
