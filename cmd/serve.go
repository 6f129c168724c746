package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/catalog"
	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/http/api"
	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/http/site"
	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/http/swagger"
	app "github.com/edytawrobel/team-coords-aiengineer/internal/app"
	"github.com/edytawrobel/team-coords-aiengineer/internal/config"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

// newService maps configuration onto service options.
func newService(cfg *config.Config) (*app.Service, error) {
	start, err := cfg.EventStart()
	if err != nil {
		return nil, err
	}
	opts := []app.Option{
		app.WithLogger(logger.Named("service")),
		app.WithQueueSize(cfg.IntentQueueSize),
		app.WithPersistQueueSize(cfg.PersistQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithDurability(cfg.Durability),
		app.WithDBPath(cfg.DBPath),
		app.WithSnapshotID(cfg.SnapshotID),
		app.WithShutdownTimeout(cfg.ShutdownTimeout()),
		app.WithEventStart(start),
	}

	src, err := catalog.New(cfg.CatalogSource, catalog.NewMapper(start), catalog.WithTimeout(cfg.CatalogTimeout()))
	switch {
	case errors.Is(err, catalog.ErrNoSource):
	case err != nil:
		return nil, err
	default:
		opts = append(opts, app.WithCatalog(src))
	}
	return app.New(opts...), nil
}

func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)
	return mux
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	svc, err := newService(cfg)
	if err != nil {
		return fmt.Errorf("configure service: %w", err)
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		runSystemMetrics(gctx, systemMetricsInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
		}
		return svc.Stop(shutdownCtx)
	})

	err = g.Wait()
	log.Info(context.Background(), "server stopped")
	return err
}

// runSystemMetrics samples memory and goroutines until ctx is done.
func runSystemMetrics(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		updateSystemMetrics()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
