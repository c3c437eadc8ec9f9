package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ubrstats/ubr/internal/adapters/cache"
	"github.com/ubrstats/ubr/internal/adapters/http/api"
	"github.com/ubrstats/ubr/internal/adapters/postgres"
	"github.com/ubrstats/ubr/internal/adapters/statsapi"
	app "github.com/ubrstats/ubr/internal/app"
	"github.com/ubrstats/ubr/internal/config"
	"github.com/ubrstats/ubr/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the service registers its own
	// registry and metric set.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithEdgeMargin(cfg.EdgeMarginFt),
		app.WithBallDiameter(cfg.IncludeBallDiameter),
		app.WithDefaultSeason(cfg.DefaultSeason),
		app.WithResolver(statsapi.NewClient(statsapi.WithBaseURL(cfg.StatsAPIBaseURL))),
	}

	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Error(ctx, "failed to connect to postgres", logger.Error(err))
			return
		}
		defer db.Close()
		store := postgres.NewStore(db)
		opts = append(opts, app.WithSnapshotStore(store), app.WithPitchStore(store))
		log.Info(ctx, "using postgres store")
	} else {
		log.Info(ctx, "using in-memory store")
	}

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.Error(ctx, "failed to connect to redis", logger.Error(err))
			return
		}
		defer client.Close()
		opts = append(opts, app.WithScoreCache(cache.New(client,
			cache.WithTTL(time.Duration(cfg.ScoreCacheTTLSeconds)*time.Second))))
		log.Info(ctx, "score cache enabled", logger.String("addr", cfg.RedisAddr))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Hot-reload classifier tunables when a config file is in use.
	if path := os.Getenv("UBR_CONFIG"); path != "" {
		go func() {
			if err := config.Watch(ctx, path, func(updated *config.Config) {
				svc.Reconfigure(ctx, updated)
			}); err != nil {
				log.Warn(ctx, "config watch disabled", logger.Error(err))
			}
		}()
	}

	mux := http.NewServeMux()
	server := api.NewServer(svc, svc)
	server.Register(ctx, mux)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "http server listening", logger.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "http server failed", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "http server shutdown failed", logger.Error(err))
	}
}
