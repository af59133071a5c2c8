package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/market-pulse/internal/catalog"
	"github.com/rogerio-castellano/market-pulse/internal/config"
	"github.com/rogerio-castellano/market-pulse/internal/db"
	apphttp "github.com/rogerio-castellano/market-pulse/internal/http"
	"github.com/rogerio-castellano/market-pulse/internal/http/ban"
	"github.com/rogerio-castellano/market-pulse/internal/http/handlers"
	rl "github.com/rogerio-castellano/market-pulse/internal/http/rate_limiter"
	"github.com/rogerio-castellano/market-pulse/internal/logging"
	"github.com/rogerio-castellano/market-pulse/internal/redissvc"
	"github.com/rogerio-castellano/market-pulse/internal/repo"
	"github.com/rogerio-castellano/market-pulse/internal/views"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	products, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	renderer, err := views.NewTemplateRenderer()
	if err != nil {
		return err
	}

	svc := catalog.NewService(products,
		catalog.WithQueryTimeout(cfg.Catalog.QueryTimeout),
		catalog.WithMaxParallel(cfg.Catalog.MaxParallel),
	)
	h := handlers.NewHandler(svc, renderer, products, logger)

	banStore, closeBanStore, err := openBanStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBanStore()

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	guard := ban.NewGuard(banStore, cfg.Ban.MaxStrikes, cfg.Ban.Duration, logger)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute, 3*time.Minute)
	go guard.StartBanSummary(ctx, 24*time.Hour)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apphttp.NewRouter(h, apphttp.RateLimit(limiter, guard, logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":   cfg.Server.Addr,
			"driver": cfg.Catalog.Driver,
		}).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func openRepository(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repo.ProductRepository, func(), error) {
	switch cfg.Catalog.Driver {
	case "mongo":
		client, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.WithError(err).Warn("failed to disconnect from mongo")
			}
		}
		return repo.NewMongoProductRepository(coll), closeFn, nil

	case "postgres":
		database, err := db.ConnectPostgres(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := database.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres")
			}
		}
		return repo.NewPostgresProductRepository(database), closeFn, nil

	case "memory":
		mem := repo.NewInMemoryProductRepository()
		if cfg.Catalog.SeedFile != "" {
			if err := mem.LoadFile(cfg.Catalog.SeedFile); err != nil {
				return nil, nil, err
			}
		}
		return mem, func() {}, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", repo.ErrUnsupportedDriver, cfg.Catalog.Driver)
}

func openBanStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (ban.Store, func(), error) {
	if !cfg.Redis.Enabled {
		return ban.NewMemoryStore(), func() {}, nil
	}

	rdb, err := redissvc.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logger.WithError(err).Warn("failed to close redis")
		}
	}
	return ban.NewRedisStore(rdb), closeFn, nil
}
