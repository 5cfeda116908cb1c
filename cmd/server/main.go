package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nulzo/model-sync-api/cmd"
	"github.com/nulzo/model-sync-api/internal/adapters/cache/disk"
	rediscache "github.com/nulzo/model-sync-api/internal/adapters/cache/redis"
	"github.com/nulzo/model-sync-api/internal/adapters/notify"
	"github.com/nulzo/model-sync-api/internal/adapters/sources/catalog"
	"github.com/nulzo/model-sync-api/internal/adapters/sources/enrichment"
	"github.com/nulzo/model-sync-api/internal/config"
	"github.com/nulzo/model-sync-api/internal/core/domain"
	"github.com/nulzo/model-sync-api/internal/core/ports"
	"github.com/nulzo/model-sync-api/internal/core/services"
	"github.com/nulzo/model-sync-api/internal/gateway"
	"github.com/nulzo/model-sync-api/internal/logger"
	"github.com/nulzo/model-sync-api/internal/platform/otel"
	"github.com/nulzo/model-sync-api/internal/server"
	"github.com/nulzo/model-sync-api/internal/store"
	"github.com/nulzo/model-sync-api/internal/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Initialize(cfg.Server.Env)
	defer logger.Sync()
	log := logger.Get()

	go cmd.CheckForUpdates()

	domain.InitValidator()

	shutdownTracer, err := otel.InitTracer("model-sync-api", log, os.Stdout)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}

	// Persistent cache store
	var cacheStore ports.CacheStore
	switch cfg.Cache.Backend {
	case "redis":
		cacheStore = rediscache.NewStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	default:
		dir, err := cfg.Cache.CacheDir()
		if err != nil {
			log.Fatal("cannot resolve cache dir", zap.Error(err))
		}
		cacheStore, err = disk.NewStore(dir)
		if err != nil {
			log.Fatal("cannot open cache dir", zap.String("dir", dir), zap.Error(err))
		}
	}

	// Audit store; the engine runs without it if sqlite is unavailable
	repo, err := sqlite.NewSQLiteStorage(cfg.Store.DSN)
	if err != nil {
		log.Warn("audit store unavailable", zap.Error(err))
		repo = nil
	}

	registry := services.NewPublishedRegistry()
	controller := services.NewController(
		catalog.NewClient(cfg.Catalog.URL, nil),
		enrichment.NewClient(cfg.Enrich.URL, cfg.Provider.Slug, nil),
		services.NewCacheState(cacheStore),
		registry,
		notify.NewLogNotifier(),
		syncRecorder(repo),
		services.SyncOptions{
			ColdStartTimeout: cfg.Sync.ColdStartTimeout,
			NotifyFreeModels: cfg.Notify.FreeModels,
			HasCredential:    func() bool { return cfg.Provider.APIKey() != "" },
		},
	)

	// Cache-first load; a cold-start total failure means there is
	// nothing to serve and nothing will be retried this run.
	if err := controller.Start(context.Background()); err != nil {
		log.Error("model registration abandoned", zap.Error(err))
	}

	service := gateway.NewService(
		registry,
		dispatchRecorder(repo),
		cfg.Provider.BaseURL,
		cfg.Provider.APIKeyEnv,
		cfg.Provider.APIKey,
	)

	srv := server.New(cfg, log, service, controller, repoOrNil(repo))

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if shutdownTracer != nil {
		_ = shutdownTracer(ctx)
	}
	if repo != nil {
		_ = repo.Close()
	}
}

// nil *SqliteRepository values must not leak into interfaces, hence the
// explicit conversions below.

func syncRecorder(repo *sqlite.SqliteRepository) services.SyncRecorder {
	if repo == nil {
		return nil
	}
	return repo
}

func dispatchRecorder(repo *sqlite.SqliteRepository) gateway.DispatchRecorder {
	if repo == nil {
		return nil
	}
	return repo
}

func repoOrNil(repo *sqlite.SqliteRepository) store.Repository {
	if repo == nil {
		return nil
	}
	return repo
}
