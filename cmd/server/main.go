package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/matchlog/internal/api"
	"github.com/vytor/matchlog/internal/config"
	"github.com/vytor/matchlog/internal/db"
	"github.com/vytor/matchlog/internal/jobs"
	"github.com/vytor/matchlog/internal/library"
	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/repository/sqlite"
	"github.com/vytor/matchlog/internal/services"
	"github.com/vytor/matchlog/internal/stats"
	"github.com/vytor/matchlog/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Matchlog Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", loc)
	log.Debug("games_page_size=%d", cfg.GamesPageSize)
	log.Debug("runs_page_size=%d", cfg.RunsPageSize)
	log.Debug("stats_cache_size=%d", cfg.StatsCacheSize)
	log.Debug("persist_worker_count=%d", cfg.PersistWorkerCount)
	log.Debug("persist_queue_size=%d", cfg.PersistQueueSize)
	log.Debug("request_timeout=%s", cfg.RequestTimeout)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	deckRepo := sqlite.NewDeckRepository(database.DB)
	tagRepo := sqlite.NewTagRepository(database.DB)
	settingsRepo := sqlite.NewSettingsRepository(database.DB)

	// Persistence runs on its own pool so requests never wait on disk.
	persistPool := worker.NewPool(cfg.PersistWorkerCount, cfg.PersistQueueSize)
	queue := jobs.NewWorkerQueue(persistPool, deckRepo, tagRepo, settingsRepo)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()
	persistPool.Start(ctx)

	lib, err := library.Load(ctx, deckRepo, tagRepo, settingsRepo, queue)
	if err != nil {
		log.Error("failed to load library: %v", err)
		persistPool.Stop()
		database.Close()
		os.Exit(1)
	}

	engine := stats.NewEngine(
		stats.WithPageSizes(cfg.GamesPageSize, cfg.RunsPageSize),
		stats.WithLocation(loc),
		stats.WithCacheSize(cfg.StatsCacheSize),
	)

	srv := &api.Server{
		DeckService:     services.NewDeckService(lib),
		TagService:      services.NewTagService(lib),
		StatsService:    services.NewStatsService(lib, engine),
		SettingsService: services.NewSettingsService(lib),
		DB:              database,
		PersistPool:     persistPool,
		CORSOrigins:     cfg.CORSOrigins,
		RequestTimeout:  cfg.RequestTimeout,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop taking requests before draining saves so no update is lost.
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("draining persist pool: pending=%d", persistPool.QueueSize())
	persistPool.Stop()

	cache := engine.CacheStats()
	log.Debug("stats cache: hits=%d, misses=%d", cache.Hits, cache.Misses)

	log.Info("===========================================")
	log.Info("Matchlog Server Stopped")
	log.Info("===========================================")
}
