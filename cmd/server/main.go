package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/journal-content-api/internal/api"
	"github.com/journal-content-api/internal/auth"
	"github.com/journal-content-api/internal/cache"
	"github.com/journal-content-api/internal/config"
	"github.com/journal-content-api/internal/database"
	"github.com/journal-content-api/internal/metrics"
	"github.com/journal-content-api/internal/repository"
	"github.com/journal-content-api/internal/service"
	"github.com/journal-content-api/internal/youtube"
	"github.com/journal-content-api/pkg/logger"
)

func main() {
	log := logger.New()
	log.Info().Msg("Starting journal content API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Auth.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid admin auth configuration")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	repos := repository.New(db)

	contentCache, closeCache, err := cache.Connect(&cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer closeCache()

	opts := service.Options{
		Cache:   contentCache,
		Metrics: metrics.New(),
		Tokens:  auth.NewTokenManager(&cfg.Auth),
	}
	if cfg.YouTube.APIKey != "" {
		fetcher, err := youtube.NewFetcher(context.Background(), cfg.YouTube.APIKey, log)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create YouTube client, video metadata lookup disabled")
		} else {
			opts.YouTube = fetcher
		}
	} else {
		log.Info().Msg("YOUTUBE_API_KEY not set, video metadata lookup disabled")
	}

	services := service.NewServices(repos, cfg, opts, log)

	go services.Job.StartProcessor(context.Background())
	log.Info().Msg("Background job processor started")

	router := api.NewRouter(services, cfg, opts.Tokens, opts.Metrics, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	services.Job.StopProcessor()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
