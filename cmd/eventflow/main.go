package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/obessu/eventflow/internal/ai"
	"github.com/obessu/eventflow/internal/api"
	"github.com/obessu/eventflow/internal/cache"
	"github.com/obessu/eventflow/internal/config"
	"github.com/obessu/eventflow/internal/health"
	"github.com/obessu/eventflow/internal/metrics"
	"github.com/obessu/eventflow/internal/repo"
	"github.com/obessu/eventflow/internal/seed"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if os.Getenv("ENVIRONMENT") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Logger = logger

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err == nil {
		zerolog.SetGlobalLevel(level)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Str("listen_addr", cfg.ListenAddr).
		Bool("ai_enabled", cfg.AIEnabled()).
		Bool("durable_cache", cfg.DurableCacheEnabled()).
		Msg("starting eventflow")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// In-memory stores. Everything is lost on restart by design.
	events := repo.NewEventStore()
	contacts := repo.NewContactStore(events)

	if cfg.SeedPath != "" {
		nEvents, nContacts, err := seed.Load(cfg.SeedPath, events, contacts)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.SeedPath).Msg("seed load failed, starting empty")
		} else {
			logger.Info().Int("events", nEvents).Int("contacts", nContacts).Msg("seed fixtures loaded")
		}
	}

	m := metrics.New()
	m.EventsStored.Set(float64(events.Len()))

	checker := health.NewChecker(logger)
	checker.Register("event_store", func(ctx context.Context) health.Status {
		return health.StatusOK
	})

	// AI collaborator + analysis cache (optional)
	var analyzer ai.Analyzer
	var briefer ai.Briefer
	if cfg.AIEnabled() {
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey,
			ai.WithModel(cfg.GeminiModel),
			ai.WithLogger(logger.With().Str("component", "ai").Logger()),
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create ai client")
		}
		briefer = client

		cacheOpts := []cache.AnalyzerOption{
			cache.WithRecorder(m),
			cache.WithLogger(logger.With().Str("component", "cache").Logger()),
		}
		if cfg.DurableCacheEnabled() {
			store, err := cache.NewSQLiteStore(cfg.CacheDBPath, logger.With().Str("component", "cache_store").Logger())
			if err != nil {
				// Durable tier is best-effort: degrade to memory-only.
				logger.Warn().Err(err).Msg("durable cache unavailable, memory tier only")
			} else {
				defer store.Close()
				cacheOpts = append(cacheOpts, cache.WithDurableStore(store))
				checker.Register("cache_store", func(ctx context.Context) health.Status {
					if _, _, err := store.Get(ctx, "probe"); err != nil {
						return health.StatusDegraded
					}
					return health.StatusOK
				})
			}
		}
		analyzer = cache.NewCachingAnalyzer(client, cfg.CacheMaxEntries, cacheOpts...)
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set; analysis endpoints disabled")
	}

	handlers := api.NewHandlers(events, contacts, analyzer, briefer, m, cfg.DefaultYear, logger)
	server := api.NewServer(api.ServerConfig{
		ListenAddr:  cfg.ListenAddr,
		APIKey:      cfg.APIKey,
		DefaultYear: cfg.DefaultYear,
	}, handlers, checker, m, logger)

	go func() {
		if err := server.Listen(); err != nil {
			logger.Fatal().Err(err).Msg("api server failed")
		}
	}()

	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down")

	// Bound the drain of in-flight requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}
