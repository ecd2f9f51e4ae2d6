package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/meetcast/matching-server-go/internal/config"
	"github.com/meetcast/matching-server-go/internal/database"
	"github.com/meetcast/matching-server-go/internal/handler"
	"github.com/meetcast/matching-server-go/internal/jobs"
	"github.com/meetcast/matching-server-go/internal/middleware"
	"github.com/meetcast/matching-server-go/internal/redis"
	"github.com/meetcast/matching-server-go/internal/repository"
	"github.com/meetcast/matching-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("APP_ENV") == "production"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	soloRepo := repository.NewSoloMatchingRepository(db.DB)
	groupRepo := repository.NewGroupMatchingRepository(db.DB)
	participantRepo := repository.NewParticipantRepository(db.DB)
	castRepo := repository.NewCastRepository(db.DB)

	reviewStore := redis.NewReviewStore(redisClient)

	baseHourlyRate, err := castRepo.BaseHourlyRate(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve base hourly rate")
	}
	if baseHourlyRate == 0 {
		baseHourlyRate = cfg.BaseHourlyRate
	}

	matchingService := service.NewMatchingService(soloRepo, castRepo, cfg.MinHourlyRate)
	groupService := service.NewGroupMatchingService(db, groupRepo, participantRepo, castRepo, baseHourlyRate)
	lifecycleService := service.NewLifecycleService(soloRepo, groupRepo, participantRepo)
	viewService := service.NewViewService(soloRepo, groupRepo, participantRepo, reviewStore)

	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthTokenSecret)
	rateLimitMiddleware := middleware.NewRedisRateLimitMiddleware(redisClient.Client, cfg.RateLimitPerMin)

	matchingHandler := handler.NewMatchingHandler(matchingService, lifecycleService)
	groupHandler := handler.NewGroupMatchingHandler(groupService, lifecycleService)
	viewHandler := handler.NewViewHandler(viewService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMiddleware.Handler)
		r.Use(rateLimitMiddleware.Handler)

		r.Route("/matchings", func(r chi.Router) {
			r.Mount("/group", groupHandler.Routes())
			r.Mount("/", matchingHandler.Routes())
		})
		r.Mount("/guest", viewHandler.GuestRoutes())
		r.Mount("/cast", viewHandler.CastRoutes())
	})

	if cfg.OfferTTLHours > 0 {
		expiryJob := jobs.NewExpiryJob(soloRepo, groupRepo, cfg.OfferTTL(), config.ExpiryJobInterval)
		expiryJob.Start()
		defer expiryJob.Stop()
	}

	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     r,
		ReadTimeout: config.ServerReadTimeout,
		IdleTimeout: config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
