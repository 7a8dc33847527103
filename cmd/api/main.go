// @title                       Coderr Marketplace API
// @version                     1.0
// @description                 Freelance marketplace: business users publish offers, customers order packages and review businesses.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/coderr/marketplace/docs"
	"github.com/coderr/marketplace/internal/api"
	"github.com/coderr/marketplace/internal/api/handler"
	"github.com/coderr/marketplace/internal/core/service"
	mongodb "github.com/coderr/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/coderr/marketplace/internal/infrastructure/db/redis"
	"github.com/coderr/marketplace/internal/infrastructure/queue"
	"github.com/coderr/marketplace/internal/pkg/config"
	"github.com/coderr/marketplace/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Env:     cfg.Env,
		Service: "marketplace",
	})
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "dev-secret"
		log.Warn().Msg("JWT_SECRET not set, using an insecure development secret")
	}

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	profiles := mongodb.NewProfileRepository(db)
	offers := mongodb.NewOfferRepository(db)
	orders := mongodb.NewOrderRepository(db)
	reviews := mongodb.NewReviewRepository(db)
	orderEvents := mongodb.NewOrderEventRepository(db)

	// --- Order event audit trail ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Workers,
		service.NewOrderEventService(orderEvents, logger.Component("order_events")),
		logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)

	// --- Services ---
	authService := service.NewAuthService(users, profiles, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger.Component("auth"))
	deps := api.Deps{
		Logger:    log,
		JWTSecret: cfg.Auth.JWTSecret,
		Auth:      authService,
		Profiles:  service.NewProfileService(profiles, logger.Component("profiles")),
		Offers:    service.NewOfferService(offers, logger.Component("offers")),
		Orders: service.NewOrderService(orders, offers, users,
			redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL), dispatcher, logger.Component("orders")),
		Reviews: service.NewReviewService(reviews, users, logger.Component("reviews")),
		Stats: service.NewStatsService(reviews, offers, profiles,
			redisdb.NewStatsCache(rdb, cfg.Redis.StatsCacheTTL), logger.Component("stats")),
		Health: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger(db),
			"redis":   handler.RedisPinger(rdb),
		},
		Metrics: true,
	}

	if cfg.Admin.Username != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap admin account")
		}
	}

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// no new events can arrive once the server is down
	cancelWorkers()
	dispatcher.Wait()
	log.Info().Msg("stopped")
}
