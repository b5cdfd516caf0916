package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinema_storefront/config"
	"cinema_storefront/database"
	"cinema_storefront/enrich"
	"cinema_storefront/gateway"
	"cinema_storefront/handler"
	"cinema_storefront/router"
	"cinema_storefront/session"
	"cinema_storefront/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func openStorage(settings *config.Settings, rdb *redis.Client, logger *zap.Logger) storage.Store {
	switch settings.StorageDriver {
	case "redis":
		return storage.NewRedisStore(rdb)
	case "postgres":
		db, err := database.Connect(settings.Database.DSN())
		if err != nil {
			logger.Fatal("database unavailable", zap.Error(err))
		}
		return storage.NewGormStore(db)
	default:
		return storage.NewMemoryStore()
	}
}

func main() {
	settings, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := newLogger(settings.Env)
	defer logger.Sync()

	var rdb *redis.Client
	if settings.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: settings.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis unavailable", zap.String("addr", settings.RedisAddr), zap.Error(err))
		}
		cancel()
		defer rdb.Close()
	}

	client := gateway.NewClient(settings.BackendURL, settings.HTTPTimeout, gateway.WithLogger(logger.Named("gateway")))
	enricher := enrich.NewService(client,
		enrich.WithMaxParallel(settings.EnrichMaxParallel),
		enrich.WithLogger(logger.Named("enrich")))

	resetCron, err := enrich.StartCacheReset(enricher.Cache(), settings.DiscountResetCron, logger.Named("enrich"))
	if err != nil {
		logger.Fatal("invalid DISCOUNT_CACHE_RESET_CRON", zap.Error(err))
	}
	if resetCron != nil {
		defer resetCron.Stop()
	}

	opts := []session.Option{
		session.WithIdleTimeout(settings.SessionIdleTimeout),
		session.WithLogger(logger.Named("session")),
	}
	if rdb != nil {
		opts = append(opts, session.WithBroadcaster(session.NewRedisBroadcaster(rdb, logger.Named("broadcast"))))
	}
	registry := session.NewRegistry(client, enricher, openStorage(settings, rdb, logger), opts...)
	defer registry.Close()

	sweeper, err := session.StartSweeper(registry, time.Minute)
	if err != nil {
		logger.Fatal("session sweeper", zap.Error(err))
	}
	defer sweeper.Shutdown()

	handler.Sessions = registry
	handler.Backend = client
	handler.Logger = logger.Named("http")

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     settings.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))
	router.SetupRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	logger.Info("storefront listening", zap.String("port", settings.Port), zap.String("backend", settings.BackendURL))
	if err := app.Listen(":" + settings.Port); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
