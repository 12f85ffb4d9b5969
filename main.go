package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"

	"ms-listing/internal/config"
	"ms-listing/internal/database"
	"ms-listing/internal/database/migrations"
	"ms-listing/internal/kafka"
	"ms-listing/internal/logger"
	"ms-listing/internal/server"
	"ms-listing/internal/web"
)

// prepareSchema applies the SQL migrations on postgres and creates the
// tables from the models on the other drivers.
func prepareSchema(ctx context.Context, cfg *config.Config, bunDB *bun.DB, log *logger.Logger) error {
	if cfg.Database.Driver != database.DriverPostgres {
		log.Info("DATABASE", fmt.Sprintf("Creating schema for %s", cfg.Database.Driver))
		return database.CreateSchema(ctx, bunDB)
	}
	if !cfg.Migrations.AutoMigrate {
		log.Info("MIGRATE", "AUTO_MIGRATE disabled, skipping migrations")
		return nil
	}

	// Not closed: the postgres migrate driver closes the pool it wraps.
	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
		MigrationsDir: cfg.Migrations.Dir,
		AutoMigrate:   cfg.Migrations.AutoMigrate,
	}, log)
	return runner.RunMigrations()
}

func newFlashStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (web.FlashStore, func()) {
	if !cfg.Enabled {
		log.Info("REDIS", "Redis disabled, keeping flashes in memory")
		return web.NewMemoryFlashStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("REDIS", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Addr, client.Options().DB))
	return web.NewRedisFlashStore(client, cfg.FlashTTL), func() { client.Close() }
}

func newPublisher(ctx context.Context, cfg config.KafkaConfig, log *logger.Logger) (kafka.Publisher, func()) {
	if !cfg.Enabled {
		log.Info("KAFKA", "Kafka disabled, listing events will not be published")
		return kafka.NoopPublisher{}, func() {}
	}

	log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Brokers))
	if err := kafka.EnsureTopicsExist(ctx, cfg.Brokers, cfg.AllTopics(), log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}

	producer := kafka.NewProducer(cfg.Brokers, log)
	return producer, func() { producer.Close() }
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log.Dir, cfg.Log.Level)
	defer log.Close()

	log.Info("APP", "Starting Listing Service initialization")
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx := context.Background()

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if err := prepareSchema(ctx, cfg, bunDB, log); err != nil {
		log.Fatal("MIGRATE", fmt.Sprintf("Schema setup failed: %v", err))
	}

	flashes, closeFlashes := newFlashStore(ctx, cfg.Redis, log)
	defer closeFlashes()

	events, closeEvents := newPublisher(ctx, cfg.Kafka, log)
	defer closeEvents()

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal("RENDER", fmt.Sprintf("Failed to parse templates: %v", err))
	}
	app := web.NewApp(renderer, flashes, log)

	log.Info("HTTP", "Setting up router and middleware")
	srv := server.NewHTTPServer(cfg.Server, server.NewRouter(cfg, bunDB, app, events, log))

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Listing Service running on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Listing Service shutdown complete")
	}
}
