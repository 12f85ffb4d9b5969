// Command listing-service runs the listing site against MySQL with
// in-process flashes and no event publishing.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"

	"ms-listing/internal/config"
	"ms-listing/internal/database"
	"ms-listing/internal/kafka"
	"ms-listing/internal/logger"
	"ms-listing/internal/server"
	"ms-listing/internal/web"
)

func verifyConnections(ctx context.Context, dsn string) *bun.DB {
	if dsn == "" {
		log.Fatal("[Database] MYSQL_DSN not set")
	}
	sqldb, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("[Database] Failed to open MySQL: %v", err)
	}
	if err := sqldb.PingContext(ctx); err != nil {
		log.Fatalf("[Database] Failed to connect to MySQL: %v", err)
	}
	log.Println("[Database] MySQL connection successful")

	return bun.NewDB(sqldb, mysqldialect.New())
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	bunDB := verifyConnections(ctx, cfg.Database.MySQLDSN)
	defer bunDB.Close()

	if err := database.CreateSchema(ctx, bunDB); err != nil {
		log.Fatalf("[Database] Schema setup failed: %v", err)
	}

	appLog := logger.NewWithWriter(os.Stdout, cfg.Log.Level)
	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("[Render] %v", err)
	}
	app := web.NewApp(renderer, web.NewMemoryFlashStore(), appLog)

	srv := server.NewHTTPServer(cfg.Server, server.NewRouter(cfg, bunDB, app, kafka.NoopPublisher{}, appLog))

	go func() {
		log.Printf("🚀 Listing Service on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	log.Println("✅ Listing service shutdown complete")
}
