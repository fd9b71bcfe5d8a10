package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/JoelBonito/gestion-chs-sub001/internal/config"
	"github.com/JoelBonito/gestion-chs-sub001/internal/db"
	"github.com/JoelBonito/gestion-chs-sub001/internal/draft"
	"github.com/JoelBonito/gestion-chs-sub001/internal/notify"
	"github.com/JoelBonito/gestion-chs-sub001/internal/server"
	"github.com/JoelBonito/gestion-chs-sub001/internal/storage"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	if *migrateOnlyFlag {
		if _, err := db.ConnectAndMigrate(); err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		log.Println("migrations completed; exiting as requested")
		return
	}

	cfg := config.Load()
	dbConn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}

	deps := server.Deps{}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		client := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("redis unreachable, falling back to in-memory drafts: %v", err)
			deps.Drafts = draft.NewMemoryStore(0)
		} else {
			deps.Drafts = draft.NewRedisStore(client, 0)
			log.Println("draft store: redis")
		}
		cancel()
	} else {
		deps.Drafts = draft.NewMemoryStore(0)
	}

	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		deps.Notifier = notify.New(brokers)
		log.Printf("event notifier: kafka %v topic=%s", brokers, notify.Topic)
	} else {
		deps.Notifier = notify.New(nil)
	}
	defer deps.Notifier.Close()

	files, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}
	deps.Files = files

	handler := server.New(dbConn, deps)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s env=%s", srv.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
