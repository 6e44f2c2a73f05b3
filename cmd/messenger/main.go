package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/yourorg/chat-app/services/messenger-service/internal/api"
	"github.com/yourorg/chat-app/services/messenger-service/internal/cache"
	"github.com/yourorg/chat-app/services/messenger-service/internal/cassandra"
	"github.com/yourorg/chat-app/services/messenger-service/internal/config"
	"github.com/yourorg/chat-app/services/messenger-service/internal/events"
	"github.com/yourorg/chat-app/services/messenger-service/internal/logger"
	"github.com/yourorg/chat-app/services/messenger-service/internal/metrics"
	"github.com/yourorg/chat-app/services/messenger-service/internal/repository"
	"github.com/yourorg/chat-app/services/messenger-service/internal/service"
)

func main() {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zl, err := logger.New(logger.Config{Development: cfg.App.Env != "production"})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db := cassandra.NewClient(cassandra.Config{
		Hosts:    cfg.Cassandra.Hosts,
		Port:     cfg.Cassandra.Port,
		Keyspace: cfg.Cassandra.Keyspace,
		Timeout:  cfg.CassandraTimeout,
	}, zl)
	if err := db.Connect(); err != nil {
		zl.Fatalw("cassandra init", "error", err)
	}
	defer db.Close()

	directory := repository.NewConversationDirectory(db)
	messages := repository.NewMessageStore(db, directory)

	var convCache service.ConversationCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		convCache = cache.NewConversationCache(rdb, cfg.CacheTTL)
	}

	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicMessageSent)
		defer kp.Close()
		publisher = kp
	}

	svc := service.NewMessenger(directory, messages, convCache, publisher, zl)
	app := api.NewServer(svc, zl)

	go func() {
		zl.Infow("metrics listening", "addr", cfg.Metrics.Addr)
		if err := http.ListenAndServe(cfg.Metrics.Addr, metrics.Handler()); err != nil {
			zl.Warnw("metrics server stopped", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		zl.Infow("messenger listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			zl.Fatalw("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		zl.Errorw("shutdown", "error", err)
	}
}
