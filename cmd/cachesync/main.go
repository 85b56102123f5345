package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hanifwid/go-shop-api/internal/cachesync"
	"github.com/hanifwid/go-shop-api/internal/config"
	kafkax "github.com/hanifwid/go-shop-api/internal/kafka"
	"github.com/hanifwid/go-shop-api/internal/orders"
	"github.com/hanifwid/go-shop-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	log, _ := zap.NewProduction()
	defer func() { _ = log.Sync() }()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &cachesync.Service{
		Cache: &cachesync.RedisCache{RDB: rdb},
		Log:   log,
	}

	group := getenv("CACHESYNC_GROUP", "cachesync-svc")
	workers := atoiOr(os.Getenv("CACHESYNC_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicLifecycle, workers, log)

	go func() {
		log.Info("cachesync consumer started",
			zap.String("group", group),
			zap.String("topic", orders.TopicLifecycle),
			zap.Int("workers", workers),
		)
		if err := cons.Start(ctx, svc.HandleLifecycleEvent); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 {
		return def
	}
	return i
}
