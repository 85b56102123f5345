package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hanifwid/go-shop-api/internal/catalog"
	"github.com/hanifwid/go-shop-api/internal/config"
	"github.com/hanifwid/go-shop-api/internal/httpx"
	kafkax "github.com/hanifwid/go-shop-api/internal/kafka"
	"github.com/hanifwid/go-shop-api/internal/orders"
	"github.com/hanifwid/go-shop-api/internal/postgres"
	"github.com/hanifwid/go-shop-api/internal/redisx"
	"github.com/hanifwid/go-shop-api/internal/users"
)

func main() {
	_ = godotenv.Load()

	log, _ := zap.NewProduction()
	defer func() { _ = log.Sync() }()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicLifecycle, 1024, log)
	prod.Start(ctx)

	userSvc := users.NewService(&users.Repo{DB: db})
	productSvc := catalog.NewService(&catalog.Repo{DB: db})
	orderSvc := orders.NewService(&orders.Repo{DB: db})

	router := httpx.NewRouter()
	(&httpx.UsersHandler{Svc: userSvc}).Register(router)
	(&httpx.ProductsHandler{Svc: productSvc}).Register(router)
	(&httpx.OrdersHandler{
		Svc:      orderSvc,
		Producer: prod,
		Redis:    rdb,
		Service:  cfg.ServiceName,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	cancel()
	prod.WaitClosed()
}
