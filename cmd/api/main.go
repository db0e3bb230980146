package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shopline/orders-api/internal/catalog"
	"github.com/shopline/orders-api/internal/config"
	"github.com/shopline/orders-api/internal/httpx"
	kafkax "github.com/shopline/orders-api/internal/kafka"
	"github.com/shopline/orders-api/internal/mongox"
	"github.com/shopline/orders-api/internal/orders"
	"github.com/shopline/orders-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.ServiceName).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	client, db, err := mongox.Connect(connectCtx, cfg.MongoURI, cfg.DatabaseName)
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongox.EnsureIndexes(ctx, db); err != nil {
		log.Warn().Err(err).Msg("index creation failed")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	prod.Start(ctx)

	// Stores & engine
	products := catalog.NewStore(db)
	orderStore := orders.NewStore(db)
	engine := &orders.Engine{
		Products: products,
		Orders:   orderStore,
		Idem:     &redisx.IdemStore{C: rdb},
		Producer: prod,
		Service:  cfg.ServiceName,
		Log:      log,
	}

	// HTTP
	router := httpx.NewRouter(cfg.ServiceName)
	oh := &httpx.OrdersHandler{Engine: engine, Log: log}
	oh.Register(router)
	ph := &httpx.ProductsHandler{Catalog: products, Log: log}
	ph.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	prod.Close()      // close inbox -> flush & close writer
	prod.WaitClosed() // drain
}
