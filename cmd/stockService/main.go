package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"StockNotifier/internal/clock"
	"StockNotifier/internal/config"
	"StockNotifier/internal/handlers"
	"StockNotifier/internal/models"
	"StockNotifier/internal/pubsub"
	"StockNotifier/internal/queue"
	"StockNotifier/internal/rabbitMQ"
	"StockNotifier/internal/redisdb"
	"StockNotifier/internal/stock"
	"StockNotifier/internal/worker"
)

func main() {
	// config init
	cfg := config.MustLoad()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// counter store / status store init
	store := redisdb.DeclareRedisDataBase(redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Error("redis is unreachable", "error", err)
		os.Exit(1)
	}

	// rabbitMQ init
	conn, transport := rabbitMQ.SetBrokerConnection(cfg.Broker.URL, cfg.Broker.Exchange)
	defer conn.Close()

	// notification queue and worker
	q := queue.New(log, transport, store)
	sender := worker.NewSender(log, clock.NewSystem(), cfg.Worker.StepInterval, cfg.Worker.TotalSteps, cfg.Worker.Blacklist)
	if err := q.Process(ctx, models.JobTypePushNotification, cfg.Worker.Concurrency, sender.Handle); err != nil {
		log.Error("failed to start notification worker", "error", err)
		os.Exit(1)
	}

	// reservation service; every counter starts from zero
	stockService := stock.New(log, models.DefaultCatalog(), store)
	if err := stockService.ResetAllStock(ctx); err != nil {
		log.Error("failed to reset product stock", "error", err)
		os.Exit(1)
	}

	// announce the reset on the control channel, fire and forget
	publisher := pubsub.NewPublisher(log, store, cfg.Redis.ControlChannel)
	if err := publisher.Publish(ctx, "Stock counters reset"); err != nil {
		log.Error("failed to publish reset notice", "error", err)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Get("/list_products", handlers.ListProducts(log, stockService))
	router.Get("/list_products/{itemId:[0-9]+}", handlers.GetProduct(log, stockService))
	router.Get("/reserve_product/{itemId:[0-9]+}", handlers.ReserveProduct(log, stockService))
	router.Post("/notifications", handlers.CreateNotifications(log, q))
	router.Get("/notifications/{id}", handlers.GetNotificationStatus(log, store))

	server := &http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: router,
	}

	// the control channel subscriber turns KILL_SERVER into a shutdown
	sub := store.Subscribe(ctx, cfg.Redis.ControlChannel)
	defer sub.Close()
	go func() {
		if pubsub.Listen(ctx, log, sub.Channel(), nil) {
			log.Info("kill message received, shutting down")
			stop()
		}
	}()

	go func() {
		log.Info("server is starting", "address", cfg.HTTPServer.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
