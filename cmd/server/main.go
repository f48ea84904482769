package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/cart"
	"github.com/amos-ugbedah/Jason-E-Commerce/internal/catalog"
	"github.com/amos-ugbedah/Jason-E-Commerce/internal/checkout"
	"github.com/amos-ugbedah/Jason-E-Commerce/internal/config"
	h "github.com/amos-ugbedah/Jason-E-Commerce/internal/http"
	"github.com/amos-ugbedah/Jason-E-Commerce/internal/rates"
	"github.com/amos-ugbedah/Jason-E-Commerce/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis serves the product cache and the default cart store.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Cart persistence backend
	var cartStore cart.Store
	switch cfg.CartStore {
	case "mongo":
		mongoDB, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Fatal("failed to connect to mongodb", zap.Error(err))
		}
		cartStore = store.NewMongoStore(mongoDB, cfg.CartStorageKey)
	case "memory":
		cartStore = store.NewMemoryStore()
	default:
		cartStore = store.NewRedisStore(redisClient, cfg.CartStorageKey)
	}

	engine := cart.NewEngine(cartStore, logger)
	engine.Load(ctx)

	// Product catalog on Postgres
	db, err := catalog.Connect(&catalog.Credentials{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
	})
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := catalog.RunMigrations(db, cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	catalogService := catalog.NewService(
		catalog.NewPostgresRepository(db),
		catalog.NewRedisCache(redisClient),
		logger,
	)

	// Exchange rates refresh in the background for the lifetime of the
	// process.
	ratesClient := rates.NewClient(cfg.RateAPIBaseURL, "", 10*time.Second, logger)
	refresher := rates.NewRefresher(ratesClient, engine, cfg.RateRefreshInterval, logger)
	go refresher.Run(ctx)

	publisher := checkout.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderTopic)
	defer publisher.Close()

	gateway := checkout.NewPaystackGateway(cfg.PaystackSecretKey, cfg.PaystackBaseURL)
	orchestrator := checkout.NewOrchestrator(engine, gateway, publisher, logger)

	cartHandler := h.NewCartHandler(engine, catalogService, cfg.RequestTimeout)
	catalogHandler := h.NewCatalogHandler(catalogService, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(orchestrator, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Get("/summary", cartHandler.GetSummary)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Post("/voucher", cartHandler.ApplyVoucher)
			r.Put("/currency", cartHandler.SetCurrency)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{product_id}", catalogHandler.GetProduct)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Begin)
			r.Post("/{reference}/complete", checkoutHandler.Complete)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
