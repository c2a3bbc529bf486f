package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/grocery-pos/internal/cache"
	"github.com/vasiliy-maslov/grocery-pos/internal/catalog"
	"github.com/vasiliy-maslov/grocery-pos/internal/category"
	"github.com/vasiliy-maslov/grocery-pos/internal/config"
	"github.com/vasiliy-maslov/grocery-pos/internal/customer"
	"github.com/vasiliy-maslov/grocery-pos/internal/db"
	"github.com/vasiliy-maslov/grocery-pos/internal/events"
	posHttp "github.com/vasiliy-maslov/grocery-pos/internal/handler/http"
	"github.com/vasiliy-maslov/grocery-pos/internal/inventory"
	"github.com/vasiliy-maslov/grocery-pos/internal/order"
	"github.com/vasiliy-maslov/grocery-pos/internal/payment"
	"github.com/vasiliy-maslov/grocery-pos/internal/supplier"
)

type publisher interface {
	order.EventPublisher
	Close() error
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", cfg.App.LogLevel).Msg("Unknown log level, falling back to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.With().Str("service", cfg.App.Name).Logger()

	log.Info().Msg("POS service starting...")

	ctx := context.Background()

	if err := db.ApplyMigrations(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	pg, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	var orderCache order.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, order cache disabled")
		} else {
			defer rdb.Close()
			orderCache = order.NewRedisCache(rdb, cfg.Redis.OrderTTL)
		}
	}

	var pub publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderEventTopic, cfg.App.Name)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.OrderEventTopic).Msg("Order events enabled")
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close event publisher")
		}
	}()

	catalogSvc := catalog.NewService(catalog.NewRepository(pg.Pool))
	inventorySvc := inventory.NewService(inventory.NewRepository(pg), cfg.App.LowStockThreshold)
	customerSvc := customer.NewService(customer.NewRepository(pg.Pool))
	paymentSvc := payment.NewService(payment.NewRepository(pg.Pool))
	categorySvc := category.NewService(category.NewRepository(pg.Pool))
	supplierSvc := supplier.NewService(supplier.NewRepository(pg.SQL))
	orderSvc := order.NewService(order.NewRepository(pg), orderCache, pub)

	router := posHttp.NewRouter(
		posHttp.NewOrderHandler(orderSvc),
		posHttp.NewCustomerHandler(customerSvc),
		posHttp.NewProductHandler(catalogSvc),
		posHttp.NewInventoryHandler(inventorySvc),
		posHttp.NewPaymentHandler(paymentSvc),
		posHttp.NewCategoryHandler(categorySvc),
		posHttp.NewSupplierHandler(supplierSvc),
	)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      posHttp.RateLimit(cfg.App.RateLimit, cfg.App.RateBurst, cfg.App.TrustedProxyPrefixes())(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("POS service stopped gracefully")
}
