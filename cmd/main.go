package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/storefront-service/internal/catalog"
	"github.com/fjod/go_cart/storefront-service/internal/config"
	h "github.com/fjod/go_cart/storefront-service/internal/http"
	"github.com/fjod/go_cart/storefront-service/internal/publisher"
	"github.com/fjod/go_cart/storefront-service/internal/session"
	"github.com/fjod/go_cart/storefront-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog. A failed load leaves the service running without products.
	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	loader := catalog.NewLoader(
		catalog.NewSource("products", cfg.ProductsSource, httpClient, zl),
		catalog.NewSource("exclusive", cfg.ExclusiveSource, httpClient, zl),
		zl,
	)
	holder := catalog.NewHolder(zl)
	if err := holder.LoadOnce(ctx, loader); err != nil {
		zl.Error("starting without catalog", zap.Error(err))
	}

	// Sessions
	var store session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zl.Fatal("redis connection failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		zl.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
		store = session.NewRedisStore(redisClient, cfg.SessionTTL)
	} else {
		mem := session.NewMemoryStore(cfg.SessionTTL)
		defer mem.Close()
		store = mem
	}

	// Orders
	var orders interface {
		session.OrderPublisher
		io.Closer
	}
	if len(cfg.KafkaBrokers) > 0 {
		orders = publisher.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		zl.Info("publishing orders to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	} else {
		orders = publisher.NewLogPublisher(zl)
	}
	defer orders.Close()

	manager := session.NewManager(store, holder, session.NewAccounts(), orders, zl)

	router := h.NewRouter(h.RouterConfig{
		Catalog:            holder,
		Sessions:           manager,
		Logger:             zl,
		FeaturedCount:      cfg.FeaturedCount,
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("storefront starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	zl.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	zl.Info("server exited")
}
