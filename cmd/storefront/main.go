package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/decohome/internal/catalog"
	"github.com/fjod/decohome/internal/checkout"
	"github.com/fjod/decohome/internal/clipboard"
	"github.com/fjod/decohome/internal/codec"
	"github.com/fjod/decohome/internal/config"
	"github.com/fjod/decohome/internal/generator"
	h "github.com/fjod/decohome/internal/http"
	"github.com/fjod/decohome/internal/publisher"
	"github.com/fjod/decohome/internal/session"
	"github.com/fjod/decohome/internal/storage"
	"github.com/fjod/decohome/internal/worker"
	"github.com/fjod/decohome/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	// Storage
	store, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Fatal("failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer store.Close()
	log.Info("storage ready", zap.String("backend", cfg.Storage.Backend))

	// AI generator
	var gen generator.Generator = generator.Unconfigured{}
	if cfg.Generator.APIKey != "" {
		gemini, err := generator.NewGemini(ctx, cfg.Generator.APIKey, cfg.Generator.Model)
		if err != nil {
			log.Fatal("failed to create gemini client", zap.Error(err))
		}
		gen = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set, AI generation disabled")
	}
	genService := generator.NewService(gen, cfg.Generator.Timeout, log)

	// Order events
	var pub publisher.Publisher = publisher.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		pub = publisher.NewKafkaPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		log.Info("publishing order events to kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	}
	defer pub.Close()

	clip, err := clipboard.New(cfg.Clipboard)
	if err != nil {
		log.Fatal("failed to set up clipboard", zap.Error(err))
	}

	pool := worker.New(worker.Config{
		Name:       "storefront",
		MaxWorkers: cfg.Generator.Workers,
	}, log)
	defer pool.Stop()

	c := codec.New(log)
	ctrl := session.New(session.Deps{
		Catalog:   catalog.NewStore(store, c, log),
		Generator: genService,
		Clipboard: clip,
		Payments:  checkout.MockPayment{},
		Publisher: pub,
		Pool:      pool,
		Logger:    log,
	})

	source := ctrl.Load(ctx, codec.FromURL(cfg.Link))
	log.Info("catalog loaded", zap.String("source", string(source)))

	handler := h.NewHandler(ctrl, cfg.HTTP.RequestTimeout, log)
	router := h.NewRouter(handler, h.RouterConfig{
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront starting", zap.String("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
