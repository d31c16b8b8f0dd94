package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modsentry/modsentry/pkg/aggregator"
	"github.com/modsentry/modsentry/pkg/cache"
	"github.com/modsentry/modsentry/pkg/classifier"
	"github.com/modsentry/modsentry/pkg/common"
	"github.com/modsentry/modsentry/pkg/config"
	"github.com/modsentry/modsentry/pkg/engine"
	handlers "github.com/modsentry/modsentry/pkg/handlers/http"
	infraLogger "github.com/modsentry/modsentry/pkg/infra/logger"
	"github.com/modsentry/modsentry/pkg/middleware"
	"github.com/modsentry/modsentry/pkg/policy"
	"github.com/modsentry/modsentry/pkg/server"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger("engine")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	store := buildStore(cfg, logger)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	registry, err := classifier.BuildRegistry(cfg, logger, httpClient)
	if err != nil {
		logger.Fatalf("failed to build classifier registry: %v", err)
	}

	policyEngine := policy.NewEngine(logger, cfg.Policy)

	manager := engine.NewManager(engine.ManagerDeps{
		Registry:          registry,
		Aggregator:        aggregator.New(logger),
		Policy:            policyEngine,
		Store:             store,
		Logger:            logger,
		ClassifierTimeout: time.Duration(cfg.Engine.ClassifierTimeoutMs) * time.Millisecond,
		BatchConcurrency:  cfg.Engine.BatchConcurrency,
		HistorySize:       cfg.Engine.HistorySize,
	})

	middlewareTransport := middleware.Transport{
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
	}

	handlerTransport := handlers.HandlerTransport{
		CreateSessionHandler:  handlers.NewCreateSessionHandler(logger, manager),
		GetSessionHandler:     handlers.NewGetSessionHandler(logger, manager),
		StopSessionHandler:    handlers.NewStopSessionHandler(logger, manager),
		AnalyzeContentHandler: handlers.NewAnalyzeContentHandler(logger, manager),
		BatchAnalyzeHandler:   handlers.NewBatchAnalyzeHandler(logger, manager),
		GetAnalyticsHandler:   handlers.NewGetAnalyticsHandler(logger, manager),
		DemoDataHandler:       handlers.NewDemoDataHandler(logger, registry, policyEngine),
	}

	srv := server.NewEngineServer(server.EngineServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
	}
}

func buildStore(cfg *config.Config, logger *logrus.Logger) cache.Store {
	if cfg.Engine.CacheBackend == "redis" {
		return cache.NewRedisStore(common.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, logger)
	}
	return cache.NewMemoryStore()
}
