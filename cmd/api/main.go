package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ticketfolio/ticketfolio-backend/api/routes"
	"github.com/ticketfolio/ticketfolio-backend/internal/comments"
	"github.com/ticketfolio/ticketfolio-backend/internal/tickets"
	"github.com/ticketfolio/ticketfolio-backend/pkg/config"
	"github.com/ticketfolio/ticketfolio-backend/pkg/logger"
	"github.com/ticketfolio/ticketfolio-backend/pkg/metrics"
	"github.com/ticketfolio/ticketfolio-backend/pkg/redis"
	"github.com/ticketfolio/ticketfolio-backend/pkg/stellar"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stellarClient := stellar.New(cfg.Stellar)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collectionMetrics := metrics.NewCollectionMetrics(registry)

	ticketsService, err := tickets.NewService(tickets.ServiceParams{
		CacheRepo: tickets.NewRepository(redisClient),
		Gateway:   stellarClient,
		Logger:    logg,
		Metrics:   collectionMetrics,
		Mint:      cfg.Mint,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tickets service", err)
		os.Exit(1)
	}

	commentsService, err := comments.NewService(comments.ServiceParams{
		Repo:   comments.NewRepository(redisClient),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create comments service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"horizon": cfg.Stellar.HorizonURL,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			stellarClient,
			stellarClient,
			registry,
			ticketsService,
			commentsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
