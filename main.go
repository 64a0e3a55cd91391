package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"credit-predictor/config"
	httpLayer "credit-predictor/http"
	"credit-predictor/logger"
	"credit-predictor/repository"
	"credit-predictor/service"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("config validation failed", zap.Error(err))
	}

	var (
		jobRepo repository.JobRepository
		health  httpLayer.HealthProbe
	)
	if cfg.Redis.Addr != "" {
		redisRepo := repository.NewRedisJobRepository(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Jobs.TTL)
		defer redisRepo.Close()
		if err := redisRepo.Probe(context.Background()); err != nil {
			log.Fatal("failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		jobRepo = redisRepo
		health = redisRepo
	} else {
		jobRepo = repository.NewJobRepositoryMemory(cfg.Jobs.TTL)
	}

	aiService := service.NewAIService(cfg.Gemini.Endpoint, cfg.Gemini.APIKey, nil)
	predictionService := service.NewPredictionService(aiService, log.Named("prediction"))
	runner := service.NewPredictionRunner(predictionService, jobRepo, log.Named("runner"))

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	defer rateLimiter.Stop()

	handler := httpLayer.NewRouter(log.Named("http"), httpLayer.RouterDependencies{
		Predictions: httpLayer.NewPredictionHandler(predictionService, runner, cfg.Jobs.MaxWait, log.Named("api")),
		Form:        httpLayer.NewFormHandler(predictionService, runner, log.Named("form")),
		RateLimiter: rateLimiter,
		Health:      health,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("http server failed", zap.Error(err))
		return
	case <-quit:
		log.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("error during server shutdown", zap.Error(err))
	}
	if err := runner.Shutdown(ctx); err != nil {
		log.Warn("prediction jobs still running at shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
