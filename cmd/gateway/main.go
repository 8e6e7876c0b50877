package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sgheritage/video-gateway/internal/config"
	"github.com/sgheritage/video-gateway/internal/gateway/handler"
	"github.com/sgheritage/video-gateway/internal/gateway/orchestrator"
	"github.com/sgheritage/video-gateway/internal/gateway/pool"
	"github.com/sgheritage/video-gateway/internal/gateway/router"
	"github.com/sgheritage/video-gateway/internal/gateway/store"
	"github.com/sgheritage/video-gateway/internal/textgen"
	"github.com/sgheritage/video-gateway/internal/videogen"
	"github.com/sgheritage/video-gateway/shared/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("GATEWAY_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/gateway/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting gateway",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
		slog.Bool("demo_mode", cfg.VideoGen.DemoMode),
	)

	// The pool context outlives the HTTP server: in-flight jobs finish their
	// stages during the shutdown grace period.
	poolCtx, poolCancel := context.WithCancel(context.Background())
	defer poolCancel()

	workerPool := pool.New(cfg.Worker.PoolSize, appLogger.Logger)
	workerPool.Start(poolCtx)

	jobStore := store.New()

	captionGen := textgen.New(textgen.Config{
		BaseURL: cfg.TextGen.BaseURL,
		APIKey:  cfg.TextGen.APIKey,
		AppID:   cfg.TextGen.CaptionAppID,
	}, appLogger.Logger)
	contextGen := textgen.New(textgen.Config{
		BaseURL: cfg.TextGen.BaseURL,
		APIKey:  cfg.TextGen.APIKey,
		AppID:   cfg.TextGen.ContextAppID,
	}, appLogger.Logger)
	videoGen := videogen.New(videogen.Config{
		Endpoint:  cfg.VideoGen.Endpoint,
		Token:     cfg.VideoGen.Token,
		DemoMode:  cfg.VideoGen.DemoMode,
		DemoDelay: cfg.VideoGen.DemoDelay,
	}, appLogger.Logger)

	orch := orchestrator.New(&orchestrator.Config{
		Logger:     appLogger.Logger,
		Store:      jobStore,
		Pool:       workerPool,
		CaptionGen: captionGen,
		ContextGen: contextGen,
		VideoGen:   videoGen,
	})

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.Setup(&handler.Dependencies{
		Logger:             appLogger.Logger,
		Store:              jobStore,
		Orchestrator:       orch,
		VideoGen:           videoGen,
		StreamPollInterval: cfg.Stream.PollInterval,
		StreamMaxDuration:  cfg.Stream.MaxDuration,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	appLogger.Info("Gateway is running", slog.String("address", addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}

	// Let running workflows drain before the pool stops. Jobs that cannot
	// finish in time are lost with the rest of the in-memory state.
	done := make(chan struct{})
	go func() {
		orch.Wait()
		close(done)
	}()
	select {
	case <-done:
		appLogger.Info("All workflows drained")
	case <-time.After(cfg.Server.ShutdownTimeout):
		appLogger.Warn("Shutdown timeout exceeded with workflows still running")
	}

	poolCancel()
	workerPool.Wait()

	appLogger.Info("Gateway shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	})
}
