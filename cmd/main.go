package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/symptalk/voicerelay/adapters/stt"
	"github.com/symptalk/voicerelay/adapters/workflow"
	"github.com/symptalk/voicerelay/domain/repositories"
	"github.com/symptalk/voicerelay/internal/api"
	"github.com/symptalk/voicerelay/internal/config"
	"github.com/symptalk/voicerelay/internal/store"
	"github.com/symptalk/voicerelay/internal/websocket"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load .env in development; a missing file is fine
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	cfg := config.FromEnv()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize adapters
	speechToText := newSpeechToText(cfg, logger)
	notifier := workflow.NewN8NNotifier(workflow.NewN8NConfigFromEnv(), logger)

	// Initialize the relay core
	registry := websocket.NewRegistry()
	relay := websocket.NewRelay(registry, speechToText, notifier, cfg.Language, logger)
	messages := store.NewMessageStore()

	// Initialize API routes
	api.InitRoutes(e, relay, notifier, messages, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(cfg.Address()); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("address", cfg.Address()),
		zap.String("env", cfg.Env),
		zap.String("sttProvider", cfg.STTProvider))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newSpeechToText picks the transcription provider from configuration
func newSpeechToText(cfg config.Config, logger *zap.Logger) repositories.SpeechToText {
	switch cfg.STTProvider {
	case "google":
		return &stt.GoogleSpeechToText{}
	case "mock":
		return stt.NewMockSpeechToText(logger)
	default:
		speechToText, err := stt.NewFalSpeechToText(stt.NewFalConfigFromEnv(), logger)
		if err != nil {
			logger.Warn("Falling back to mock transcription", zap.Error(err))
			return stt.NewMockSpeechToText(logger)
		}
		return speechToText
	}
}
