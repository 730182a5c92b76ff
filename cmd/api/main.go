package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/jwebster45206/backchannel/internal/config"
	"github.com/jwebster45206/backchannel/internal/engine"
	"github.com/jwebster45206/backchannel/internal/handlers"
	"github.com/jwebster45206/backchannel/internal/logger"
	"github.com/jwebster45206/backchannel/internal/middleware"
	"github.com/jwebster45206/backchannel/internal/services"
	"github.com/jwebster45206/backchannel/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Backchannel API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"store", cfg.StoreBackend,
		"gemini_model", cfg.GeminiModel)

	ctx := context.Background()

	var st store.Store
	var memStore *store.MemoryStore
	switch cfg.StoreBackend {
	case config.StoreBackendRedis:
		redisStore, err := store.NewRedisStore(cfg.RedisURL, cfg.SessionTTL, log)
		if err != nil {
			log.Error("Failed to configure redis store", "error", err)
			os.Exit(1)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := redisStore.Ping(pingCtx); err != nil {
			cancel()
			log.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		cancel()
		st = redisStore
		log.Info("Redis store connected")
	default:
		memStore = store.NewMemoryStore(cfg.SessionTTL, cfg.SweepInterval, log)
		st = memStore
	}

	// Providers are optional. Missing keys degrade to canned replies and a
	// faceless session rather than a startup failure.
	var llmService services.LLMService
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		llmService = gemini
		log.Info("Gemini reply generation enabled", "model", cfg.GeminiModel)
	} else {
		log.Warn("GEMINI_API_KEY not set, replies come from the fallback table")
	}

	var avatarService services.AvatarService
	var presenter *services.Presenter
	if cfg.HeyGenAPIKey != "" {
		avatarService = services.NewHeyGenService(cfg.HeyGenAPIKey, cfg.HeyGenAvatarID, cfg.HeyGenVoiceID, log)
		presenter = services.NewPresenter(avatarService, cfg.AvatarTimeout, log)
		presenter.Start()
		log.Info("HeyGen avatar enabled", "avatar_id", cfg.HeyGenAvatarID)
	} else {
		log.Warn("HEYGEN_API_KEY not set, sessions run without an avatar")
	}

	eng := engine.New(st, log, engine.Options{
		LLM:          llmService,
		Avatar:       avatarService,
		Presenter:    presenter,
		HistoryLimit: cfg.HistoryLimit,
		LLMTimeout:   cfg.LLMTimeout,
	})

	if memStore != nil {
		memStore.OnExpire(eng.HandleExpiry)
		memStore.Start()
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(st, llmService, avatarService, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(eng, log)
	mux.Handle("/api/session/", sessionHandler)

	configHandler := handlers.NewConfigHandler(cfg, log)
	mux.Handle("/api/config", configHandler)

	handler := middleware.Logger(log, mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if memStore != nil {
		memStore.Stop()
	}
	if presenter != nil {
		presenter.Stop()
	}
	if err := st.Close(); err != nil {
		log.Error("Error closing store", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
