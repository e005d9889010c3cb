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

	"github.com/anonto42/yatube/internal/cache"
	"github.com/anonto42/yatube/internal/media"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/render"
	"github.com/anonto42/yatube/internal/router"
	"github.com/anonto42/yatube/pkg/config"
	"github.com/anonto42/yatube/pkg/firebase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	if err := config.Migrate(db.SQL); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := router.Deps{
		Config:   cfg,
		DB:       db.SQL,
		Logger:   logger,
		Sessions: middleware.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies),
	}

	// Page cache: Redis when configured, in-process otherwise
	if db.Redis != nil {
		deps.Cache = cache.NewRedisStore(db.Redis, "yatube:")
	} else {
		deps.Cache = cache.NewMemoryStore()
	}

	// Media storage
	switch cfg.MediaBackend {
	case "gridfs":
		if db.Mongo == nil {
			logger.Fatal("MEDIA_BACKEND=gridfs requires MONGO_URI")
		}
		deps.Media, err = media.NewGridFSStorage(db.Mongo.Database(cfg.MongoDatabase))
	default:
		deps.Media, err = media.NewLocalStorage(cfg.MediaRoot)
	}
	if err != nil {
		logger.Fatal("failed to initialize media storage", zap.Error(err))
	}

	// Initialize Firebase
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, logger)
	if err != nil {
		logger.Fatal("failed to initialize Firebase", zap.Error(err))
	}
	if firebaseApp != nil {
		deps.Firebase = firebaseApp.AuthClient
	}

	deps.Renderer, err = render.New()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	e := router.New(deps)

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
