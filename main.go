package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitrine/internal/config"
	"vitrine/internal/database"
	"vitrine/pkg/cache"
	"vitrine/pkg/storage"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, keeping info")
	}

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	// --- Response cache ---
	ctx := context.Background()
	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer client.Close()
		store = cache.NewRedisStore(client)
		log.Info("Using Redis response cache")
	}

	deps := Dependencies{
		Config: cfg,
		DB:     db,
		Cache:  store,
		Files:  storage.NewLocalStorage(cfg.UploadDir),
		Logger: log,
	}
	svc := newServices(deps)

	if cfg.Admin.Email != "" {
		admin, err := svc.TeamMembers.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.LastName, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.WithError(err).Fatal("Failed to seed admin account")
		}
		log.WithField("email", admin.Email).Info("Admin account ready")
	}

	app := newApp(deps, svc)

	// --- Start HTTP Server ---
	log.WithField("port", cfg.AppPort).Info("Starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server gracefully stopped")
}
