package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"membership-backend/config"
	"membership-backend/database"
	"membership-backend/handlers"
	"membership-backend/logger"
	"membership-backend/repository"
	"membership-backend/service"
	"membership-backend/storage"
	"membership-backend/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	log.Info("configuration loaded",
		zap.String("environment", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", string(cfg.Storage.Type)),
	)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	log.Info("connected to database", zap.Int32("max_conns", db.Config().MaxConns))

	imageStorage, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	profileRepo := repository.NewProfileRepository(db, log)

	profileService := service.NewProfileService(
		service.WithProfileRepository(profileRepo),
		service.WithStorage(imageStorage),
	)

	profileHandler := handlers.NewProfileHandler(profileService, validation.New(), cfg.Server.RequestTimeout, cfg.Upload.MaxImageSize)
	healthHandler := handlers.NewHealthHandler(profileRepo, 2*time.Second)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handlers.NewRouter(profileHandler, healthHandler, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
