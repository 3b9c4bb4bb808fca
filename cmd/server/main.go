//	@title			File Service API
//	@version		1.0
//	@description	Accepts multipart file uploads and stores them in an S3 bucket.
//	@BasePath		/

package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fileservice/internal/config"
	"fileservice/internal/handler"
	"fileservice/internal/logger"
	"fileservice/internal/router"
	"fileservice/internal/service"
	"fileservice/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env is fine; the environment is read either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLog := logger.New(&cfg.Log)
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize storage
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	appLog.WithFields(logrus.Fields{
		"provider": cfg.Storage.Provider,
		"bucket":   cfg.Storage.Bucket,
		"region":   cfg.Storage.Region,
	}).Info("loaded bucket name from configuration")

	// Initialize services
	uploadSvc := service.NewUploadService(store, &cfg.Storage, appLog)

	// Initialize handlers
	fileH := handler.NewFileHandler(uploadSvc, appLog)
	healthH := handler.NewHealthHandler(store, cfg.Storage.Bucket)

	// Setup router
	r := router.Setup(cfg, appLog, fileH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	appLog.WithField("addr", cfg.Server.Port).Info("server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
