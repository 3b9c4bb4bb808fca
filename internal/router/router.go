package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fileservice/docs"
	"fileservice/internal/config"
	"fileservice/internal/handler"
	"fileservice/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log logrus.FieldLogger,
	fileH *handler.FileHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	bodyLimit := middleware.BodyLimit(cfg.Storage.MaxRequestBytes())
	r.POST("/files/upload", bodyLimit, fileH.Upload)

	// Path previously exposed by the gateway in front of the upload service.
	r.POST("/api/files/upload", bodyLimit, fileH.Upload)

	return r
}
