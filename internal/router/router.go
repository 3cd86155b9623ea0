package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cargoscan/internal/handler"
	"cargoscan/internal/middleware"
	"cargoscan/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	captureH *handler.CaptureHandler,
	docH *handler.DocumentHandler,
	exportH *handler.ExportHandler,
	jobH *handler.JobHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Capture pipeline
	capture := protected.Group("/capture")
	capture.POST("/image", captureH.Capture)
	capture.POST("/process", captureH.Process)
	capture.GET("/state", captureH.State)
	capture.POST("/reset", captureH.Reset)

	// Stored documents
	docs := protected.Group("/documents")
	docs.GET("", docH.List)
	docs.GET("/:id", docH.GetByID)
	docs.DELETE("/:id", docH.Delete)
	docs.PUT("/:id/tags", docH.UpdateTags)
	docs.PUT("/:id/star", docH.SetStarred)

	// Exports
	docs.GET("/:id/export/xlsx", exportH.DownloadExcel)
	docs.GET("/:id/export/json", exportH.DownloadJSON)
	docs.GET("/:id/export/qr", exportH.DownloadQR)
	docs.POST("/:id/export", exportH.Publish)

	// Background scan jobs
	jobs := protected.Group("/jobs")
	jobs.POST("", jobH.Create)
	jobs.GET("", jobH.List)
	jobs.GET("/:id", jobH.GetByID)
	jobs.POST("/:id/cancel", jobH.Cancel)

	return r
}
