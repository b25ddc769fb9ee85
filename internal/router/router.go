package router

import (
	"github.com/gin-gonic/gin"

	"docsense/internal/handler"
	"docsense/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	analysisH *handler.AnalysisHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Document intake
	documents := v1.Group("/documents")
	documents.POST("", analysisH.Upload)
	documents.POST("/:id/analyze", analysisH.Analyze)

	// Analysis results
	analyses := v1.Group("/analyses")
	analyses.GET("", analysisH.List)
	analyses.GET("/export", analysisH.ExportAll)
	analyses.GET("/:id", analysisH.Get)
	analyses.GET("/:id/export", analysisH.Export)
	analyses.GET("/:id/report", analysisH.Report)
	analyses.DELETE("/:id", analysisH.Delete)

	return r
}
