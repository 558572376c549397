package router

import (
	"github.com/gin-gonic/gin"

	"resumeparse/internal/handler"
	"resumeparse/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	reviewH *handler.ReviewHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
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

	v1 := r.Group("/api/v1")

	reviews := v1.Group("/reviews")
	reviews.POST("", reviewH.Upload)
	reviews.GET("", reviewH.List)
	reviews.GET("/:id", reviewH.Get)
	reviews.POST("/:id/finalize", reviewH.Finalize)
	reviews.POST("/:id/cancel", reviewH.Cancel)
	reviews.GET("/:id/resume", reviewH.GetResume)
	reviews.GET("/:id/export/:format", reviewH.Export)
	reviews.GET("/:id/source", reviewH.SourceURL)

	// Snapshots
	reviews.GET("/:id/snapshots", reviewH.ListSnapshots)
	reviews.POST("/:id/snapshots", reviewH.CreateSnapshot)
	reviews.POST("/:id/snapshots/:snapshotId/revert", reviewH.Revert)

	// Section and field edits
	sections := reviews.Group("/:id/sections/:sectionId")
	sections.POST("/toggle-visibility", reviewH.ToggleSectionVisibility)
	sections.PUT("/fields/:fieldId", reviewH.CorrectField)
	sections.POST("/fields/:fieldId/copy-source", reviewH.CopyFromSource)
	sections.POST("/fields/:fieldId/unknown", reviewH.MarkUnknown)
	sections.POST("/fields/:fieldId/split", reviewH.SplitField)

	return r
}
