package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-omni/legal-ai-sub001/internal/casestore"
	"github.com/rahul-omni/legal-ai-sub001/internal/config"
	"github.com/rahul-omni/legal-ai-sub001/internal/database"
	"github.com/rahul-omni/legal-ai-sub001/internal/resolve"
	"github.com/rahul-omni/legal-ai-sub001/internal/subscription"
	"github.com/rahul-omni/legal-ai-sub001/pkg/logger"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	router *gin.Engine,
	orchestrator *resolve.Orchestrator,
	tracker *subscription.Tracker,
	store *casestore.Store,
	log *logger.Logger,
	cfg *config.Config,
) {
	h := NewHandlers(orchestrator, tracker, store, log, cfg)

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/cache/stats", h.CacheStats)
	}

	v1 := router.Group("/api/v1")
	{
		cases := v1.Group("/cases")
		{
			cases.GET("/supreme-court", h.SearchCases(database.CourtSupreme))
			cases.GET("/high-court", h.SearchCases(database.CourtHigh))
			cases.GET("/district-court", h.SearchCases(database.CourtDistrict))
			cases.GET("/nclt", h.SearchCases(database.CourtNCLT))
			cases.POST("/bulk", h.BulkSearch)
		}

		v1.POST("/user-cases", h.TrackCase)

		subs := v1.Group("/subscriptions")
		{
			subs.GET("", h.ListSubscriptions)
			subs.POST("", h.Subscribe)
			subs.DELETE("/:id", h.Unsubscribe)
		}
	}
}
