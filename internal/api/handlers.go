package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rahul-omni/legal-ai-sub001/internal/casestore"
	"github.com/rahul-omni/legal-ai-sub001/internal/config"
	"github.com/rahul-omni/legal-ai-sub001/internal/database"
	"github.com/rahul-omni/legal-ai-sub001/internal/identifier"
	"github.com/rahul-omni/legal-ai-sub001/internal/origin"
	"github.com/rahul-omni/legal-ai-sub001/internal/resolve"
	"github.com/rahul-omni/legal-ai-sub001/internal/subscription"
	"github.com/rahul-omni/legal-ai-sub001/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	orchestrator *resolve.Orchestrator
	tracker      *subscription.Tracker
	store        *casestore.Store
	logger       *logger.Logger
	cfg          *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	orchestrator *resolve.Orchestrator,
	tracker *subscription.Tracker,
	store *casestore.Store,
	log *logger.Logger,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
		tracker:      tracker,
		store:        store,
		logger:       log,
		cfg:          cfg,
	}
}

// SearchCases resolves a case query for the given court type. Query
// parameters arrive raw and are normalized inside the orchestrator.
func (h *Handlers) SearchCases(court string) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := identifier.Params{
			DiaryNumber:  c.Query("diaryNumber"),
			Year:         c.Query("year"),
			CaseType:     c.Query("caseType"),
			Court:        c.DefaultQuery("court", court),
			City:         c.Query("city"),
			District:     c.Query("district"),
			Bench:        c.Query("bench"),
			CourtComplex: c.Query("courtComplex"),
		}

		result, err := h.orchestrator.Resolve(c.Request.Context(), court, params)
		if err != nil {
			h.respondResolveError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Cases found",
			"data":    result.Cases,
			"source":  result.Source,
		})
	}
}

// BulkSearch resolves several queries concurrently
func (h *Handlers) BulkSearch(c *gin.Context) {
	var req struct {
		Queries []resolve.BulkQuery `json:"queries" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}
	if len(req.Queries) > h.cfg.MaxBulkQueries {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Too many queries in one request",
		})
		return
	}

	results := h.orchestrator.ResolveBulk(c.Request.Context(), req.Queries, h.cfg.MaxBulkQueries)

	responseData := make([]gin.H, 0, len(results))
	for _, r := range results {
		entry := gin.H{"query": r.Query}
		if r.Err != nil {
			entry["success"] = false
			entry["message"] = publicMessage(r.Err)
		} else {
			entry["success"] = true
			entry["data"] = r.Result.Cases
			entry["source"] = r.Result.Source
		}
		responseData = append(responseData, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": responseData,
	})
}

// TrackCase records a user-submitted case request
func (h *Handlers) TrackCase(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req struct {
		DiaryNumber string `json:"diaryNumber" binding:"required"`
		CaseType    string `json:"caseType"`
		Court       string `json:"court"`
		City        string `json:"city"`
		District    string `json:"district"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	uc := &database.UserCase{
		UserID:      userID,
		DiaryNumber: req.DiaryNumber,
		CaseType:    req.CaseType,
		Court:       req.Court,
		City:        req.City,
		District:    req.District,
		Status:      database.UserCaseStatusPending,
	}

	if err := h.tracker.TrackCase(c.Request.Context(), uc); err != nil {
		if errors.Is(err, subscription.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "Case already tracked",
			})
			return
		}
		h.internalError(c, "track case", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Case tracked",
		"data":    uc,
	})
}

// Subscribe links the user to a case record, either by its id or by the
// (diary number, court) key. Key-based subscribes create a placeholder
// record when none exists yet.
func (h *Handlers) Subscribe(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req struct {
		CaseID      uint   `json:"caseId"`
		DiaryNumber string `json:"diaryNumber"`
		Year        string `json:"year"`
		Court       string `json:"court"`
		CaseType    string `json:"caseType"`
		City        string `json:"city"`
		District    string `json:"district"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	var (
		sub     *database.SubscribedCases
		created bool
		err     error
	)

	switch {
	case req.CaseID != 0:
		sub, created, err = h.tracker.Subscribe(c.Request.Context(), userID, req.CaseID)
	case req.DiaryNumber != "" && req.Year != "":
		q, nerr := identifier.Normalize(identifier.Params{
			DiaryNumber: req.DiaryNumber,
			Year:        req.Year,
		})
		if nerr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": publicMessage(nerr)})
			return
		}
		sub, created, err = h.tracker.SubscribeToCaseKey(c.Request.Context(), userID, database.CaseRecord{
			DiaryNumber: q.FullDiaryNumber,
			Court:       req.Court,
			CaseType:    req.CaseType,
			City:        req.City,
			District:    req.District,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Either caseId or diaryNumber and year are required",
		})
		return
	}

	if err != nil {
		if errors.Is(err, subscription.ErrCaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Case record not found",
			})
			return
		}
		h.internalError(c, "subscribe", err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Already subscribed",
			"data":    sub,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Subscription created",
		"data":    sub,
	})
}

// Unsubscribe soft-deletes a subscription the user owns
func (h *Handlers) Unsubscribe(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid subscription id",
		})
		return
	}

	if err := h.tracker.Unsubscribe(c.Request.Context(), userID, uint(id)); err != nil {
		switch {
		case errors.Is(err, subscription.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Subscription not accessible",
			})
		case errors.Is(err, subscription.ErrAlreadyDeleted):
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "Subscription already deleted",
			})
		default:
			h.internalError(c, "unsubscribe", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Subscription deleted",
	})
}

// ListSubscriptions returns the user's active subscriptions
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	subs, err := h.tracker.ListActive(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "list subscriptions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subs,
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	var count int64
	dbHealthy := h.store.DB().Model(&database.CaseRecord{}).Count(&count).Error == nil

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealthy,
		"cache":    h.store.Stats(),
		"time":     time.Now().Unix(),
	})
}

// CacheStats returns memo cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.store.Stats(),
	})
}

func (h *Handlers) requireUser(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing X-User-ID header",
		})
		return "", false
	}
	return userID, true
}

func (h *Handlers) respondResolveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identifier.ErrValidation), errors.Is(err, resolve.ErrUnknownCourt):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": publicMessage(err),
		})
	case errors.Is(err, resolve.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "No cases found",
			"data":    []database.CaseRecord{},
		})
	case origin.IsUnavailable(err):
		h.logger.Error("Origin unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": "Court data service is temporarily unavailable",
		})
	default:
		h.internalError(c, "resolve", err)
	}
}

// internalError logs the real error and returns a generic response; store
// and origin internals never reach the client
func (h *Handlers) internalError(c *gin.Context, op string, err error) {
	h.logger.Error("Internal error", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Internal server error",
	})
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, identifier.ErrValidation):
		return err.Error()
	case errors.Is(err, resolve.ErrUnknownCourt):
		return err.Error()
	case errors.Is(err, resolve.ErrNotFound):
		return "No cases found"
	case origin.IsUnavailable(err):
		return "Court data service is temporarily unavailable"
	default:
		return "Internal server error"
	}
}
