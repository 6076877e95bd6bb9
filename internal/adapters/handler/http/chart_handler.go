package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stepperapp/stepper-insights/internal/adapters/handler/http/middleware"
	"github.com/stepperapp/stepper-insights/internal/core/domain"
	"github.com/stepperapp/stepper-insights/internal/core/services"
)

// ChartHandler exposes the aggregated chart views: offset navigation over
// the daily/weekly/monthly windows, and the custom range session with its
// date-picker lifecycle.
type ChartHandler struct {
	charts   *services.ChartService
	sessions *services.ChartSessionService
}

func NewChartHandler(charts *services.ChartService, sessions *services.ChartSessionService) *ChartHandler {
	return &ChartHandler{
		charts:   charts,
		sessions: sessions,
	}
}

type confirmRangeRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (h *ChartHandler) RegisterRoutes(router *gin.RouterGroup) {
	charts := router.Group("/charts")
	{
		charts.GET("", h.GetChart)
		charts.GET("/presets", h.Presets)
		charts.GET("/view", h.GetDisplay)

		custom := charts.Group("/custom")
		{
			custom.GET("", h.GetSession)
			custom.POST("/picker/open", h.OpenPicker)
			custom.POST("/picker/close", h.ClosePicker)
			custom.POST("/range", h.ConfirmRange)
			custom.DELETE("/range", h.ClearRange)
			custom.POST("/retry", h.Retry)
		}
	}
}

// GetChart serves one window of the regular pipeline. view selects the
// bucketing mode, offset how many windows back from today (0 or negative).
func (h *ChartHandler) GetChart(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mode := c.DefaultQuery("view", domain.ViewModeDaily)
	offset, err := parseOffset(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset, expected an integer"})
		return
	}

	view, err := h.charts.GetChart(c.Request.Context(), userID, mode, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ChartHandler) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.charts.Presets()})
}

// GetDisplay merges both pipelines into the single view the client
// renders: the custom range when one is active, the regular window
// otherwise.
func (h *ChartHandler) GetDisplay(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mode := c.DefaultQuery("view", domain.ViewModeDaily)
	offset, err := parseOffset(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset, expected an integer"})
		return
	}

	var regular domain.PipelineState
	view, err := h.charts.GetChart(c.Request.Context(), userID, mode, offset)
	switch {
	case err == nil:
		regular = domain.PipelineState{
			Data:  view.Data,
			Stats: view.Stats,
			Label: view.PeriodLabel,
		}
	case errors.Is(err, domain.ErrInvalidViewMode) || errors.Is(err, domain.ErrFutureOffset):
		handleError(c, err)
		return
	default:
		// Fetch failures surface as state, not as a failed response, so
		// the client keeps its current chart and offers a retry.
		regular = domain.PipelineState{Err: "failed to load chart data"}
	}

	c.JSON(http.StatusOK, h.sessions.Display(userID, regular, offset))
}

func (h *ChartHandler) GetSession(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, h.sessions.Session(userID))
}

func (h *ChartHandler) OpenPicker(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, h.sessions.OpenPicker(userID))
}

func (h *ChartHandler) ClosePicker(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, h.sessions.ClosePicker(userID))
}

// ConfirmRange validates the picked boundaries at the edge: both dates
// must be well-formed days and start must not come after end. Nothing
// malformed reaches the session.
func (h *ChartHandler) ConfirmRange(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req confirmRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	start, err := parseDay(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
		return
	}
	end, err := parseDay(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
		return
	}

	rng, err := domain.NewDateRange(start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.sessions.ConfirmRange(c.Request.Context(), userID, rng))
}

func (h *ChartHandler) ClearRange(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, h.sessions.ClearRange(userID))
}

func (h *ChartHandler) Retry(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, h.sessions.Retry(c.Request.Context(), userID))
}

func parseOffset(s string) (int, error) {
	return strconv.Atoi(s)
}
