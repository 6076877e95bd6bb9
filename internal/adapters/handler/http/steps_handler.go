package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stepperapp/stepper-insights/internal/adapters/handler/http/middleware"
	"github.com/stepperapp/stepper-insights/internal/core/domain"
	"github.com/stepperapp/stepper-insights/internal/core/services"
)

type StepsHandler struct {
	svc *services.StepService
}

func NewStepsHandler(svc *services.StepService) *StepsHandler {
	return &StepsHandler{
		svc: svc,
	}
}

type logStepsRequest struct {
	Date           string  `json:"date" binding:"required"`
	StepCount      int     `json:"step_count"`
	DistanceMeters float64 `json:"distance_meters"`
}

func (h *StepsHandler) RegisterRoutes(router *gin.RouterGroup) {
	steps := router.Group("/steps")
	{
		steps.POST("", h.LogSteps)
		steps.GET("/history", h.History)
		steps.DELETE("/:date", h.Delete)
	}
}

func (h *StepsHandler) LogSteps(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req logStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := parseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	input := services.LogStepsInput{
		UserID:         userID,
		Date:           date,
		StepCount:      req.StepCount,
		DistanceMeters: req.DistanceMeters,
	}

	record, err := h.svc.LogSteps(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *StepsHandler) History(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -29)

	if t := c.Query("to"); t != "" {
		parsed, err := parseDay(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	}
	if f := c.Query("from"); f != "" {
		parsed, err := parseDay(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}

	records, err := h.svc.History(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *StepsHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date, err := parseDay(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, date); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseDay parses a calendar date from the wire. Anything that is not a
// valid YYYY-MM-DD day is rejected at the boundary instead of being
// defaulted further down.
func parseDay(s string) (time.Time, error) {
	return time.Parse(domain.DayKeyLayout, s)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrRecordConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "data has been modified elsewhere, please refresh",
		})

	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidViewMode),
		errors.Is(err, domain.ErrFutureOffset),
		errors.Is(err, domain.ErrNegativeSteps),
		errors.Is(err, domain.ErrNegativeDistance):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
