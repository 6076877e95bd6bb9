package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stepperapp/stepper-insights/internal/adapters/handler/http/middleware"
	"github.com/stepperapp/stepper-insights/internal/core/services"
)

type ProfileHandler struct {
	streaks *services.StreakService
}

func NewProfileHandler(streaks *services.StreakService) *ProfileHandler {
	return &ProfileHandler{streaks: streaks}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile/activity", h.GetActivitySummary)
}

// GetActivitySummary returns the streaks and activity totals for the
// profile screen, computed fresh from the activity history.
func (h *ProfileHandler) GetActivitySummary(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := h.streaks.ActivitySummary(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
