package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/room-booking-backend/internal/pkg/response"
	"github.com/campuskit/room-booking-backend/internal/pkg/timeutil"
	"github.com/campuskit/room-booking-backend/internal/stats"
)

type Handler struct {
	service stats.Service
}

func NewHandler(service stats.Service) *Handler {
	return &Handler{service: service}
}

// Summary reports booking usage for the [from, to) date window.
// Defaults to the last 30 days.
func (h *Handler) Summary(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := c.Query("from"); v != "" {
		t, err := timeutil.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := timeutil.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		to = t.Add(24 * time.Hour)
	}

	summary, err := h.service.Summary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
