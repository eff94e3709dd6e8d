package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/room-booking-backend/internal/pkg/response"
	"github.com/campuskit/room-booking-backend/internal/pkg/timeutil"
	"github.com/campuskit/room-booking-backend/internal/settings"
)

type Handler struct {
	service settings.Service
}

func NewHandler(service settings.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSettingsResponse(s))
}

func (h *Handler) Put(c *gin.Context) {
	var body PutSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	start, err := timeutil.ParseHHMM(body.DefaultOpenStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := timeutil.ParseHHMM(body.DefaultOpenEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.service.Put(c.Request.Context(), &settings.Settings{
		CampusName:             body.CampusName,
		DefaultOpenStart:       start,
		DefaultOpenEnd:         end,
		ContactURL:             body.ContactURL,
		AutoCancelEnabled:      body.AutoCancelEnabled,
		AutoCancelGraceMinutes: body.AutoCancelGraceMinutes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSettingsResponse(s))
}
