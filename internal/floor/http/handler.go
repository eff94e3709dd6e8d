package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuskit/room-booking-backend/internal/floor"
	"github.com/campuskit/room-booking-backend/internal/pkg/response"
)

type Handler struct {
	service floor.Service
}

func NewHandler(service floor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := floor.Filter{
		BuildingID: c.Query("building_id"),
		Page:       page,
		PageSize:   pageSize,
	}

	floors, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list floors"})
		return
	}

	items := make([]FloorResponse, len(floors))
	for i, f := range floors {
		items[i] = NewFloorResponse(f)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	f, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == floor.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "floor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get floor"})
		return
	}

	c.JSON(http.StatusOK, NewFloorResponse(f))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateFloorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	f, err := h.service.Create(c.Request.Context(), floor.CreateRequest{
		BuildingID: body.BuildingID,
		Level:      body.Level,
		Name:       body.Name,
	})
	if err != nil {
		switch err {
		case floor.ErrEmptyName, floor.ErrInvalidBuilding:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create floor"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewFloorResponse(f))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateFloorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	f, err := h.service.Update(c.Request.Context(), id, floor.UpdateRequest{
		Level: body.Level,
		Name:  body.Name,
	})
	if err != nil {
		switch err {
		case floor.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "floor not found"})
		case floor.ErrEmptyName:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update floor"})
		}
		return
	}

	c.JSON(http.StatusOK, NewFloorResponse(f))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		switch err {
		case floor.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "floor not found"})
		case floor.ErrHasRooms:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete floor"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
