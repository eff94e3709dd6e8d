package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuskit/room-booking-backend/internal/pkg/response"
	"github.com/campuskit/room-booking-backend/internal/room"
)

type Handler struct {
	service room.Service
}

func NewHandler(service room.Service) *Handler {
	return &Handler{service: service}
}

// boolQuery parses an optional "true"/"false" query param into *bool.
func boolQuery(c *gin.Context, key string) *bool {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	minCapacity, _ := strconv.Atoi(c.DefaultQuery("min_capacity", "0"))

	filter := room.Filter{
		FloorID:     c.Query("floor_id"),
		BuildingID:  c.Query("building_id"),
		MinCapacity: minCapacity,
		Projector:   boolQuery(c, "projector"),
		Monitor:     boolQuery(c, "monitor"),
		Whiteboard:  boolQuery(c, "whiteboard"),
		Computer:    boolQuery(c, "computer"),
		ActiveOnly:  c.DefaultQuery("active_only", "true") == "true",
		Page:        page,
		PageSize:    pageSize,
	}

	rooms, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}

	items := make([]RoomResponse, len(rooms))
	for i, rm := range rooms {
		items[i] = NewRoomResponse(rm)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	rm, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == room.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get room"})
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(rm))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	rm, err := h.service.Create(c.Request.Context(), room.CreateRequest{
		FloorID:   body.FloorID,
		Name:      body.Name,
		Capacity:  body.Capacity,
		Equipment: body.Equipment,
	})
	if err != nil {
		switch err {
		case room.ErrEmptyName, room.ErrBadCapacity, room.ErrInvalidFloor:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewRoomResponse(rm))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rm, err := h.service.Update(c.Request.Context(), id, room.UpdateRequest{
		Name:      body.Name,
		Capacity:  body.Capacity,
		Equipment: body.Equipment,
		IsActive:  body.IsActive,
	})
	if err != nil {
		switch err {
		case room.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		case room.ErrEmptyName, room.ErrBadCapacity:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update room"})
		}
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(rm))
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
		case room.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		case room.ErrHasBookings:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete room"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

const maxPhotoBytes = 10 << 20 // 10 MiB

func (h *Handler) UploadPhoto(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}
	defer f.Close()

	rm, err := h.service.SetPhoto(c.Request.Context(), id, f)
	if err != nil {
		if err == room.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to process photo"})
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(rm))
}

func (h *Handler) GetPhoto(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	rc, err := h.service.GetPhoto(c.Request.Context(), id)
	if err != nil {
		switch err {
		case room.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		case room.ErrNoPhoto:
			c.JSON(http.StatusNotFound, gin.H{"error": "room has no photo"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read photo"})
		}
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
