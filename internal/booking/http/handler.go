package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuskit/room-booking-backend/internal/auth"
	"github.com/campuskit/room-booking-backend/internal/booking"
	"github.com/campuskit/room-booking-backend/internal/pkg/response"
	"github.com/campuskit/room-booking-backend/internal/pkg/timeutil"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func idParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return "", false
	}
	return id, true
}

func (h *Handler) createParams(c *gin.Context) (booking.CreateParams, bool) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return booking.CreateParams{}, false
	}
	return booking.CreateParams{
		RoomID:     body.RoomID,
		UserID:     auth.GetUserID(c),
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
		Reason:     body.Reason,
		StudentID:  body.StudentID,
		CourseName: body.CourseName,
	}, true
}

// CreateRequest opens a pending booking for the authenticated student.
func (h *Handler) CreateRequest(c *gin.Context) {
	p, ok := h.createParams(c)
	if !ok {
		return
	}

	b, err := h.service.CreateRequest(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// CreateConfirmed is the admin fast path that skips the approval queue.
func (h *Handler) CreateConfirmed(c *gin.Context) {
	p, ok := h.createParams(c)
	if !ok {
		return
	}

	b, err := h.service.CreateConfirmed(c.Request.Context(), p, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := booking.Filter{
		UserID:    c.Query("user_id"),
		RoomID:    c.Query("room_id"),
		Status:    c.Query("status"),
		Page:      page,
		PageSize:  pageSize,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if v := c.Query("from"); v != "" {
		t, err := timeutil.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.StartTime = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := timeutil.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		end := t.Add(24 * time.Hour)
		filter.EndTime = &end
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body DecideBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	b, warning, err := h.service.Approve(c.Request.Context(), id, auth.GetUserID(c), body.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, DecisionResponse{Booking: NewBookingResponse(b), Warning: warning})
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body DecideBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	b, warning, err := h.service.Reject(c.Request.Context(), id, auth.GetUserID(c), body.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, DecisionResponse{Booking: NewBookingResponse(b), Warning: warning})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if _, err := h.service.Cancel(c.Request.Context(), id, auth.GetUserID(c), auth.IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateTimes(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body UpdateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.UpdateTimes(c.Request.Context(), id, body.StartTime, body.EndTime, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Availability enumerates the free slots of one room day.
func (h *Handler) Availability(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	date, err := timeutil.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "60"))
	step, _ := strconv.Atoi(c.DefaultQuery("step", "30"))
	openStart, err := timeutil.ParseHHMM(c.DefaultQuery("open_start", "09:00"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	openEnd, err := timeutil.ParseHHMM(c.DefaultQuery("open_end", "17:00"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := h.service.Availability(c.Request.Context(), booking.AvailabilityQuery{
		RoomID:           id,
		Date:             date,
		DurationMinutes:  duration,
		StepMinutes:      step,
		OpenStartMinutes: openStart,
		OpenEndMinutes:   openEnd,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if slots == nil {
		slots = []booking.TimeSlot{}
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
