package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuskit/room-booking-backend/internal/pkg/timeutil"
	"github.com/campuskit/room-booking-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

func roomIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return "", false
	}
	return id, true
}

func (h *Handler) ListOpenHours(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	weekday, _ := strconv.Atoi(c.DefaultQuery("weekday", "0"))

	hours, err := h.service.ListOpenHours(c.Request.Context(), roomID, weekday)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list open hours"})
		return
	}

	items := make([]OpenHourResponse, len(hours))
	for i, oh := range hours {
		items[i] = NewOpenHourResponse(oh)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) SetOpenHours(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var body SetOpenHoursRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	var windows []schedule.OpenHour
	if body.Closed {
		windows = []schedule.OpenHour{{
			StartMinutes: schedule.ClosedSentinelStart,
			EndMinutes:   schedule.ClosedSentinelEnd,
		}}
	} else {
		for _, w := range body.Windows {
			start, err := timeutil.ParseHHMM(w.Start)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			end, err := timeutil.ParseHHMM(w.End)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			windows = append(windows, schedule.OpenHour{StartMinutes: start, EndMinutes: end})
		}
	}

	err := h.service.SetOpenHours(c.Request.Context(), roomID, body.Weekday, windows)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidWeekday), errors.Is(err, schedule.ErrInvalidWindow):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set open hours"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListNotes(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	weekday, _ := strconv.Atoi(c.DefaultQuery("weekday", "0"))

	notes, err := h.service.ListNotes(c.Request.Context(), roomID, weekday)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notes"})
		return
	}

	items := make([]NoteResponse, len(notes))
	for i, n := range notes {
		items[i] = NewNoteResponse(n)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) UpsertNote(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var body UpsertNoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	start, err := timeutil.ParseHHMM(body.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := timeutil.ParseHHMM(body.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note := schedule.SlotNote{
		RoomID:       roomID,
		Weekday:      body.Weekday,
		StartMinutes: start,
		EndMinutes:   end,
		Professor:    body.Professor,
		Course:       body.Course,
		Reason:       body.Reason,
	}

	if err := h.service.UpsertNote(c.Request.Context(), note); err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidWeekday), errors.Is(err, schedule.ErrInvalidWindow):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save note"})
		}
		return
	}

	c.JSON(http.StatusOK, NewNoteResponse(note))
}

func (h *Handler) RemoveNote(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	weekday, _ := strconv.Atoi(c.Query("weekday"))
	start, err := timeutil.ParseHHMM(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := timeutil.ParseHHMM(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := schedule.NoteKey{RoomID: roomID, Weekday: weekday, StartMinutes: start, EndMinutes: end}
	if err := h.service.RemoveNote(c.Request.Context(), key); err != nil {
		if errors.Is(err, schedule.ErrInvalidWeekday) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove note"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Grid(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	date, err := timeutil.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grid, err := h.service.Grid(c.Request.Context(), roomID, date)
	if err != nil {
		if errors.Is(err, timeutil.ErrSunday) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute grid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "slots": NewGridResponse(grid)})
}
