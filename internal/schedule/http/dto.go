package http

import (
	"github.com/campuskit/room-booking-backend/internal/pkg/timeutil"
	"github.com/campuskit/room-booking-backend/internal/schedule"
)

type OpenHourWindow struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type SetOpenHoursRequest struct {
	Weekday int              `json:"weekday" binding:"required,min=1,max=6"`
	Windows []OpenHourWindow `json:"windows"`
	Closed  bool             `json:"closed"` // shorthand for the closed-all-day sentinel
}

type OpenHourResponse struct {
	Weekday int    `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func NewOpenHourResponse(oh schedule.OpenHour) OpenHourResponse {
	return OpenHourResponse{
		Weekday: oh.Weekday,
		Start:   timeutil.FormatHHMM(oh.StartMinutes),
		End:     timeutil.FormatHHMM(oh.EndMinutes),
	}
}

type UpsertNoteRequest struct {
	Weekday   int    `json:"weekday" binding:"required,min=1,max=6"`
	Start     string `json:"start" binding:"required"`
	End       string `json:"end" binding:"required"`
	Professor string `json:"professor"`
	Course    string `json:"course"`
	Reason    string `json:"reason"`
}

type NoteResponse struct {
	Weekday   int    `json:"weekday"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Professor string `json:"professor,omitempty"`
	Course    string `json:"course,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func NewNoteResponse(n schedule.SlotNote) NoteResponse {
	return NoteResponse{
		Weekday:   n.Weekday,
		Start:     timeutil.FormatHHMM(n.StartMinutes),
		End:       timeutil.FormatHHMM(n.EndMinutes),
		Professor: n.Professor,
		Course:    n.Course,
		Reason:    n.Reason,
	}
}

type SlotStatusResponse struct {
	Available bool          `json:"available"`
	Note      *NoteResponse `json:"note,omitempty"`
}

func NewGridResponse(grid map[string]schedule.SlotStatus) map[string]SlotStatusResponse {
	out := make(map[string]SlotStatusResponse, len(grid))
	for key, st := range grid {
		resp := SlotStatusResponse{Available: st.Available}
		if st.Note != nil {
			n := NewNoteResponse(*st.Note)
			resp.Note = &n
		}
		out[key] = resp
	}
	return out
}
