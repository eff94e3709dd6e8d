package http

import (
	"time"

	"github.com/campuskit/room-booking-backend/internal/pkg/timeutil"
	"github.com/campuskit/room-booking-backend/internal/settings"
)

type SettingsResponse struct {
	CampusName             string    `json:"campus_name"`
	DefaultOpenStart       string    `json:"default_open_start"`
	DefaultOpenEnd         string    `json:"default_open_end"`
	ContactURL             string    `json:"contact_url"`
	AutoCancelEnabled      bool      `json:"auto_cancel_enabled"`
	AutoCancelGraceMinutes int       `json:"auto_cancel_grace_minutes"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func NewSettingsResponse(s *settings.Settings) SettingsResponse {
	return SettingsResponse{
		CampusName:             s.CampusName,
		DefaultOpenStart:       timeutil.FormatHHMM(s.DefaultOpenStart),
		DefaultOpenEnd:         timeutil.FormatHHMM(s.DefaultOpenEnd),
		ContactURL:             s.ContactURL,
		AutoCancelEnabled:      s.AutoCancelEnabled,
		AutoCancelGraceMinutes: s.AutoCancelGraceMinutes,
		UpdatedAt:              s.UpdatedAt,
	}
}

type PutSettingsRequest struct {
	CampusName             string `json:"campus_name" binding:"required"`
	DefaultOpenStart       string `json:"default_open_start" binding:"required"`
	DefaultOpenEnd         string `json:"default_open_end" binding:"required"`
	ContactURL             string `json:"contact_url"`
	AutoCancelEnabled      bool   `json:"auto_cancel_enabled"`
	AutoCancelGraceMinutes int    `json:"auto_cancel_grace_minutes"`
}
