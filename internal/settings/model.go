package settings

import (
	"net/http"
	"time"

	"github.com/campuskit/room-booking-backend/internal/pkg/apperror"
)

var ErrInvalidWindow = apperror.New(http.StatusBadRequest, "default open end must be after start")

// Settings is the campus-wide configuration row. There is exactly one;
// writes replace it as a unit.
type Settings struct {
	CampusName             string
	DefaultOpenStart       int // minutes from midnight
	DefaultOpenEnd         int
	ContactURL             string
	AutoCancelEnabled      bool
	AutoCancelGraceMinutes int
	UpdatedAt              time.Time
}

// Defaults returned when no row has been written yet.
func Defaults() *Settings {
	return &Settings{
		CampusName:             "Campus",
		DefaultOpenStart:       9 * 60,
		DefaultOpenEnd:         17 * 60,
		AutoCancelEnabled:      false,
		AutoCancelGraceMinutes: 15,
	}
}
