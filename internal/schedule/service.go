package schedule

import (
	"context"
	"time"

	"github.com/campuskit/room-booking-backend/internal/pkg/timeutil"
)

// BookingSource supplies the start times of live (pending or confirmed)
// bookings for a room within a day. Implemented by the booking repository;
// declared here so the schedule module does not depend on the booking one.
type BookingSource interface {
	LiveStartTimes(ctx context.Context, roomID string, dayStart, dayEnd time.Time) ([]time.Time, error)
}

type Service interface {
	ListOpenHours(ctx context.Context, roomID string, weekday int) ([]OpenHour, error)
	SetOpenHours(ctx context.Context, roomID string, weekday int, windows []OpenHour) error

	ListNotes(ctx context.Context, roomID string, weekday int) ([]SlotNote, error)
	UpsertNote(ctx context.Context, note SlotNote) error
	RemoveNote(ctx context.Context, key NoteKey) error

	// Grid computes the student-facing slot statuses for a room on a date.
	Grid(ctx context.Context, roomID string, date time.Time) (map[string]SlotStatus, error)
}

type service struct {
	repo     Repository
	bookings BookingSource
}

func NewService(repo Repository, bookings BookingSource) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
	}
}

func validWeekday(weekday int) bool {
	return weekday >= 1 && weekday <= 6
}

func (s *service) ListOpenHours(ctx context.Context, roomID string, weekday int) ([]OpenHour, error) {
	return s.repo.ListOpenHours(ctx, roomID, weekday)
}

func (s *service) SetOpenHours(ctx context.Context, roomID string, weekday int, windows []OpenHour) error {
	if !validWeekday(weekday) {
		return ErrInvalidWeekday
	}
	for i := range windows {
		w := &windows[i]
		w.RoomID = roomID
		w.Weekday = weekday
		if w.EndMinutes <= w.StartMinutes {
			return ErrInvalidWindow
		}
	}
	return s.repo.ReplaceOpenHours(ctx, roomID, weekday, windows)
}

func (s *service) ListNotes(ctx context.Context, roomID string, weekday int) ([]SlotNote, error) {
	return s.repo.ListNotes(ctx, roomID, weekday)
}

func (s *service) UpsertNote(ctx context.Context, note SlotNote) error {
	if !validWeekday(note.Weekday) {
		return ErrInvalidWeekday
	}
	if note.EndMinutes <= note.StartMinutes {
		return ErrInvalidWindow
	}
	return s.repo.UpsertNote(ctx, note)
}

func (s *service) RemoveNote(ctx context.Context, key NoteKey) error {
	if !validWeekday(key.Weekday) {
		return ErrInvalidWeekday
	}
	return s.repo.DeleteNote(ctx, key)
}

func (s *service) Grid(ctx context.Context, roomID string, date time.Time) (map[string]SlotStatus, error) {
	weekday, err := timeutil.CampusWeekday(date)
	if err != nil {
		return nil, err
	}

	openHours, err := s.repo.ListOpenHours(ctx, roomID, weekday)
	if err != nil {
		return nil, err
	}

	notes, err := s.repo.ListNotes(ctx, roomID, weekday)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	starts, err := s.bookings.LiveStartTimes(ctx, roomID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	startMinutes := make([]int, len(starts))
	for i, t := range starts {
		startMinutes[i] = timeutil.MinutesOfDay(t)
	}

	return ComputeGrid(openHours, notes, startMinutes), nil
}
