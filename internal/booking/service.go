package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/campuskit/room-booking-backend/internal/notify"
	"github.com/campuskit/room-booking-backend/internal/pkg/timeutil"
	"github.com/campuskit/room-booking-backend/internal/room"
	"github.com/campuskit/room-booking-backend/internal/schedule"
)

type CreateParams struct {
	RoomID     string
	UserID     string
	StartTime  time.Time
	EndTime    time.Time
	Reason     string
	StudentID  *string
	CourseName *string
}

type AvailabilityQuery struct {
	RoomID           string
	Date             time.Time
	DurationMinutes  int
	StepMinutes      int
	OpenStartMinutes int
	OpenEndMinutes   int
}

// Policy holds the booking window limits and the clock. Tests inject a
// fixed Now.
type Policy struct {
	MaxBookingMinutes int
	MaxAdvanceDays    int
	Now               func() time.Time
}

type Service interface {
	// CreateRequest opens a booking in pending state after checking the
	// interval against confirmed bookings only.
	CreateRequest(ctx context.Context, p CreateParams) (*Booking, error)
	// CreateConfirmed is the admin fast path: same checks, but the booking
	// is born confirmed and skips the approval queue.
	CreateConfirmed(ctx context.Context, p CreateParams, adminID string) (*Booking, error)

	GetByID(ctx context.Context, id, callerID string, isAdmin bool) (*Booking, error)
	List(ctx context.Context, filter Filter, callerID string, isAdmin bool) ([]*Booking, int, error)

	// Approve and Reject return a warning string when the booking state
	// changed but the recurring slot note could not be updated.
	Approve(ctx context.Context, id, adminID, note string) (*Booking, string, error)
	Reject(ctx context.Context, id, adminID, note string) (*Booking, string, error)

	Cancel(ctx context.Context, id, callerID string, isAdmin bool) (*Booking, error)
	UpdateTimes(ctx context.Context, id string, start, end time.Time, callerID string, isAdmin bool) (*Booking, error)

	Availability(ctx context.Context, q AvailabilityQuery) ([]TimeSlot, error)
}

type service struct {
	repo     Repository
	rooms    room.Service
	sched    schedule.Service
	notifier notify.Broadcaster
	policy   Policy
}

func NewService(repo Repository, rooms room.Service, sched schedule.Service, notifier notify.Broadcaster, policy Policy) Service {
	if policy.Now == nil {
		policy.Now = time.Now
	}
	return &service{
		repo:     repo,
		rooms:    rooms,
		sched:    sched,
		notifier: notifier,
		policy:   policy,
	}
}

func (s *service) validateWindow(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	if end.Sub(start) > time.Duration(s.policy.MaxBookingMinutes)*time.Minute {
		return ErrTooLong
	}
	now := s.policy.Now()
	if start.Before(now) {
		return ErrStartTimePast
	}
	if start.After(now.AddDate(0, 0, s.policy.MaxAdvanceDays)) {
		return ErrTooFarAhead
	}
	if _, err := timeutil.CampusWeekday(start); err != nil {
		return ErrSundayClosed
	}
	return nil
}

func (s *service) create(ctx context.Context, p CreateParams, status Status, decidedBy *string) (*Booking, error) {
	if err := s.validateWindow(p.StartTime, p.EndTime); err != nil {
		return nil, err
	}

	rm, err := s.rooms.GetByID(ctx, p.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsActive {
		return nil, ErrRoomInactive
	}

	b := &Booking{
		RoomID:      p.RoomID,
		UserID:      p.UserID,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Status:      status,
		Reason:      p.Reason,
		StudentID:   p.StudentID,
		CourseName:  p.CourseName,
		DecidedByID: decidedBy,
	}
	// Creation only yields to confirmed bookings. Competing pending
	// requests may coexist; approval settles them. The repository checks
	// and inserts in one transaction, so racing creators cannot both win.
	if err := s.repo.Create(ctx, b, []Status{StatusConfirmed}); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, notify.EventRequestCreated, created)
	return created, nil
}

func (s *service) CreateRequest(ctx context.Context, p CreateParams) (*Booking, error) {
	return s.create(ctx, p, StatusPending, nil)
}

func (s *service) CreateConfirmed(ctx context.Context, p CreateParams, adminID string) (*Booking, error) {
	return s.create(ctx, p, StatusConfirmed, &adminID)
}

func (s *service) GetByID(ctx context.Context, id, callerID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != callerID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter, callerID string, isAdmin bool) ([]*Booking, int, error) {
	if !isAdmin {
		filter.UserID = callerID
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Approve(ctx context.Context, id, adminID, note string) (*Booking, string, error) {
	// Approval yields to both confirmed and pending bookings, so of two
	// competing requests the first decision wins and the second conflicts.
	err := s.repo.Decide(ctx, DecideParams{
		ID:              id,
		Expected:        StatusPending,
		Next:            StatusConfirmed,
		DecidedByID:     adminID,
		Note:            note,
		OverlapStatuses: LiveStatuses,
	})
	if err != nil {
		return nil, "", err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	warning := ""
	if err := s.sched.UpsertNote(ctx, s.noteFor(b)); err != nil {
		warning = fmt.Sprintf("booking approved but slot note update failed: %v", err)
		log.Printf("approve booking %s: %s", b.ID, warning)
	}

	s.publish(ctx, notify.EventRequestDecided, b)
	return b, warning, nil
}

func (s *service) Reject(ctx context.Context, id, adminID, note string) (*Booking, string, error) {
	err := s.repo.Decide(ctx, DecideParams{
		ID:          id,
		Expected:    StatusPending,
		Next:        StatusRejected,
		DecidedByID: adminID,
		Note:        note,
	})
	if err != nil {
		return nil, "", err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	warning := ""
	if err := s.sched.RemoveNote(ctx, s.noteFor(b).Key()); err != nil && !errors.Is(err, schedule.ErrNoteNotFound) {
		warning = fmt.Sprintf("booking rejected but slot note removal failed: %v", err)
		log.Printf("reject booking %s: %s", b.ID, warning)
	}

	s.publish(ctx, notify.EventRequestDecided, b)
	return b, warning, nil
}

func (s *service) Cancel(ctx context.Context, id, callerID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != callerID {
		return nil, ErrPermissionDenied
	}

	if err := s.repo.CancelLive(ctx, id); err != nil {
		return nil, err
	}

	cancelled, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, notify.EventRequestDecided, cancelled)
	return cancelled, nil
}

func (s *service) UpdateTimes(ctx context.Context, id string, start, end time.Time, callerID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != callerID {
		return nil, ErrPermissionDenied
	}
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return nil, ErrAlreadyFinal
	}

	if err := s.validateWindow(start, end); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTimes(ctx, id, start, end, []Status{StatusConfirmed}); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Availability(ctx context.Context, q AvailabilityQuery) ([]TimeSlot, error) {
	if q.DurationMinutes < MinSlotDuration || q.DurationMinutes > MaxSlotDuration {
		return nil, ErrInvalidInput
	}
	if q.StepMinutes < MinSlotStep || q.StepMinutes > MaxSlotStep {
		return nil, ErrInvalidInput
	}
	if q.OpenEndMinutes <= q.OpenStartMinutes {
		return nil, ErrInvalidInput
	}

	if _, err := s.rooms.GetByID(ctx, q.RoomID); err != nil {
		return nil, err
	}

	dayStart := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, q.Date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	// Both pending and confirmed bookings hide slots from students, so a
	// request already in flight is not offered to someone else.
	busy, err := s.repo.ListBusy(ctx, q.RoomID, dayStart, dayEnd, LiveStatuses)
	if err != nil {
		return nil, err
	}

	return AvailableSlots(q.Date, q.OpenStartMinutes, q.OpenEndMinutes, q.DurationMinutes, q.StepMinutes, busy), nil
}

// noteFor derives the recurring slot note that mirrors an approved
// booking in the weekly schedule.
func (s *service) noteFor(b *Booking) schedule.SlotNote {
	weekday, err := timeutil.CampusWeekday(b.StartTime)
	if err != nil {
		weekday = 0
	}

	course := ""
	if b.CourseName != nil {
		course = *b.CourseName
	}

	return schedule.SlotNote{
		RoomID:       b.RoomID,
		Weekday:      weekday,
		StartMinutes: timeutil.MinutesOfDay(b.StartTime),
		EndMinutes:   timeutil.MinutesOfDay(b.EndTime),
		Professor:    b.UserName,
		Course:       course,
		Reason:       b.Reason,
	}
}

func (s *service) publish(ctx context.Context, typ notify.EventType, b *Booking) {
	s.notifier.Publish(ctx, notify.Event{
		Type:       typ,
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		RoomName:   b.RoomName,
		UserName:   b.UserName,
		Status:     string(b.Status),
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		OccurredAt: s.policy.Now(),
	})
}
