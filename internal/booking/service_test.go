package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/room-booking-backend/internal/notify"
	"github.com/campuskit/room-booking-backend/internal/room"
	"github.com/campuskit/room-booking-backend/internal/schedule"
)

// fakeRepository keeps bookings in a slice and mirrors the transactional
// semantics of the pgx implementation: each write takes the mutex,
// re-checks overlaps against the live rows, and only then mutates, so
// racing writers observe each other just as they would under the room
// lock in Postgres.
type fakeRepository struct {
	mu       sync.Mutex
	bookings []*Booking
	nextID   int
}

func (f *fakeRepository) Create(_ context.Context, b *Booking, blocking []Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(blocking) > 0 && f.hasOverlap(b.RoomID, b.StartTime, b.EndTime, blocking, "") {
		return ErrTimeConflict
	}
	f.nextID++
	b.ID = fmt.Sprintf("bk-%d", f.nextID)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	f.bookings = append(f.bookings, &clone)
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			clone := *b
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Booking
	for _, b := range f.bookings {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (f *fakeRepository) UpdateTimes(_ context.Context, id string, start, end time.Time, blocking []Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			if len(blocking) > 0 && f.hasOverlap(b.RoomID, start, end, blocking, id) {
				return ErrTimeConflict
			}
			b.StartTime, b.EndTime = start, end
			return nil
		}
	}
	return ErrNotFound
}

// hasOverlap expects f.mu to be held by the caller.
func (f *fakeRepository) hasOverlap(roomID string, start, end time.Time, statuses []Status, excludeID string) bool {
	for _, b := range f.bookings {
		if b.RoomID != roomID || b.ID == excludeID {
			continue
		}
		match := false
		for _, st := range statuses {
			if b.Status == st {
				match = true
				break
			}
		}
		if match && overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}

func (f *fakeRepository) ListBusy(_ context.Context, roomID string, from, to time.Time, statuses []Status) ([]TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var slots []TimeSlot
	for _, b := range f.bookings {
		if b.RoomID != roomID {
			continue
		}
		for _, st := range statuses {
			if b.Status == st && overlaps(b.StartTime, b.EndTime, from, to) {
				slots = append(slots, TimeSlot{StartTime: b.StartTime, EndTime: b.EndTime})
			}
		}
	}
	return slots, nil
}

func (f *fakeRepository) LiveStartTimes(_ context.Context, roomID string, from, to time.Time) ([]time.Time, error) {
	slots, _ := f.ListBusy(nil, roomID, from, to, LiveStatuses)
	starts := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime)
	}
	return starts, nil
}

func (f *fakeRepository) Decide(_ context.Context, p DecideParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var target *Booking
	for _, b := range f.bookings {
		if b.ID == p.ID {
			target = b
			break
		}
	}
	if target == nil {
		return ErrNotFound
	}
	if target.Status != p.Expected {
		return ErrAlreadyDecided
	}
	if len(p.OverlapStatuses) > 0 &&
		f.hasOverlap(target.RoomID, target.StartTime, target.EndTime, p.OverlapStatuses, target.ID) {
		return ErrTimeConflict
	}
	target.Status = p.Next
	target.DecidedByID = &p.DecidedByID
	if p.Note != "" {
		note := p.Note
		target.DecisionNote = &note
	}
	return nil
}

func (f *fakeRepository) CancelLive(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			if b.Status != StatusPending && b.Status != StatusConfirmed {
				return ErrAlreadyFinal
			}
			b.Status = StatusCancelled
			return nil
		}
	}
	return ErrAlreadyFinal
}

type fakeRoomService struct {
	inactive map[string]bool
}

func (f *fakeRoomService) GetByID(_ context.Context, id string) (*room.Room, error) {
	if id == "missing" {
		return nil, room.ErrNotFound
	}
	return &room.Room{ID: id, Name: "Room " + id, IsActive: !f.inactive[id]}, nil
}

func (f *fakeRoomService) Create(context.Context, room.CreateRequest) (*room.Room, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRoomService) List(context.Context, room.Filter) ([]*room.Room, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeRoomService) Update(context.Context, string, room.UpdateRequest) (*room.Room, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRoomService) Delete(context.Context, string) error {
	return errors.New("not implemented")
}

func (f *fakeRoomService) SetPhoto(context.Context, string, io.Reader) (*room.Room, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRoomService) GetPhoto(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

type fakeScheduleService struct {
	upserted  []schedule.SlotNote
	removed   []schedule.NoteKey
	upsertErr error
}

func (f *fakeScheduleService) ListOpenHours(context.Context, string, int) ([]schedule.OpenHour, error) {
	return nil, nil
}

func (f *fakeScheduleService) SetOpenHours(context.Context, string, int, []schedule.OpenHour) error {
	return nil
}

func (f *fakeScheduleService) ListNotes(context.Context, string, int) ([]schedule.SlotNote, error) {
	return nil, nil
}

func (f *fakeScheduleService) UpsertNote(_ context.Context, note schedule.SlotNote) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, note)
	return nil
}

func (f *fakeScheduleService) RemoveNote(_ context.Context, key schedule.NoteKey) error {
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeScheduleService) Grid(context.Context, string, time.Time) (map[string]schedule.SlotStatus, error) {
	return nil, nil
}

type recordingBroadcaster struct {
	events []notify.Event
}

func (r *recordingBroadcaster) Publish(_ context.Context, e notify.Event) {
	r.events = append(r.events, e)
}

type fixture struct {
	repo   *fakeRepository
	sched  *fakeScheduleService
	events *recordingBroadcaster
	svc    Service
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:   &fakeRepository{},
		sched:  &fakeScheduleService{},
		events: &recordingBroadcaster{},
		// A Monday morning.
		now: time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.repo, &fakeRoomService{}, f.sched, f.events, Policy{
		MaxBookingMinutes: 120,
		MaxAdvanceDays:    14,
		Now:               func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) params(roomID string, startHour, durMinutes int) CreateParams {
	start := f.now.Truncate(24 * time.Hour).Add(time.Duration(startHour) * time.Hour)
	return CreateParams{
		RoomID:    roomID,
		UserID:    "user-1",
		StartTime: start,
		EndTime:   start.Add(time.Duration(durMinutes) * time.Minute),
		Reason:    "study group",
	}
}

func TestCreateRequestPending(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateRequest(context.Background(), f.params("room-1", 10, 60))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	assert.Nil(t, b.DecidedByID)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, notify.EventRequestCreated, f.events.events[0].Type)
}

func TestCreateRequestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.params("room-1", 10, 60)
	p.EndTime = p.StartTime
	_, err := f.svc.CreateRequest(ctx, p)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = f.svc.CreateRequest(ctx, f.params("room-1", 10, 180))
	assert.ErrorIs(t, err, ErrTooLong)

	p = f.params("room-1", 7, 30)
	_, err = f.svc.CreateRequest(ctx, p)
	assert.ErrorIs(t, err, ErrStartTimePast)

	p = f.params("room-1", 10, 60)
	p.StartTime = p.StartTime.AddDate(0, 0, 30)
	p.EndTime = p.EndTime.AddDate(0, 0, 30)
	_, err = f.svc.CreateRequest(ctx, p)
	assert.ErrorIs(t, err, ErrTooFarAhead)

	p = f.params("room-1", 10, 60)
	p.StartTime = p.StartTime.AddDate(0, 0, 6) // the next Sunday
	p.EndTime = p.EndTime.AddDate(0, 0, 6)
	_, err = f.svc.CreateRequest(ctx, p)
	assert.ErrorIs(t, err, ErrSundayClosed)

	p = f.params("missing", 10, 60)
	_, err = f.svc.CreateRequest(ctx, p)
	assert.ErrorIs(t, err, room.ErrNotFound)
}

func TestCreateRequestInactiveRoom(t *testing.T) {
	f := newFixture(t)
	f.svc = NewService(f.repo, &fakeRoomService{inactive: map[string]bool{"room-1": true}}, f.sched, f.events, Policy{
		MaxBookingMinutes: 120,
		MaxAdvanceDays:    14,
		Now:               func() time.Time { return f.now },
	})

	_, err := f.svc.CreateRequest(context.Background(), f.params("room-1", 10, 60))
	assert.ErrorIs(t, err, ErrRoomInactive)
}

func TestCreateRequestIgnoresPendingConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)

	// A second request for the same slot is accepted while the first is
	// still pending. Only confirmed bookings block creation.
	second, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateRequestBlockedByConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateConfirmed(ctx, f.params("room-1", 10, 60), "admin-1")
	require.NoError(t, err)

	_, err = f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	assert.ErrorIs(t, err, ErrTimeConflict)

	// A different room stays open.
	_, err = f.svc.CreateRequest(ctx, f.params("room-2", 10, 60))
	assert.NoError(t, err)
}

func TestCreateConfirmedFastPath(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateConfirmed(context.Background(), f.params("room-1", 10, 60), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
	require.NotNil(t, b.DecidedByID)
	assert.Equal(t, "admin-1", *b.DecidedByID)
}

func TestCreateConfirmedRaceSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Two admins grab the identical slot at the same time. The check and
	// insert are one repository transaction, so exactly one may land.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateConfirmed(ctx, f.params("room-1", 10, 60), "admin-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrTimeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	confirmed := 0
	for _, b := range f.repo.bookings {
		if b.Status == StatusConfirmed {
			confirmed++
		}
	}
	assert.Equal(t, 1, confirmed)
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)

	approved, warning, err := f.svc.Approve(ctx, created.ID, "admin-1", "ok")
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, StatusConfirmed, approved.Status)

	require.Len(t, f.sched.upserted, 1)
	note := f.sched.upserted[0]
	assert.Equal(t, "room-1", note.RoomID)
	assert.Equal(t, 1, note.Weekday)
	assert.Equal(t, 10*60, note.StartMinutes)
	assert.Equal(t, 11*60, note.EndMinutes)

	decided := f.events.events[len(f.events.events)-1]
	assert.Equal(t, notify.EventRequestDecided, decided.Type)
	assert.Equal(t, string(StatusConfirmed), decided.Status)
}

func TestApproveLoserGetsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)
	second, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)

	_, _, err = f.svc.Approve(ctx, first.ID, "admin-1", "")
	require.NoError(t, err)

	_, _, err = f.svc.Approve(ctx, second.ID, "admin-1", "")
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestApproveAlreadyDecided(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)

	_, _, err = f.svc.Approve(ctx, created.ID, "admin-1", "")
	require.NoError(t, err)

	_, _, err = f.svc.Approve(ctx, created.ID, "admin-2", "")
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	_, _, err = f.svc.Reject(ctx, created.ID, "admin-2", "")
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestApproveNoteFailureWarns(t *testing.T) {
	f := newFixture(t)
	f.sched.upsertErr = errors.New("schedule store down")
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)

	approved, warning, err := f.svc.Approve(ctx, created.ID, "admin-1", "")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, approved.Status)
	assert.Contains(t, warning, "slot note update failed")
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)

	rejected, warning, err := f.svc.Reject(ctx, created.ID, "admin-1", "room under maintenance")
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, StatusRejected, rejected.Status)
	require.NotNil(t, rejected.DecisionNote)
	assert.Equal(t, "room under maintenance", *rejected.DecisionNote)

	require.Len(t, f.sched.removed, 1)
	assert.Equal(t, 10*60, f.sched.removed[0].StartMinutes)
}

func TestCancelPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, created.ID, "someone-else", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	cancelled, err := f.svc.Cancel(ctx, created.ID, "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = f.svc.Cancel(ctx, created.ID, "user-1", false)
	assert.ErrorIs(t, err, ErrAlreadyFinal)
}

func TestCancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateConfirmed(ctx, f.params("room-1", 10, 60), "admin-1")
	require.NoError(t, err)

	_, err = f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	assert.ErrorIs(t, err, ErrTimeConflict)

	_, err = f.svc.Cancel(ctx, created.ID, "admin-1", true)
	require.NoError(t, err)

	_, err = f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	assert.NoError(t, err)
}

func TestUpdateTimes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateConfirmed(ctx, f.params("room-1", 10, 60), "admin-1")
	require.NoError(t, err)

	// Shifting within its own interval must not conflict with itself.
	newStart := created.StartTime.Add(15 * time.Minute)
	updated, err := f.svc.UpdateTimes(ctx, created.ID, newStart, newStart.Add(time.Hour), "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, newStart, updated.StartTime)

	other, err := f.svc.CreateConfirmed(ctx, f.params("room-1", 14, 60), "admin-1")
	require.NoError(t, err)

	// Moving onto another confirmed booking conflicts.
	_, err = f.svc.UpdateTimes(ctx, other.ID, newStart, newStart.Add(time.Hour), "user-1", false)
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestUpdateTimesRaceSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateConfirmed(ctx, f.params("room-1", 10, 60), "admin-1")
	require.NoError(t, err)
	second, err := f.svc.CreateConfirmed(ctx, f.params("room-1", 14, 60), "admin-1")
	require.NoError(t, err)

	// Both bookings race toward noon. The re-check and write share a
	// transaction, so only one move may commit.
	target := f.now.Truncate(24 * time.Hour).Add(12 * time.Hour)
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.UpdateTimes(ctx, id, target, target.Add(time.Hour), "user-1", false)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrTimeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

func TestListScopedToCaller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)
	p := f.params("room-2", 10, 60)
	p.UserID = "user-2"
	_, err = f.svc.CreateRequest(ctx, p)
	require.NoError(t, err)

	mine, total, err := f.svc.List(ctx, Filter{}, "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, "user-1", mine[0].UserID)

	all, total, err := f.svc.List(ctx, Filter{}, "admin-1", true)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)
}

func TestAvailabilityHidesPendingAndConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRequest(ctx, f.params("room-1", 10, 60))
	require.NoError(t, err)
	_, err = f.svc.CreateConfirmed(ctx, f.params("room-1", 13, 60), "admin-1")
	require.NoError(t, err)

	slots, err := f.svc.Availability(ctx, AvailabilityQuery{
		RoomID:           "room-1",
		Date:             f.now,
		DurationMinutes:  60,
		StepMinutes:      60,
		OpenStartMinutes: 9 * 60,
		OpenEndMinutes:   17 * 60,
	})
	require.NoError(t, err)

	for _, s := range slots {
		assert.NotEqual(t, 10, s.StartTime.Hour(), "pending booking should hide its slot")
		assert.NotEqual(t, 13, s.StartTime.Hour(), "confirmed booking should hide its slot")
	}
	assert.Len(t, slots, 6)
}

func TestAvailabilityRejectsBadParams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q := AvailabilityQuery{
		RoomID:           "room-1",
		Date:             f.now,
		DurationMinutes:  10, // below the minimum
		StepMinutes:      30,
		OpenStartMinutes: 9 * 60,
		OpenEndMinutes:   17 * 60,
	}
	_, err := f.svc.Availability(ctx, q)
	assert.ErrorIs(t, err, ErrInvalidInput)

	q.DurationMinutes = 60
	q.StepMinutes = 240
	_, err = f.svc.Availability(ctx, q)
	assert.ErrorIs(t, err, ErrInvalidInput)

	q.StepMinutes = 30
	q.OpenEndMinutes = q.OpenStartMinutes
	_, err = f.svc.Availability(ctx, q)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
