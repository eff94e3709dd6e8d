package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DecideParams drives the single-transaction status transition of a
// pending booking. When OverlapStatuses is non-empty the interval is
// re-checked against those statuses inside the transaction, with the
// row itself excluded.
type DecideParams struct {
	ID              string
	Expected        Status
	Next            Status
	DecidedByID     string
	Note            string
	OverlapStatuses []Status
}

type Repository interface {
	// Create inserts the booking after checking its interval against the
	// blocking statuses. Check and insert run in one transaction holding
	// the room's writer lock, so two concurrent inserts for the same slot
	// cannot both pass.
	Create(ctx context.Context, b *Booking, blocking []Status) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// UpdateTimes moves the booking, re-checking the new interval against
	// the blocking statuses in the same transaction as the write.
	UpdateTimes(ctx context.Context, id string, start, end time.Time, blocking []Status) error
	ListBusy(ctx context.Context, roomID string, from, to time.Time, statuses []Status) ([]TimeSlot, error)
	LiveStartTimes(ctx context.Context, roomID string, from, to time.Time) ([]time.Time, error)
	Decide(ctx context.Context, p DecideParams) error
	CancelLive(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const selectBooking = `
	SELECT
		bk.id, bk.room_id, r.name,
		bk.user_id, COALESCE(u.display_name, u.email),
		bk.start_time, bk.end_time, bk.status, bk.reason,
		bk.student_id, bk.course_name, bk.decided_by, bk.decision_note,
		bk.created_at, bk.updated_at
	FROM public.bookings bk
	JOIN public.rooms r ON bk.room_id = r.id
	JOIN public.users u ON bk.user_id = u.id
`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.RoomID, &b.RoomName,
		&b.UserID, &b.UserName,
		&b.StartTime, &b.EndTime, &b.Status, &b.Reason,
		&b.StudentID, &b.CourseName, &b.DecidedByID, &b.DecisionNote,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// rowQuerier lets the overlap check run on either the pool or a tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// lockRoom takes the room's transaction-scoped writer lock. Every write
// that checks an interval holds it, so check and write are one atomic
// unit per room.
func lockRoom(ctx context.Context, tx pgx.Tx, roomID string) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", roomID); err != nil {
		return fmt.Errorf("lock room failed: %w", err)
	}
	return nil
}

// overlapExists reports whether any booking in the given statuses occupies
// part of the half-open interval [start, end) in the room. Bookings that
// end exactly when the interval starts do not count.
func overlapExists(ctx context.Context, q rowQuerier, roomID string, start, end time.Time, statuses []Status, excludeID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		Limit(1)
	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build overlap query failed: %w", err)
	}

	var one int
	if err := q.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return true, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking, blocking []Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"room_id", "user_id", "start_time", "end_time",
			"status", "reason", "student_id", "course_name", "decided_by",
		).
		Values(
			b.RoomID, b.UserID, b.StartTime, b.EndTime,
			b.Status, b.Reason, b.StudentID, b.CourseName, b.DecidedByID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockRoom(ctx, tx, b.RoomID); err != nil {
		return err
	}
	if len(blocking) > 0 {
		conflict, err := overlapExists(ctx, tx, b.RoomID, b.StartTime, b.EndTime, blocking, "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrTimeConflict
		}
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrRoomNotFound
		}
		return fmt.Errorf("create booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, selectBooking+" WHERE bk.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"bk.id", "bk.room_id", "r.name",
		"bk.user_id", "COALESCE(u.display_name, u.email)",
		"bk.start_time", "bk.end_time", "bk.status", "bk.reason",
		"bk.student_id", "bk.course_name", "bk.decided_by", "bk.decision_note",
		"bk.created_at", "bk.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.bookings bk").
		Join("public.rooms r ON bk.room_id = r.id").
		Join("public.users u ON bk.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"bk.user_id": filter.UserID})
	}
	if filter.RoomID != "" {
		query = query.Where(squirrel.Eq{"bk.room_id": filter.RoomID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"bk.status": filter.Status})
	}
	if filter.StartTime != nil {
		query = query.Where(squirrel.Gt{"bk.end_time": *filter.StartTime})
	}
	if filter.EndTime != nil {
		query = query.Where(squirrel.Lt{"bk.start_time": *filter.EndTime})
	}

	sortBy := "bk.start_time"
	if filter.SortBy == "created_at" {
		sortBy = "bk.created_at"
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy(sortBy + " " + sortOrder).
		Limit(uint64(filter.PageSize)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.RoomID, &b.RoomName,
			&b.UserID, &b.UserName,
			&b.StartTime, &b.EndTime, &b.Status, &b.Reason,
			&b.StudentID, &b.CourseName, &b.DecidedByID, &b.DecisionNote,
			&b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateTimes(ctx context.Context, id string, start, end time.Time, blocking []Status) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update times tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	var roomID string
	err = tx.QueryRow(ctx, `
		SELECT room_id FROM public.bookings WHERE id = $1 FOR UPDATE
	`, id).Scan(&roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock booking failed: %w", err)
	}

	if err := lockRoom(ctx, tx, roomID); err != nil {
		return err
	}
	if len(blocking) > 0 {
		conflict, err := overlapExists(ctx, tx, roomID, start, end, blocking, id)
		if err != nil {
			return err
		}
		if conflict {
			return ErrTimeConflict
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE public.bookings
		SET start_time = $2, end_time = $3, updated_at = now()
		WHERE id = $1
	`, id, start, end); err != nil {
		return fmt.Errorf("update booking times failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update times tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListBusy(ctx context.Context, roomID string, from, to time.Time, statuses []Status) ([]TimeSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("start_time", "end_time").
		From("public.bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build busy slots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list busy slots failed: %w", err)
	}
	defer rows.Close()

	var slots []TimeSlot
	for rows.Next() {
		var s TimeSlot
		if err := rows.Scan(&s.StartTime, &s.EndTime); err != nil {
			return nil, fmt.Errorf("scan busy slot failed: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// LiveStartTimes satisfies schedule.BookingSource.
func (r *pgxRepository) LiveStartTimes(ctx context.Context, roomID string, from, to time.Time) ([]time.Time, error) {
	slots, err := r.ListBusy(ctx, roomID, from, to, LiveStatuses)
	if err != nil {
		return nil, err
	}
	starts := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime)
	}
	return starts, nil
}

// Decide moves a booking from p.Expected to p.Next in one transaction.
// The row is locked first so that two concurrent decisions serialize;
// the loser sees the changed status and gets ErrAlreadyDecided.
func (r *pgxRepository) Decide(ctx context.Context, p DecideParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin decide tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		roomID     string
		start, end time.Time
		status     Status
	)
	err = tx.QueryRow(ctx, `
		SELECT room_id, start_time, end_time, status
		FROM public.bookings
		WHERE id = $1
		FOR UPDATE
	`, p.ID).Scan(&roomID, &start, &end, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock booking failed: %w", err)
	}
	if status != p.Expected {
		return ErrAlreadyDecided
	}

	if len(p.OverlapStatuses) > 0 {
		// Serialize against concurrent inserts and moves in the same room
		// so the overlap re-check stays valid through the commit.
		if err := lockRoom(ctx, tx, roomID); err != nil {
			return err
		}
		conflict, err := overlapExists(ctx, tx, roomID, start, end, p.OverlapStatuses, p.ID)
		if err != nil {
			return err
		}
		if conflict {
			return ErrTimeConflict
		}
	}

	ct, err := tx.Exec(ctx, `
		UPDATE public.bookings
		SET status = $2, decided_by = $3, decision_note = NULLIF($4, ''), updated_at = now()
		WHERE id = $1 AND status = $5
	`, p.ID, p.Next, p.DecidedByID, p.Note, p.Expected)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyDecided
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit decide tx failed: %w", err)
	}
	return nil
}

// CancelLive cancels a booking that is still pending or confirmed.
func (r *pgxRepository) CancelLive(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE public.bookings
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)
	`, id, StatusCancelled, []string{string(StatusPending), string(StatusConfirmed)})
	if err != nil {
		return fmt.Errorf("cancel booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyFinal
	}
	return nil
}
