package schedule

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	ListOpenHours(ctx context.Context, roomID string, weekday int) ([]OpenHour, error)
	// ReplaceOpenHours swaps out all of a weekday's windows in one transaction.
	ReplaceOpenHours(ctx context.Context, roomID string, weekday int, windows []OpenHour) error

	ListNotes(ctx context.Context, roomID string, weekday int) ([]SlotNote, error)
	// UpsertNote is delete-then-insert for the exact composite key.
	UpsertNote(ctx context.Context, note SlotNote) error
	// DeleteNote removes the row for the key; missing rows are not an error.
	DeleteNote(ctx context.Context, key NoteKey) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) ListOpenHours(ctx context.Context, roomID string, weekday int) ([]OpenHour, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("room_id", "weekday", "start_minutes", "end_minutes").
		From("public.room_open_hours").
		Where(squirrel.Eq{"room_id": roomID})
	if weekday > 0 {
		query = query.Where(squirrel.Eq{"weekday": weekday})
	}

	sql, args, err := query.OrderBy("weekday ASC", "start_minutes ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list open hours query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list open hours failed: %w", err)
	}
	defer rows.Close()

	var hours []OpenHour
	for rows.Next() {
		var oh OpenHour
		if err := rows.Scan(&oh.RoomID, &oh.Weekday, &oh.StartMinutes, &oh.EndMinutes); err != nil {
			return nil, fmt.Errorf("scan open hour failed: %w", err)
		}
		hours = append(hours, oh)
	}
	return hours, nil
}

func (r *pgxRepository) ReplaceOpenHours(ctx context.Context, roomID string, weekday int, windows []OpenHour) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace open hours failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM public.room_open_hours WHERE room_id = $1 AND weekday = $2",
		roomID, weekday,
	); err != nil {
		return fmt.Errorf("clear open hours failed: %w", err)
	}

	for _, w := range windows {
		if _, err := tx.Exec(ctx,
			"INSERT INTO public.room_open_hours (room_id, weekday, start_minutes, end_minutes) VALUES ($1, $2, $3, $4)",
			roomID, weekday, w.StartMinutes, w.EndMinutes,
		); err != nil {
			return fmt.Errorf("insert open hour failed: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) ListNotes(ctx context.Context, roomID string, weekday int) ([]SlotNote, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("room_id", "weekday", "start_minutes", "end_minutes", "professor", "course", "reason").
		From("public.room_slot_notes").
		Where(squirrel.Eq{"room_id": roomID})
	if weekday > 0 {
		query = query.Where(squirrel.Eq{"weekday": weekday})
	}

	sql, args, err := query.OrderBy("weekday ASC", "start_minutes ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notes query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes failed: %w", err)
	}
	defer rows.Close()

	var notes []SlotNote
	for rows.Next() {
		var n SlotNote
		if err := rows.Scan(&n.RoomID, &n.Weekday, &n.StartMinutes, &n.EndMinutes, &n.Professor, &n.Course, &n.Reason); err != nil {
			return nil, fmt.Errorf("scan note failed: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (r *pgxRepository) UpsertNote(ctx context.Context, note SlotNote) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert note failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Replace semantics: the whole row is supplied by the caller.
	if _, err := tx.Exec(ctx,
		"DELETE FROM public.room_slot_notes WHERE room_id = $1 AND weekday = $2 AND start_minutes = $3 AND end_minutes = $4",
		note.RoomID, note.Weekday, note.StartMinutes, note.EndMinutes,
	); err != nil {
		return fmt.Errorf("clear note failed: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO public.room_slot_notes (room_id, weekday, start_minutes, end_minutes, professor, course, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		note.RoomID, note.Weekday, note.StartMinutes, note.EndMinutes, note.Professor, note.Course, note.Reason,
	); err != nil {
		return fmt.Errorf("insert note failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) DeleteNote(ctx context.Context, key NoteKey) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM public.room_slot_notes WHERE room_id = $1 AND weekday = $2 AND start_minutes = $3 AND end_minutes = $4",
		key.RoomID, key.Weekday, key.StartMinutes, key.EndMinutes,
	)
	if err != nil {
		return fmt.Errorf("delete note failed: %w", err)
	}
	return nil
}
