package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Put(ctx context.Context, s *Settings) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx, `
		SELECT campus_name, default_open_start, default_open_end,
		       contact_url, auto_cancel_enabled, auto_cancel_grace_minutes,
		       updated_at
		FROM public.settings
		WHERE id = 1
	`).Scan(
		&s.CampusName, &s.DefaultOpenStart, &s.DefaultOpenEnd,
		&s.ContactURL, &s.AutoCancelEnabled, &s.AutoCancelGraceMinutes,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("get settings failed: %w", err)
	}
	return &s, nil
}

// Put replaces the single settings row as a unit.
func (r *pgxRepository) Put(ctx context.Context, s *Settings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO public.settings (
			id, campus_name, default_open_start, default_open_end,
			contact_url, auto_cancel_enabled, auto_cancel_grace_minutes, updated_at
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			campus_name = EXCLUDED.campus_name,
			default_open_start = EXCLUDED.default_open_start,
			default_open_end = EXCLUDED.default_open_end,
			contact_url = EXCLUDED.contact_url,
			auto_cancel_enabled = EXCLUDED.auto_cancel_enabled,
			auto_cancel_grace_minutes = EXCLUDED.auto_cancel_grace_minutes,
			updated_at = now()
	`, s.CampusName, s.DefaultOpenStart, s.DefaultOpenEnd,
		s.ContactURL, s.AutoCancelEnabled, s.AutoCancelGraceMinutes)
	if err != nil {
		return fmt.Errorf("put settings failed: %w", err)
	}
	return nil
}
