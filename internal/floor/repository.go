package floor

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, f *Floor) error
	GetByID(ctx context.Context, id string) (*Floor, error)
	List(ctx context.Context, filter Filter) ([]*Floor, int, error)
	Update(ctx context.Context, f *Floor) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, f *Floor) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.floors").
		Columns("building_id", "level", "name").
		Values(f.BuildingID, f.Level, f.Name).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create floor query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrInvalidBuilding
		}
		return fmt.Errorf("create floor failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Floor, error) {
	const query = `
		SELECT f.id, f.building_id, b.name, f.level, f.name, f.created_at
		FROM public.floors f
		JOIN public.buildings b ON f.building_id = b.id
		WHERE f.id = $1
	`

	var f Floor
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.BuildingID, &f.BuildingName, &f.Level, &f.Name, &f.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get floor failed: %w", err)
	}
	return &f, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Floor, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"f.id", "f.building_id", "b.name", "f.level", "f.name", "f.created_at",
		"count(*) OVER() as total_count",
	).
		From("public.floors f").
		Join("public.buildings b ON f.building_id = b.id")

	if filter.BuildingID != "" {
		query = query.Where(squirrel.Eq{"f.building_id": filter.BuildingID})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("b.name ASC", "f.level ASC").
		Limit(uint64(filter.PageSize)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list floors query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list floors failed: %w", err)
	}
	defer rows.Close()

	var floors []*Floor
	var total int

	for rows.Next() {
		var f Floor
		if err := rows.Scan(
			&f.ID, &f.BuildingID, &f.BuildingName, &f.Level, &f.Name, &f.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan floor failed: %w", err)
		}
		floors = append(floors, &f)
	}

	return floors, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, f *Floor) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.floors").
		Set("level", f.Level).
		Set("name", f.Name).
		Where(squirrel.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update floor query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update floor failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, "DELETE FROM public.floors WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrHasRooms
		}
		return fmt.Errorf("delete floor failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
