package room

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
	Create(ctx context.Context, rm *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, rm *Room) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, rm *Room) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.rooms").
		Columns(
			"floor_id", "name", "capacity",
			"has_projector", "has_monitor", "has_whiteboard", "has_computer",
			"is_active",
		).
		Values(
			rm.FloorID, rm.Name, rm.Capacity,
			rm.Equipment.Projector, rm.Equipment.Monitor, rm.Equipment.Whiteboard, rm.Equipment.Computer,
			rm.IsActive,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create room query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rm.ID, &rm.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrInvalidFloor
		}
		return fmt.Errorf("create room failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Room, error) {
	const query = `
		SELECT
			r.id, r.floor_id, f.name, b.id, b.name,
			r.name, r.capacity,
			r.has_projector, r.has_monitor, r.has_whiteboard, r.has_computer,
			r.photo_path, r.is_active, r.created_at
		FROM public.rooms r
		JOIN public.floors f ON r.floor_id = f.id
		JOIN public.buildings b ON f.building_id = b.id
		WHERE r.id = $1
	`

	var rm Room
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&rm.ID, &rm.FloorID, &rm.FloorName, &rm.BuildingID, &rm.BuildingName,
		&rm.Name, &rm.Capacity,
		&rm.Equipment.Projector, &rm.Equipment.Monitor, &rm.Equipment.Whiteboard, &rm.Equipment.Computer,
		&rm.PhotoPath, &rm.IsActive, &rm.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room failed: %w", err)
	}
	return &rm, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"r.id", "r.floor_id", "f.name", "b.id", "b.name",
		"r.name", "r.capacity",
		"r.has_projector", "r.has_monitor", "r.has_whiteboard", "r.has_computer",
		"r.photo_path", "r.is_active", "r.created_at",
		"count(*) OVER() as total_count",
	).
		From("public.rooms r").
		Join("public.floors f ON r.floor_id = f.id").
		Join("public.buildings b ON f.building_id = b.id")

	if filter.FloorID != "" {
		query = query.Where(squirrel.Eq{"r.floor_id": filter.FloorID})
	}
	if filter.BuildingID != "" {
		query = query.Where(squirrel.Eq{"b.id": filter.BuildingID})
	}
	if filter.MinCapacity > 0 {
		query = query.Where(squirrel.GtOrEq{"r.capacity": filter.MinCapacity})
	}
	if filter.Projector != nil {
		query = query.Where(squirrel.Eq{"r.has_projector": *filter.Projector})
	}
	if filter.Monitor != nil {
		query = query.Where(squirrel.Eq{"r.has_monitor": *filter.Monitor})
	}
	if filter.Whiteboard != nil {
		query = query.Where(squirrel.Eq{"r.has_whiteboard": *filter.Whiteboard})
	}
	if filter.Computer != nil {
		query = query.Where(squirrel.Eq{"r.has_computer": *filter.Computer})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"r.is_active": true})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("b.name ASC", "r.name ASC").
		Limit(uint64(filter.PageSize)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list rooms query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	var total int

	for rows.Next() {
		var rm Room
		if err := rows.Scan(
			&rm.ID, &rm.FloorID, &rm.FloorName, &rm.BuildingID, &rm.BuildingName,
			&rm.Name, &rm.Capacity,
			&rm.Equipment.Projector, &rm.Equipment.Monitor, &rm.Equipment.Whiteboard, &rm.Equipment.Computer,
			&rm.PhotoPath, &rm.IsActive, &rm.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan room failed: %w", err)
		}
		rooms = append(rooms, &rm)
	}

	return rooms, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, rm *Room) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.rooms").
		Set("name", rm.Name).
		Set("capacity", rm.Capacity).
		Set("has_projector", rm.Equipment.Projector).
		Set("has_monitor", rm.Equipment.Monitor).
		Set("has_whiteboard", rm.Equipment.Whiteboard).
		Set("has_computer", rm.Equipment.Computer).
		Set("photo_path", rm.PhotoPath).
		Set("is_active", rm.IsActive).
		Where(squirrel.Eq{"id": rm.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update room query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, "DELETE FROM public.rooms WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrHasBookings
		}
		return fmt.Errorf("delete room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
