package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CountByStatus(ctx context.Context, from, to time.Time) ([]StatusCount, error)
	TopRooms(ctx context.Context, from, to time.Time, limit int) ([]RoomCount, error)
	ConfirmedHoursByBuilding(ctx context.Context, from, to time.Time) ([]BuildingHours, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func window(from, to time.Time) squirrel.And {
	return squirrel.And{
		squirrel.GtOrEq{"bk.start_time": from},
		squirrel.Lt{"bk.start_time": to},
	}
}

func (r *pgxRepository) CountByStatus(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("bk.status", "count(*)").
		From("public.bookings bk").
		Where(window(from, to)).
		GroupBy("bk.status").
		OrderBy("bk.status ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status counts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status failed: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count failed: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, nil
}

func (r *pgxRepository) TopRooms(ctx context.Context, from, to time.Time, limit int) ([]RoomCount, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("r.id", "r.name", "count(*)").
		From("public.bookings bk").
		Join("public.rooms r ON bk.room_id = r.id").
		Where(window(from, to)).
		GroupBy("r.id", "r.name").
		OrderBy("count(*) DESC", "r.name ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top rooms query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("top rooms failed: %w", err)
	}
	defer rows.Close()

	var rooms []RoomCount
	for rows.Next() {
		var rc RoomCount
		if err := rows.Scan(&rc.RoomID, &rc.RoomName, &rc.Count); err != nil {
			return nil, fmt.Errorf("scan room count failed: %w", err)
		}
		rooms = append(rooms, rc)
	}
	return rooms, nil
}

func (r *pgxRepository) ConfirmedHoursByBuilding(ctx context.Context, from, to time.Time) ([]BuildingHours, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(
		"b.id", "b.name",
		"COALESCE(SUM(EXTRACT(EPOCH FROM bk.end_time - bk.start_time)) / 3600, 0)",
	).
		From("public.bookings bk").
		Join("public.rooms r ON bk.room_id = r.id").
		Join("public.floors f ON r.floor_id = f.id").
		Join("public.buildings b ON f.building_id = b.id").
		Where(squirrel.Eq{"bk.status": "confirmed"}).
		Where(window(from, to)).
		GroupBy("b.id", "b.name").
		OrderBy("b.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build building hours query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("building hours failed: %w", err)
	}
	defer rows.Close()

	var hours []BuildingHours
	for rows.Next() {
		var bh BuildingHours
		if err := rows.Scan(&bh.BuildingID, &bh.BuildingName, &bh.Hours); err != nil {
			return nil, fmt.Errorf("scan building hours failed: %w", err)
		}
		hours = append(hours, bh)
	}
	return hours, nil
}
