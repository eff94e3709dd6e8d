package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/campuskit/room-booking-backend/internal/api"
	"github.com/campuskit/room-booking-backend/internal/auth"
	"github.com/campuskit/room-booking-backend/internal/booking"
	"github.com/campuskit/room-booking-backend/internal/building"
	"github.com/campuskit/room-booking-backend/internal/config"
	"github.com/campuskit/room-booking-backend/internal/floor"
	"github.com/campuskit/room-booking-backend/internal/notify"
	"github.com/campuskit/room-booking-backend/internal/pkg/storage"
	"github.com/campuskit/room-booking-backend/internal/room"
	"github.com/campuskit/room-booking-backend/internal/schedule"
	"github.com/campuskit/room-booking-backend/internal/settings"
	"github.com/campuskit/room-booking-backend/internal/stats"
	"github.com/campuskit/room-booking-backend/internal/user"
)

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Hub        *notify.Hub

	// Close releases background resources (the Redis subscriber, if any).
	Close func()
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// Notification fan-out. The hub always exists for SSE delivery; the
	// Redis transport layers cross-instance publishing on top of it.
	hub := notify.NewHub()
	var broadcaster notify.Broadcaster = hub
	closeFn := func() {}
	if cfg.NotifyTransport == config.NotifyTransportRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rb := notify.NewRedisBroadcaster(client, cfg.RedisChannel, hub)
		ctx, cancel := context.WithCancel(context.Background())
		go rb.Run(ctx)
		broadcaster = rb
		closeFn = func() {
			cancel()
			client.Close()
		}
	}

	// User Module
	userRepo := user.NewPgxRepository(pool)
	userService := user.NewService(userRepo, passwordHasher)

	// Building Module
	bldgRepo := building.NewPgxRepository(pool)
	bldgService := building.NewService(bldgRepo)

	// Floor Module
	floorRepo := floor.NewPgxRepository(pool)
	floorService := floor.NewService(floorRepo, bldgService)

	// Room Module
	roomRepo := room.NewPgxRepository(pool)
	roomService := room.NewService(roomRepo, floorService, store, storage.NewImageProcessor())

	// Booking + Schedule Modules. The booking repository doubles as the
	// schedule's source of live booking start times.
	bookingRepo := booking.NewPgxRepository(pool)
	scheduleRepo := schedule.NewPgxRepository(pool)
	scheduleService := schedule.NewService(scheduleRepo, bookingRepo)
	bookingService := booking.NewService(bookingRepo, roomService, scheduleService, broadcaster, booking.Policy{
		MaxBookingMinutes: cfg.MaxBookingMinutes,
		MaxAdvanceDays:    cfg.MaxAdvanceDays,
	})

	// Settings Module
	settingsRepo := settings.NewPgxRepository(pool)
	settingsService := settings.NewService(settingsRepo)

	// Stats Module
	statsRepo := stats.NewPgxRepository(pool)
	statsService := stats.NewService(statsRepo)

	// Router
	router := api.NewRouter(cfg, api.Services{
		User:     userService,
		Building: bldgService,
		Floor:    floorService,
		Room:     roomService,
		Schedule: scheduleService,
		Booking:  bookingService,
		Settings: settingsService,
		Stats:    statsService,
		Hub:      hub,
	}, jwtManager)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Hub:        hub,
		Close:      closeFn,
	}, nil
}
