package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campuskit/room-booking-backend/internal/auth"
	"github.com/campuskit/room-booking-backend/internal/booking"
	bookingHttp "github.com/campuskit/room-booking-backend/internal/booking/http"
	"github.com/campuskit/room-booking-backend/internal/building"
	bldgHttp "github.com/campuskit/room-booking-backend/internal/building/http"
	"github.com/campuskit/room-booking-backend/internal/config"
	"github.com/campuskit/room-booking-backend/internal/floor"
	floorHttp "github.com/campuskit/room-booking-backend/internal/floor/http"
	"github.com/campuskit/room-booking-backend/internal/notify"
	notifyHttp "github.com/campuskit/room-booking-backend/internal/notify/http"
	"github.com/campuskit/room-booking-backend/internal/room"
	roomHttp "github.com/campuskit/room-booking-backend/internal/room/http"
	"github.com/campuskit/room-booking-backend/internal/schedule"
	scheduleHttp "github.com/campuskit/room-booking-backend/internal/schedule/http"
	"github.com/campuskit/room-booking-backend/internal/settings"
	settingsHttp "github.com/campuskit/room-booking-backend/internal/settings/http"
	"github.com/campuskit/room-booking-backend/internal/stats"
	statsHttp "github.com/campuskit/room-booking-backend/internal/stats/http"
	"github.com/campuskit/room-booking-backend/internal/user"
)

// Services groups everything the router needs to register routes.
type Services struct {
	User     user.Service
	Building building.Service
	Floor    floor.Service
	Room     room.Service
	Schedule schedule.Service
	Booking  booking.Service
	Settings settings.Service
	Stats    stats.Service
	Hub      *notify.Hub
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and
// registering routes for the modules.
func NewRouter(cfg *config.Config, svcs Services, jwtManager *auth.JWTManager) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(jwtManager)
	// adminMiddleware: Further checks if the authenticated user is an admin.
	adminMiddleware := RequireAdmin()

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	authHandler := NewAuthHandler(svcs.User, jwtManager)
	userHandler := NewUserHandler(svcs.User)
	bldgHandler := bldgHttp.NewHandler(svcs.Building)
	floorHandler := floorHttp.NewHandler(svcs.Floor)
	roomHandler := roomHttp.NewHandler(svcs.Room)
	scheduleHandler := scheduleHttp.NewHandler(svcs.Schedule)
	bookingHandler := bookingHttp.NewHandler(svcs.Booking)
	settingsHandler := settingsHttp.NewHandler(svcs.Settings)
	statsHandler := statsHttp.NewHandler(svcs.Stats)
	notifyHandler := notifyHttp.NewHandler(svcs.Hub)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		users := v1.Group("/users")
		users.Use(authMiddleware)
		{
			users.GET("/me", userHandler.Me)
			users.PATCH("/me", userHandler.UpdateMe)

			admin := users.Group("")
			admin.Use(adminMiddleware)
			{
				admin.GET("", userHandler.List)
				admin.PATCH("/:id", userHandler.Update)
			}
		}

		bldgHttp.RegisterRoutes(v1, bldgHandler, authMiddleware, adminMiddleware)
		floorHttp.RegisterRoutes(v1, floorHandler, authMiddleware, adminMiddleware)
		roomHttp.RegisterRoutes(v1, roomHandler, authMiddleware, adminMiddleware)
		scheduleHttp.RegisterRoutes(v1, scheduleHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		settingsHttp.RegisterRoutes(v1, settingsHandler, authMiddleware, adminMiddleware)
		statsHttp.RegisterRoutes(v1, statsHandler, authMiddleware, adminMiddleware)
		notifyHttp.RegisterRoutes(v1, notifyHandler, authMiddleware, adminMiddleware)
	}

	return r
}
