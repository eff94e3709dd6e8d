package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	group.Use(authMiddleware)
	{
		group.POST("/booking-requests", h.CreateRequest)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.UpdateTimes)
		group.DELETE("/:id", h.Cancel)
	}

	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.POST("", h.CreateConfirmed)
		admin.POST("/:id/approve", h.Approve)
		admin.POST("/:id/reject", h.Reject)
	}

	rooms := g.Group("/rooms")
	rooms.Use(authMiddleware)
	{
		rooms.GET("/:id/availability", h.Availability)
	}
}
