package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/notifications")

	group.Use(authMiddleware, adminMiddleware)
	{
		group.GET("/stream", h.Stream)
	}
}
