package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts schedule endpoints under the /rooms subtree.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/rooms")

	group.Use(authMiddleware)
	{
		group.GET("/:id/open-hours", h.ListOpenHours)
		group.GET("/:id/notes", h.ListNotes)
		group.GET("/:id/grid", h.Grid)
	}

	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.PUT("/:id/open-hours", h.SetOpenHours)
		admin.PUT("/:id/notes", h.UpsertNote)
		admin.DELETE("/:id/notes", h.RemoveNote)
	}
}
