package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/room-booking-backend/internal/auth"
)

// RequireAdmin ensures the authenticated user carries the admin role.
// The role travels in the JWT claims, so no database lookup is needed.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !auth.IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required"})
			return
		}
		c.Next()
	}
}
