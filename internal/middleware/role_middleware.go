package middleware

import (
	"context"
	"net/http"

	"teamtodo/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserLoader resolves an authenticated user ID to a full user record.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// RequireRole gates a route group to users whose role is in allowedRoles.
// It must run after JWTAuthMiddleware.
func RequireRole(users UserLoader, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := AuthenticatedUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
			c.Abort()
			return
		}
		if user == nil || !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is not active"})
			c.Abort()
			return
		}

		for _, role := range allowedRoles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		c.Abort()
	}
}
