package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BlazingTwister/finalflow/internal/database"
	apierrors "github.com/BlazingTwister/finalflow/internal/errors"
	"github.com/BlazingTwister/finalflow/internal/models"
)

// RequireRole checks that the authenticated user holds the given role.
// Only the role is checked here; whether an entity belongs to the actor is
// decided inside the services.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if user.Role != role {
			apierrors.Forbidden(c, "This action requires the "+string(role)+" role")
			c.Abort()
			return
		}

		c.Next()
	}
}
