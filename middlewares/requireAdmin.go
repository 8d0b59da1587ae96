package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireAdmin loads the full user record for the authenticated id and
// lets the request continue only for the admin role. Runs after
// RequireAuth.
func RequireAdmin(users repositories.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(ctx.GetString(ContextUserID))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User not found in context",
			})
			return
		}

		user, err := users.FindByID(ctx.Request.Context(), userID)
		if err != nil || user.Role != models.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Unauthorized Access",
			})
			return
		}

		ctx.Next()
	}
}
