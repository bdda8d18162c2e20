package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

const UserIDHeader = "X-User-ID"

// AuthMiddleware resolves the current actor from the trusted X-User-ID
// header. The value must parse and name an existing user; everything
// downstream reads the actor from the request context, never from globals.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		headerValue := ctx.GetHeader(UserIDHeader)

		if headerValue == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
			return
		}

		userID, err := strconv.ParseUint(headerValue, 10, 32)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
			return
		}

		var user models.User

		if err := db.DB.Where("id = ?", uint(userID)).First(&user).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
		ctx.Next()
	}
}
