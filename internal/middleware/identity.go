package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	UserIDKey    = "userID"
	UserIDHeader = "X-User-ID"
	UserIDQuery  = "userId"

	maxUserIDLength = 128
)

// Identity resolves who is calling. The X-User-ID header wins over the
// userId query parameter (browsers cannot set headers on a websocket
// handshake); a caller with neither gets a fresh guest id.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			userID = strings.TrimSpace(c.Query(UserIDQuery))
		}
		if userID == "" {
			userID = uuid.NewString()
		}
		if len(userID) > maxUserIDLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "User ID is too long"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by Identity, or "" outside of it.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
