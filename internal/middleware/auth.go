package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/requestdata"
	"github.com/tripacker/tripacker-backend/internal/services"
)

// RequireAuth validates the bearer token and stashes the request identity in
// the request context for downstream handlers.
func RequireAuth(authService services.AuthService, log *logger.Logger) gin.HandlerFunc {
	authLog := log.With("middleware", "RequireAuth")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		userID, err := authService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			authLog.Debug("Token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		rd := &requestdata.RequestData{TokenString: token, UserID: userID}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}
