package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"codeberg.org/algopatterns/catalog/internal/errors"
	"codeberg.org/algopatterns/catalog/internal/logger"
)

// requires a valid bearer token and adds the client id to context
func Middleware(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.Unauthorized(c, "authorization header required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			errors.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := issuer.ValidateJWT(token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debugw("rejected api token", "error", err)
			errors.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set("client_id", claims.ClientID)

		c.Next()
	}
}

// extracts client_id from context after Middleware
func GetClientID(c *gin.Context) (string, bool) {
	clientID, exists := c.Get("client_id")
	if !exists {
		return "", false
	}

	id, ok := clientID.(string)

	return id, ok
}
