package middleware

import (
	"crypto/subtle"
	"strings"

	"onchain-re-lending/internal/auth"
	"onchain-re-lending/internal/errors"

	"github.com/gin-gonic/gin"
)

const (
	ContextSessionID     = "session_id"
	ContextWalletAddress = "wallet_address"
	AdminKeyHeader       = "X-Admin-Key"
)

// SessionAuth requires a Bearer session token and exposes its claims on the context.
func SessionAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Error(errors.Unauthorized("authorization header required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Error(errors.Unauthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateJWT(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			c.Error(errors.Unauthorized(err.Error()))
			c.Abort()
			return
		}

		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextWalletAddress, claims.WalletAddress)
		c.Next()
	}
}

// AdminKey guards operator endpoints. An empty configured key disables them entirely.
func AdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.Error(errors.Forbidden("invalid or missing admin key"))
			c.Abort()
			return
		}
		c.Next()
	}
}
