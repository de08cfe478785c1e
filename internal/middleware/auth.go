package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/everpayapp/everpay-frontend/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ClaimsKey = "session_claims"
const TokenKey = "session_token"

// TokenValidator validates a session token string and returns its
// claims. Satisfied by *session.TokenService.
type TokenValidator interface {
	Validate(tokenString string) (*session.Claims, error)
}

// RevocationChecker reports whether a token ID has been logged out.
// Satisfied by *session.RevocationStore.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// SessionAuth extracts the session token from the Authorization header
// (Bearer scheme) or the session cookie, validates it, rejects revoked
// tokens, and stores the claims in the request context.
func SessionAuth(validator TokenValidator, revocations RevocationChecker, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := ContextLogger(c)

		tokenString := extractToken(c, cookieName)
		if tokenString == "" {
			logger.Info("Session token is missing")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		claims, err := validator.Validate(tokenString)
		if err != nil {
			logger.Info("Session token rejected", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			c.Abort()
			return
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("Revocation check failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session check failed"})
				c.Abort()
				return
			}
			if revoked {
				logger.Info("Revoked session token presented", zap.String("jti", claims.ID))
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session has been logged out"})
				c.Abort()
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(TokenKey, tokenString)
		c.Next()
	}
}

// ContextClaims returns the validated session claims stored by
// SessionAuth, or nil when the request is unauthenticated.
func ContextClaims(c *gin.Context) *session.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*session.Claims); ok {
			return claims
		}
	}
	return nil
}

func extractToken(c *gin.Context, cookieName string) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil {
			return cookie
		}
	}
	return ""
}
