package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/everpayapp/everpay-frontend/internal/middleware"
	"github.com/everpayapp/everpay-frontend/internal/models"
	"github.com/everpayapp/everpay-frontend/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Revoker records logged-out token IDs. Satisfied by
// *session.RevocationStore.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// CookieConfig describes how the session cookie is written.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// AuthHandler owns the session lifecycle: login, session read, refresh
// and logout.
type AuthHandler struct {
	bridge      *session.Bridge
	tokens      *session.TokenService
	revocations Revoker
	cookie      CookieConfig
}

func NewAuthHandler(bridge *session.Bridge, tokens *session.TokenService, revocations Revoker, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		bridge:      bridge,
		tokens:      tokens,
		revocations: revocations,
		cookie:      cookie,
	}
}

// Login handles POST /auth/login. Credentials are verified against the
// backend; on success the identity claims are enriched into a fresh
// token and returned alongside the materialized session user.
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.ContextLogger(c)

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	identity, err := h.bridge.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Info("Login rejected", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	claims := session.EnrichClaims(session.Claims{}, identity)

	tokenString, err := h.tokens.Issue(claims)
	if err != nil {
		logger.Error("Token issuance failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	user, err := session.MaterializeUser(claims)
	if err != nil {
		// Authenticate guarantees a username, so this cannot happen
		// without a bug upstream.
		logger.Error("Materialization failed after login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	h.setSessionCookie(c, tokenString)
	logger.Info("Login succeeded", zap.String("username", user.Username))
	c.JSON(http.StatusOK, models.SessionResponse{Token: tokenString, User: user})
}

// Session handles GET /auth/session: it materializes the outward
// session view from the validated claims. A token without a username
// claim answers 409 so the client can show an explicit "profile not
// linked" state instead of guessing an identity.
func (h *AuthHandler) Session(c *gin.Context) {
	claims := middleware.ContextClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := session.MaterializeUser(*claims)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotLinked) {
			c.JSON(http.StatusConflict, gin.H{"error": "profile not linked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Refresh handles POST /auth/refresh: the identity claims are carried
// forward verbatim into a new token with a rotated id and expiry. The
// backend is not contacted.
func (h *AuthHandler) Refresh(c *gin.Context) {
	logger := middleware.ContextLogger(c)

	claims := middleware.ContextClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	tokenString, err := h.tokens.Refresh(*claims)
	if err != nil {
		logger.Error("Token refresh failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh session"})
		return
	}

	user, err := session.MaterializeUser(session.EnrichClaims(*claims, nil))
	if err != nil {
		if errors.Is(err, models.ErrProfileNotLinked) {
			c.JSON(http.StatusConflict, gin.H{"error": "profile not linked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh session"})
		return
	}

	h.setSessionCookie(c, tokenString)
	c.JSON(http.StatusOK, models.SessionResponse{Token: tokenString, User: user})
}

// Logout handles POST /auth/logout: the token's id is revoked until
// its natural expiry and the session cookie is cleared.
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := middleware.ContextLogger(c)

	claims := middleware.ContextClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ttl := time.Duration(0)
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := h.revocations.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
		logger.Error("Revocation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}

	h.clearSessionCookie(c)
	logger.Info("Logout", zap.String("username", claims.Username))
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.tokens.TTL().Seconds())
	c.SetCookie(h.cookie.Name, token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
}
