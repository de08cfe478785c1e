package handlers

import (
	"net/http"
	"time"

	"github.com/everpayapp/everpay-frontend/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var startTime = time.Now()

// getStartTime returns the start time of the application
func getStartTime() time.Time {
	return startTime
}

// StatusResponse represents the status endpoint response
type StatusResponse struct {
	Status        string      `json:"status"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	Version       string      `json:"version"`
	Session       SessionInfo `json:"session"`
	Backend       BackendInfo `json:"backend"`
}

// SessionInfo describes how session tokens are issued.
type SessionInfo struct {
	Algorithm  string `json:"algorithm"`
	TTLSeconds int64  `json:"ttl_seconds"`
	CookieName string `json:"cookie_name"`
}

// BackendInfo identifies the upstream the proxy forwards to.
type BackendInfo struct {
	Origin string `json:"origin"`
}

// StatusHandler reports service health and configuration summary.
type StatusHandler struct {
	version    string
	tokenTTL   time.Duration
	cookieName string
	origin     string
}

func NewStatusHandler(version string, tokenTTL time.Duration, cookieName, origin string) *StatusHandler {
	return &StatusHandler{
		version:    version,
		tokenTTL:   tokenTTL,
		cookieName: cookieName,
		origin:     origin,
	}
}

// Handle serves GET /status.
func (h *StatusHandler) Handle(c *gin.Context) {
	logger := middleware.ContextLogger(c)
	response := StatusResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(getStartTime()).Seconds()),
		Version:       h.version,
		Session: SessionInfo{
			Algorithm:  "HS256",
			TTLSeconds: int64(h.tokenTTL.Seconds()),
			CookieName: h.cookieName,
		},
		Backend: BackendInfo{
			Origin: h.origin,
		},
	}
	logger.Info("Status endpoint checked", zap.Int64("uptime_seconds", response.UptimeSeconds))
	c.JSON(http.StatusOK, response)
}
