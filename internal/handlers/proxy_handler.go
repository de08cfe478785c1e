package handlers

import (
	"io"
	"net/http"

	"github.com/everpayapp/everpay-frontend/internal/middleware"
	"github.com/everpayapp/everpay-frontend/internal/proxy"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProxyHandler exposes the catch-all route that forwards frontend API
// calls to the backend.
type ProxyHandler struct {
	forwarder *proxy.Forwarder
}

func NewProxyHandler(forwarder *proxy.Forwarder) *ProxyHandler {
	return &ProxyHandler{forwarder: forwarder}
}

// Handle serves GET|POST /api/*path. Every failure inside the forward
// (network, malformed inbound body, undecodable backend JSON) collapses
// to the blanket 500 payload; backend statuses are otherwise mirrored.
func (h *ProxyHandler) Handle(c *gin.Context) {
	logger := middleware.ContextLogger(c)

	var body []byte
	if c.Request.Method == http.MethodPost && c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Error("Failed to read proxy request body", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy failed"})
			return
		}
	}

	result, err := h.forwarder.Forward(
		c.Request.Context(),
		c.Request.Method,
		c.Param("path"),
		c.Request.URL.RawQuery,
		body,
	)
	if err != nil {
		logger.Warn("Proxy forward failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Param("path")),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy failed"})
		return
	}

	c.JSON(result.Status, result.Body)
}
