package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/everpayapp/everpay-frontend/internal/middleware"
	"github.com/everpayapp/everpay-frontend/internal/proxy"
	"github.com/everpayapp/everpay-frontend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const stripeSignatureHeader = "Stripe-Signature"

// WebhookHandler verifies signed payment events and relays them to the
// backend. Verification happens here, at the public edge, so the
// backend only ever sees authenticated events.
type WebhookHandler struct {
	signatures *services.SignatureService
	forwarder  *proxy.Forwarder
}

func NewWebhookHandler(signatures *services.SignatureService, forwarder *proxy.Forwarder) *WebhookHandler {
	return &WebhookHandler{
		signatures: signatures,
		forwarder:  forwarder,
	}
}

// HandleStripe serves POST /webhooks/stripe. The signature is checked
// against the raw body before anything is forwarded; the backend's
// normalized response is mirrored on success.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	logger := middleware.ContextLogger(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	header := c.GetHeader(stripeSignatureHeader)
	if err := h.signatures.Verify(body, header, time.Now()); err != nil {
		switch {
		case errors.Is(err, services.ErrMalformedSignature):
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed signature header"})
		case errors.Is(err, services.ErrStaleTimestamp):
			logger.Warn("Webhook timestamp outside tolerance")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "signature timestamp outside tolerance"})
		default:
			logger.Warn("Webhook signature rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		}
		return
	}

	result, err := h.forwarder.ForwardRaw(c.Request.Context(), "webhooks/stripe", body)
	if err != nil {
		logger.Error("Webhook delivery failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to deliver webhook"})
		return
	}

	c.JSON(result.Status, result.Body)
}
