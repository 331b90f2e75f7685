// Package handler provides the HTTP handler for GitHub webhook deliveries.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v66/github"
	"go.uber.org/zap"

	"github.com/prscope/prscope/internal/webhook/service"
)

// Handler handles POST /webhooks/github requests.
type Handler struct {
	service service.Service
	secret  string
	logger  *zap.SugaredLogger
}

// New creates a new webhook handler instance.
func New(svc service.Service, secret string, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, secret: secret, logger: logger}
}

// Handle verifies the delivery signature, then dispatches the event. The
// response is 200 {"success":true} whenever dispatch succeeded, regardless
// of which reconciler branch ran.
func (h *Handler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	// Verification is skipped when no secret is configured or the sender
	// supplied no signature; production deployments must set the secret.
	signature := c.GetHeader(github.SHA256SignatureHeader)
	if h.secret != "" && signature != "" {
		if err := github.ValidateSignature(signature, body, []byte(h.secret)); err != nil {
			h.logger.Warnw("webhook signature mismatch", "error", err)
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
			return
		}
	}

	if !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	eventType := c.GetHeader(github.EventTypeHeader)
	if err := h.service.Handle(c.Request.Context(), eventType, body); err != nil {
		h.logger.Errorw("webhook dispatch failed", "event", eventType, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
