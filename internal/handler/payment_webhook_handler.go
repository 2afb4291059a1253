package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"travelkang/config"
	"travelkang/internal/models"
	"travelkang/internal/repository"
	"travelkang/internal/service"
	"travelkang/pkg/logger"
	"travelkang/pkg/payment"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20 // provider payloads are small; cap at 1MB

// PaymentWebhookHandler receives provider callbacks and drives order
// reconciliation. It acknowledges everything it has durably handled with
// 200 so the provider stops redelivering, and returns 5xx only for
// transient failures worth a retry.
type PaymentWebhookHandler struct {
	cfg       *config.PaymentConfig
	engine    *service.ReconcileEngine
	auditRepo *repository.AuditLogRepository
}

func NewPaymentWebhookHandler(cfg *config.PaymentConfig, engine *service.ReconcileEngine, auditRepo *repository.AuditLogRepository) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{cfg: cfg, engine: engine, auditRepo: auditRepo}
}

func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	sig := c.GetHeader("Provider-Signature")
	if err := payment.VerifySignature(body, sig, h.cfg.WebhookSecret, h.cfg.SignatureTolerance, time.Now()); err != nil {
		logger.Warnf("webhook: signature rejected from %s: %v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	ev, err := payment.ParseEvent(body)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownEvent) {
			// Unhandled event types are acknowledged so the provider does
			// not keep retrying them.
			logger.Debugf("webhook: ignoring event type %s", ev.Type)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		logger.Warnf("webhook: malformed payload from %s: %v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		return
	}

	if err := h.engine.HandleEvent(ev); err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			// Well-signed but semantically broken. Retrying will not fix
			// it, so acknowledge after recording it.
			logger.Warnf("webhook: invalid event %s (%s): %v", ev.ID, ev.Type, err)
			h.audit(ev, "webhook_invalid", err.Error(), c)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		logger.Errorf("webhook: event %s (%s) failed: %v", ev.ID, ev.Type, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}

	h.audit(ev, "webhook_processed", "", c)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentWebhookHandler) audit(ev *payment.Event, action, detail string, c *gin.Context) {
	if h.auditRepo == nil {
		return
	}
	_ = h.auditRepo.Create(&models.AuditLog{
		Action:     action,
		Resource:   string(ev.Type),
		ResourceID: ev.ID,
		Detail:     detail,
		IP:         c.ClientIP(),
	})
}
