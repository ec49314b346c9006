package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	ucPayment "github.com/BruksfildServices01/studio-scheduler/internal/usecase/payment"
)

// Stripe signs payloads up to this size; larger bodies are rejected unread.
const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	settle *ucPayment.ApplySettlement
}

func NewWebhookHandler(settle *ucPayment.ApplySettlement) *WebhookHandler {
	return &WebhookHandler{settle: settle}
}

// Stripe receives the settlement callback. Any non-2xx answer makes the
// provider redeliver, so verified events are acknowledged even when nothing
// could be applied.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		httperr.BadRequest(c, "invalid_body", "could not read request body")
		return
	}

	outcome, err := h.settle.Execute(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "webhook_not_configured"):
			httperr.Write(c, http.StatusServiceUnavailable, "webhook_not_configured", "webhook secret is not configured")
		case httperr.IsBusiness(err, "invalid_signature"):
			httperr.BadRequest(c, "invalid_signature", "webhook signature verification failed")
		case httperr.KindOf(err) == httperr.KindInvalid:
			httperr.FromError(c, err)
		default:
			httperr.Internal(c, "settlement_failed", "could not apply settlement")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": true,
		"outcome":  outcome,
	})
}
