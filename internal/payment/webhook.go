package payment

import (
	"encoding/json"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

const EventCheckoutCompleted = "checkout.session.completed"

// SettlementEvent is the part of a verified provider event the settlement
// path acts on. OrderID and BookingID come from session metadata and are nil
// when absent or unparsable.
type SettlementEvent struct {
	EventID         string
	Type            string
	SessionID       string
	PaymentIntentID string
	OrderID         *uint
	BookingID       *uint
}

type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify checks the Stripe-Signature header against the shared secret before
// anything in payload is trusted.
func (v *WebhookVerifier) Verify(payload []byte, signature string) (*SettlementEvent, error) {
	if v.secret == "" {
		return nil, httperr.External("webhook_not_configured", "webhook secret is not configured", nil)
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		v.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, httperr.External("invalid_signature", "webhook signature verification failed", err)
	}

	out := &SettlementEvent{
		EventID: event.ID,
		Type:    string(event.Type),
	}
	if out.Type != EventCheckoutCompleted || event.Data == nil {
		return out, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, httperr.Invalid("invalid_event_payload", "checkout session payload is malformed")
	}

	out.SessionID = session.ID
	if session.PaymentIntent != nil {
		out.PaymentIntentID = session.PaymentIntent.ID
	}
	out.OrderID = metadataID(session.Metadata, "order_id")
	out.BookingID = metadataID(session.Metadata, "booking_id")
	return out, nil
}

func metadataID(md map[string]string, key string) *uint {
	raw, ok := md[key]
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}
