package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
)

type CheckoutRequest struct {
	AmountCents   int64
	Currency      string
	Description   string
	CustomerEmail string

	// Metadata is copied onto the session and its payment intent so the
	// settlement callback can find the order or booking again.
	Metadata map[string]string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// StripeGateway opens hosted checkout sessions.
type StripeGateway struct {
	client     *client.API
	successURL string
	cancelURL  string
	log        *logger.Logger
}

func NewStripeGateway(
	secretKey string,
	frontendURL string,
	log *logger.Logger,
) *StripeGateway {
	base := strings.TrimRight(frontendURL, "/")

	log.Info("STRIPE", "Stripe client initialized")
	return &StripeGateway{
		client:     client.New(secretKey, nil),
		successURL: base + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  base + "/checkout/cancel",
		log:        log,
	}
}

func (g *StripeGateway) CreateCheckoutSession(
	ctx context.Context,
	req CheckoutRequest,
) (*CheckoutSession, error) {

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	s, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		g.log.Error("STRIPE", fmt.Sprintf("checkout session failed: %v", err))
		return nil, httperr.External("payment_provider_error", "could not create checkout session", err)
	}

	g.log.Info("STRIPE", fmt.Sprintf("checkout session %s created (%d %s)", s.ID, req.AmountCents, req.Currency))
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}
