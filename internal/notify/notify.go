// Package notify publishes booking lifecycle events for downstream consumers
// such as the mailer.
package notify

import (
	"context"
	"time"
)

const RoutingBookingConfirmed = "booking.confirmed"

// BookingConfirmed is emitted once per settled order or single booking.
type BookingConfirmed struct {
	StudioID    uint      `json:"studio_id"`
	OrderID     *uint     `json:"order_id,omitempty"`
	BookingIDs  []uint    `json:"booking_ids"`
	ServiceName string    `json:"service_name"`
	GuestName   string    `json:"guest_name"`
	GuestEmail  string    `json:"guest_email"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	PaymentRef  string    `json:"payment_ref"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, ev BookingConfirmed) error
}
