package models

import "time"

type Order struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	StudioID  uint  `gorm:"index;not null" json:"studio_id"`
	ServiceID uint  `gorm:"index;not null;uniqueIndex:idx_orders_service_idem" json:"service_id"`
	UserID    *uint `gorm:"index" json:"user_id"`

	GuestName  string `gorm:"size:100" json:"guest_name"`
	GuestEmail string `gorm:"size:100" json:"guest_email"`
	GuestPhone string `gorm:"size:20" json:"guest_phone"`

	TotalAmountCents int64  `gorm:"not null" json:"total_amount_cents"`
	Currency         string `gorm:"size:3;not null" json:"currency"`
	Status           string `gorm:"size:20;not null;index" json:"status"`

	CheckoutSessionID string `gorm:"size:255;index" json:"checkout_session_id"`
	PaymentIntentID   string `gorm:"size:255" json:"payment_intent_id"`

	// IdempotencyKey is unique per service; NULL for requests that sent none.
	IdempotencyKey *string `gorm:"size:100;uniqueIndex:idx_orders_service_idem" json:"-"`

	PaidAt *time.Time `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
