package models

import "time"

type Booking struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	SlotID uint  `gorm:"index;not null" json:"slot_id"`
	Slot   *Slot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID *uint `gorm:"index" json:"user_id"`

	GuestName  string `gorm:"size:100" json:"guest_name"`
	GuestEmail string `gorm:"size:100" json:"guest_email"`
	GuestPhone string `gorm:"size:20" json:"guest_phone"`

	Status      string `gorm:"size:20;not null;index" json:"status"`
	BookingType string `gorm:"size:20;not null" json:"booking_type"`

	ServiceID      *uint  `gorm:"index" json:"service_id"`
	OrderID        *uint  `gorm:"index" json:"order_id"`
	Order          *Order `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UnitPriceCents *int64 `json:"unit_price_cents"`

	CheckoutSessionID string `gorm:"size:255;index" json:"checkout_session_id"`
	PaymentIntentID   string `gorm:"size:255" json:"payment_intent_id"`
	PaymentStatus     string `gorm:"size:30" json:"payment_status"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
