package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type Repository interface {
	WithinTransaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	GetStudio(
		ctx context.Context,
		studioID uint,
	) (*models.Studio, error)

	// -------- Slot --------
	GetSlot(
		ctx context.Context,
		slotID uint,
		forUpdate bool,
	) (*models.Slot, error)

	CountActiveBookings(
		ctx context.Context,
		slotID uint,
	) (int64, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		bookingID uint,
		forUpdate bool,
	) (*models.Booking, error)

	GetBookingForStudio(
		ctx context.Context,
		studioID uint,
		bookingID uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookingsForPeriod(
		ctx context.Context,
		studioID uint,
		start time.Time,
		end time.Time,
	) ([]BookingView, error)

	// -------- Order --------
	GetOrder(
		ctx context.Context,
		orderID uint,
		forUpdate bool,
	) (*models.Order, error)

	UpdateOrder(
		ctx context.Context,
		o *models.Order,
	) error

	// ConfirmPendingOrderBookings moves every pending booking of the order to
	// confirmed and returns how many rows changed.
	ConfirmPendingOrderBookings(
		ctx context.Context,
		orderID uint,
		paymentIntentID string,
		now time.Time,
	) (int64, error)

	ListOrderBookings(
		ctx context.Context,
		orderID uint,
	) ([]models.Booking, error)

	GetServiceName(
		ctx context.Context,
		serviceID uint,
	) (string, error)
}

// BookingView is the owner calendar row for one booking.
type BookingView struct {
	ID          uint      `json:"id"`
	SlotID      uint      `json:"slot_id"`
	SlotTitle   string    `json:"slot_title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	BookingType string    `json:"booking_type"`
	GuestName   string    `json:"guest_name"`
	GuestEmail  string    `json:"guest_email"`
	OrderID     *uint     `json:"order_id"`
}
