package payment

import (
	"context"
	"strconv"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	provider "github.com/BruksfildServices01/studio-scheduler/internal/payment"
)

type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, req provider.CheckoutRequest) (*provider.CheckoutSession, error)
}

// ======================================================
// ORDER
// ======================================================

type CreateOrderCheckout struct {
	repo    domain.Repository
	gateway CheckoutGateway
	audit   *audit.Dispatcher
}

func NewCreateOrderCheckout(
	repo domain.Repository,
	gateway CheckoutGateway,
	audit *audit.Dispatcher,
) *CreateOrderCheckout {
	return &CreateOrderCheckout{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
	}
}

func (uc *CreateOrderCheckout) Execute(
	ctx context.Context,
	orderID uint,
) (*provider.CheckoutSession, error) {

	order, err := uc.repo.GetOrder(ctx, orderID, false)
	if err != nil {
		return nil, err
	}
	if domain.OrderStatus(order.Status) != domain.OrderPending {
		return nil, httperr.ConflictErr("order_not_pending", "order is "+order.Status, nil)
	}
	if order.TotalAmountCents <= 0 {
		return nil, httperr.Invalid("nothing_to_pay", "order total must be positive")
	}

	name, err := uc.repo.GetServiceName(ctx, order.ServiceID)
	if err != nil {
		return nil, err
	}

	session, err := uc.gateway.CreateCheckoutSession(ctx, provider.CheckoutRequest{
		AmountCents:   order.TotalAmountCents,
		Currency:      order.Currency,
		Description:   "Course: " + name,
		CustomerEmail: order.GuestEmail,
		Metadata:      map[string]string{"order_id": strconv.FormatUint(uint64(order.ID), 10)},
	})
	if err != nil {
		return nil, err
	}

	order.CheckoutSessionID = session.ID
	if err := uc.repo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: order.StudioID,
		UserID:   order.UserID,
		Action:   "order_checkout_started",
		Entity:   "order",
		EntityID: &order.ID,
		Metadata: map[string]any{"session_id": session.ID},
	})

	return session, nil
}

// ======================================================
// SINGLE BOOKING
// ======================================================

type CreateBookingCheckout struct {
	repo     domain.Repository
	gateway  CheckoutGateway
	currency string
	audit    *audit.Dispatcher
}

func NewCreateBookingCheckout(
	repo domain.Repository,
	gateway CheckoutGateway,
	currency string,
	audit *audit.Dispatcher,
) *CreateBookingCheckout {
	return &CreateBookingCheckout{
		repo:     repo,
		gateway:  gateway,
		currency: currency,
		audit:    audit,
	}
}

func (uc *CreateBookingCheckout) Execute(
	ctx context.Context,
	bookingID uint,
) (*provider.CheckoutSession, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID, false)
	if err != nil {
		return nil, err
	}
	if b.OrderID != nil {
		return nil, httperr.ConflictErr("booking_part_of_order", "pay for course bookings through their order", nil)
	}
	if domain.Status(b.Status) != domain.StatusPending {
		return nil, httperr.ConflictErr("booking_not_pending", "booking is "+b.Status, nil)
	}
	if b.CheckoutSessionID != "" {
		return nil, httperr.ConflictErr("checkout_already_started", "booking already has a checkout session", nil)
	}

	slot, err := uc.repo.GetSlot(ctx, b.SlotID, false)
	if err != nil {
		return nil, err
	}
	if slot.PriceCents <= 0 {
		return nil, httperr.Invalid("nothing_to_pay", "slot price must be positive")
	}

	session, err := uc.gateway.CreateCheckoutSession(ctx, provider.CheckoutRequest{
		AmountCents:   slot.PriceCents,
		Currency:      uc.currency,
		Description:   slot.Title + " " + slot.StartTime.Format("2006-01-02 15:04"),
		CustomerEmail: b.GuestEmail,
		Metadata:      map[string]string{"booking_id": strconv.FormatUint(uint64(b.ID), 10)},
	})
	if err != nil {
		return nil, err
	}

	b.CheckoutSessionID = session.ID
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: slot.StudioID,
		UserID:   b.UserID,
		Action:   "booking_checkout_started",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"session_id": session.ID},
	})

	return session, nil
}
