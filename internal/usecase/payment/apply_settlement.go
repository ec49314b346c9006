package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/notify"
	provider "github.com/BruksfildServices01/studio-scheduler/internal/payment"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

// ======================================================
// PORTS
// ======================================================

type EventVerifier interface {
	Verify(payload []byte, signature string) (*provider.SettlementEvent, error)
}

// EventDeduper short-circuits provider redeliveries before the database is
// touched. Events are recorded only after their settlement committed, so a
// failed attempt is always retried on redelivery.
type EventDeduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID string) error
}

// ======================================================
// OUTCOME
// ======================================================

type Outcome string

const (
	OutcomeIgnored          Outcome = "ignored"
	OutcomeDuplicate        Outcome = "duplicate"
	OutcomeAnomaly          Outcome = "anomaly"
	OutcomeOrderPaid        Outcome = "order_paid"
	OutcomeOrderAlreadyPaid Outcome = "order_already_paid"
	OutcomeBookingConfirmed Outcome = "booking_confirmed"
	OutcomeBookingAlready   Outcome = "booking_already_confirmed"
)

// ======================================================
// USE CASE
// ======================================================

type ApplySettlement struct {
	repo     domain.Repository
	verifier EventVerifier
	deduper  EventDeduper
	notifier notify.Notifier
	currency string
	audit    *audit.Dispatcher
	log      *logger.Logger
}

// NewApplySettlement wires the settlement path. deduper may be nil.
func NewApplySettlement(
	repo domain.Repository,
	verifier EventVerifier,
	deduper EventDeduper,
	notifier notify.Notifier,
	currency string,
	audit *audit.Dispatcher,
	log *logger.Logger,
) *ApplySettlement {
	return &ApplySettlement{
		repo:     repo,
		verifier: verifier,
		deduper:  deduper,
		notifier: notifier,
		currency: currency,
		audit:    audit,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute applies a signed provider callback. It is the only path that moves
// bookings from pending to confirmed. Anything that cannot be acted on is
// acknowledged (nil error) and logged; only signature failures and store
// errors are returned.
func (uc *ApplySettlement) Execute(
	ctx context.Context,
	payload []byte,
	signature string,
) (Outcome, error) {

	// --------------------------------------------------
	// 1️⃣ Signature
	// --------------------------------------------------
	ev, err := uc.verifier.Verify(payload, signature)
	if err != nil {
		uc.log.LogSecurity("webhook_rejected", err.Error())
		return "", err
	}

	if ev.Type != provider.EventCheckoutCompleted {
		uc.log.Debug("WEBHOOK", "ignoring event type "+ev.Type)
		return OutcomeIgnored, nil
	}

	// --------------------------------------------------
	// 2️⃣ Redelivery
	// --------------------------------------------------
	if uc.deduper != nil && ev.EventID != "" {
		seen, err := uc.deduper.Seen(ctx, ev.EventID)
		switch {
		case err != nil:
			uc.log.Warn("WEBHOOK", fmt.Sprintf("event store unavailable, settling %s anyway: %v", ev.EventID, err))
		case seen:
			uc.log.Info("WEBHOOK", "duplicate delivery of "+ev.EventID)
			return OutcomeDuplicate, nil
		}
	}

	// --------------------------------------------------
	// 3️⃣ Settle
	// --------------------------------------------------
	var (
		outcome Outcome
		note    *notify.BookingConfirmed
	)

	switch {
	case ev.OrderID != nil:
		outcome, note, err = uc.settleOrder(ctx, *ev.OrderID, ev.PaymentIntentID)
	case ev.BookingID != nil:
		outcome, note, err = uc.settleBooking(ctx, *ev.BookingID, ev.PaymentIntentID)
	default:
		uc.log.Warn("WEBHOOK", fmt.Sprintf("event %s (session %s) carries no order_id or booking_id", ev.EventID, ev.SessionID))
		outcome = OutcomeAnomaly
	}

	if err != nil {
		return "", err
	}

	uc.remember(ctx, ev.EventID)

	// --------------------------------------------------
	// 4️⃣ Notify
	// --------------------------------------------------
	if note != nil {
		uc.publish(*note)
	}

	return outcome, nil
}

// ------------------------------------------------------
// Order path
// ------------------------------------------------------

func (uc *ApplySettlement) settleOrder(
	ctx context.Context,
	orderID uint,
	paymentIntentID string,
) (Outcome, *notify.BookingConfirmed, error) {

	var (
		order     *models.Order
		confirmed int64
		outcome   Outcome
	)

	now := timezone.Now().UTC()

	err := uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {
		var err error
		order, err = tx.GetOrder(ctx, orderID, true)
		if err != nil {
			if httperr.KindOf(err) == httperr.KindNotFound {
				uc.log.Warn("WEBHOOK", fmt.Sprintf("order %d not found, acknowledging", orderID))
				outcome = OutcomeAnomaly
				return nil
			}
			return err
		}

		changed, err := domain.MarkPaid(order, paymentIntentID, now)
		if err != nil {
			uc.log.Warn("WEBHOOK", fmt.Sprintf("order %d is %s, payment %s left unapplied", order.ID, order.Status, paymentIntentID))
			outcome = OutcomeAnomaly
			return nil
		}
		if !changed {
			outcome = OutcomeOrderAlreadyPaid
			return nil
		}

		if err := tx.UpdateOrder(ctx, order); err != nil {
			return err
		}

		confirmed, err = tx.ConfirmPendingOrderBookings(ctx, order.ID, paymentIntentID, now)
		if err != nil {
			return err
		}

		outcome = OutcomeOrderPaid
		return nil
	})
	if err != nil || outcome != OutcomeOrderPaid {
		return outcome, nil, err
	}

	uc.log.LogOrder("paid", order.ID, fmt.Sprintf("%d bookings confirmed", confirmed))

	uc.audit.Dispatch(audit.Event{
		StudioID: order.StudioID,
		Action:   "order_paid",
		Entity:   "order",
		EntityID: &order.ID,
		Metadata: map[string]any{
			"payment_intent_id":  paymentIntentID,
			"bookings_confirmed": confirmed,
		},
	})

	return outcome, uc.orderNotification(ctx, order, now), nil
}

func (uc *ApplySettlement) orderNotification(
	ctx context.Context,
	order *models.Order,
	now time.Time,
) *notify.BookingConfirmed {

	note := &notify.BookingConfirmed{
		StudioID:    order.StudioID,
		OrderID:     &order.ID,
		GuestName:   order.GuestName,
		GuestEmail:  order.GuestEmail,
		AmountCents: order.TotalAmountCents,
		Currency:    order.Currency,
		PaymentRef:  order.PaymentIntentID,
		ConfirmedAt: now,
	}

	if name, err := uc.repo.GetServiceName(ctx, order.ServiceID); err == nil {
		note.ServiceName = name
	}

	if bookings, err := uc.repo.ListOrderBookings(ctx, order.ID); err == nil {
		for _, b := range bookings {
			if b.Status == string(domain.StatusConfirmed) {
				note.BookingIDs = append(note.BookingIDs, b.ID)
			}
		}
	}

	return note
}

// ------------------------------------------------------
// Single booking path
// ------------------------------------------------------

func (uc *ApplySettlement) settleBooking(
	ctx context.Context,
	bookingID uint,
	paymentIntentID string,
) (Outcome, *notify.BookingConfirmed, error) {

	var (
		b       *models.Booking
		slot    *models.Slot
		outcome Outcome
	)

	now := timezone.Now().UTC()

	err := uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBooking(ctx, bookingID, true)
		if err != nil {
			if httperr.KindOf(err) == httperr.KindNotFound {
				uc.log.Warn("WEBHOOK", fmt.Sprintf("booking %d not found, acknowledging", bookingID))
				outcome = OutcomeAnomaly
				return nil
			}
			return err
		}

		changed, err := domain.Confirm(b, paymentIntentID, now)
		if err != nil {
			uc.log.Warn("WEBHOOK", fmt.Sprintf("booking %d is %s, payment %s left unapplied", b.ID, b.Status, paymentIntentID))
			outcome = OutcomeAnomaly
			return nil
		}
		if !changed {
			outcome = OutcomeBookingAlready
			return nil
		}

		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		slot, err = tx.GetSlot(ctx, b.SlotID, false)
		if err != nil {
			return err
		}

		outcome = OutcomeBookingConfirmed
		return nil
	})
	if err != nil || outcome != OutcomeBookingConfirmed {
		return outcome, nil, err
	}

	uc.log.Info("BOOKING", fmt.Sprintf("booking %d confirmed by payment %s", b.ID, paymentIntentID))

	uc.audit.Dispatch(audit.Event{
		StudioID: slot.StudioID,
		Action:   "booking_paid",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"payment_intent_id": paymentIntentID},
	})

	var amount int64
	if b.UnitPriceCents != nil {
		amount = *b.UnitPriceCents
	}

	return outcome, &notify.BookingConfirmed{
		StudioID:    slot.StudioID,
		BookingIDs:  []uint{b.ID},
		ServiceName: slot.Title,
		GuestName:   b.GuestName,
		GuestEmail:  b.GuestEmail,
		AmountCents: amount,
		Currency:    uc.currency,
		PaymentRef:  paymentIntentID,
		ConfirmedAt: now,
	}, nil
}

// remember records a settled event. The caller may already have gone away,
// so the write is detached from its cancellation.
func (uc *ApplySettlement) remember(ctx context.Context, eventID string) {
	if uc.deduper == nil || eventID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := uc.deduper.MarkProcessed(ctx, eventID); err != nil {
		uc.log.Warn("WEBHOOK", "could not record event "+eventID+": "+err.Error())
	}
}

// publish never blocks the callback and never fails it.
func (uc *ApplySettlement) publish(note notify.BookingConfirmed) {
	if uc.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := uc.notifier.BookingConfirmed(ctx, note); err != nil {
			uc.log.Warn("NOTIFY", "booking.confirmed not published: "+err.Error())
		}
	}()
}
