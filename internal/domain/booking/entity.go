package booking

import (
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

// Confirm applies a settled payment to b. It returns false when b was already
// confirmed and nothing changed.
func Confirm(b *models.Booking, paymentIntentID string, now time.Time) (bool, error) {
	done, err := CanConfirm(Status(b.Status))
	if err != nil || done {
		return false, err
	}

	b.Status = string(StatusConfirmed)
	b.PaymentStatus = PaymentStatusSucceeded
	b.PaymentIntentID = paymentIntentID
	b.ConfirmedAt = &now
	return true, nil
}

func MarkPaid(o *models.Order, paymentIntentID string, now time.Time) (bool, error) {
	done, err := CanMarkPaid(OrderStatus(o.Status))
	if err != nil || done {
		return false, err
	}

	o.Status = string(OrderPaid)
	o.PaymentIntentID = paymentIntentID
	o.PaidAt = &now
	return true, nil
}

// SlotIsBookable reports whether a standalone slot accepts new bookings at now.
func SlotIsBookable(s *models.Slot, now time.Time) bool {
	return s.IsActive && s.Status == SlotActive && s.StartTime.After(now)
}
