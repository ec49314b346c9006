package booking

import "github.com/BruksfildServices01/studio-scheduler/internal/httperr"

// ===============================
// Booking Status / Type
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type Type string

const (
	TypeSingle Type = "single"
	TypeCourse Type = "course"
)

const PaymentStatusSucceeded = "succeeded"

// ===============================
// Order Status
// ===============================

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// ===============================
// Slot Status
// ===============================

const (
	SlotActive    = "active"
	SlotCancelled = "cancelled"
)

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current == StatusCancelled {
		return httperr.ErrBusiness("booking_already_cancelled")
	}
	return nil
}

// CanConfirm reports whether settlement may confirm a booking. A confirmed
// booking is reported as already settled so callers can treat it as a no-op.
func CanConfirm(current Status) (alreadyDone bool, err error) {
	switch current {
	case StatusConfirmed:
		return true, nil
	case StatusPending:
		return false, nil
	default:
		return false, httperr.ErrBusiness("invalid_state")
	}
}

func CanMarkPaid(current OrderStatus) (alreadyDone bool, err error) {
	switch current {
	case OrderPaid:
		return true, nil
	case OrderPending:
		return false, nil
	default:
		return false, httperr.ErrBusiness("invalid_state")
	}
}

func InitialStatus() Status {
	return StatusPending
}
