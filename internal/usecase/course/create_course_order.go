package course

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domainBooking "github.com/BruksfildServices01/studio-scheduler/internal/domain/booking"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateCourseOrderInput struct {
	ServiceID uint

	// Either UserID or a guest name and email identify the purchaser.
	UserID     *uint
	GuestName  string
	GuestEmail string
	GuestPhone string

	IdempotencyKey string
}

type CreateCourseOrderResult struct {
	Order        *models.Order
	Bookings     []models.Booking
	Availability *domain.Decision

	// Replayed is set when the idempotency key matched an earlier order;
	// Availability is nil in that case.
	Replayed bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateCourseOrder struct {
	repo     domain.Repository
	currency string
	audit    *audit.Dispatcher
	log      *logger.Logger
}

func NewCreateCourseOrder(
	repo domain.Repository,
	currency string,
	audit *audit.Dispatcher,
	log *logger.Logger,
) *CreateCourseOrder {
	return &CreateCourseOrder{
		repo:     repo,
		currency: currency,
		audit:    audit,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateCourseOrder) Execute(
	ctx context.Context,
	in CreateCourseOrderInput,
) (*CreateCourseOrderResult, error) {

	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)

	if in.UserID == nil && (in.GuestName == "" || in.GuestEmail == "") {
		return nil, httperr.Invalid("missing_purchaser", "guest name and email are required without a signed-in user")
	}
	if len(in.IdempotencyKey) > 100 {
		return nil, httperr.Invalid("invalid_idempotency_key", "idempotency key is longer than 100 characters")
	}

	var result *CreateCourseOrderResult

	err := uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1️⃣ Service
		// --------------------------------------------------
		svc, err := tx.GetService(ctx, in.ServiceID)
		if err != nil {
			return err
		}
		if err := ensurePurchasable(svc); err != nil {
			return err
		}

		// --------------------------------------------------
		// 2️⃣ Lock occurrences (serializes purchasers)
		// --------------------------------------------------
		occ, err := tx.ListOccurrenceCapacity(ctx, svc.ID, nil, true)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Replay
		// --------------------------------------------------
		if in.IdempotencyKey != "" {
			existing, err := tx.FindOrderByIdempotencyKey(ctx, svc.ID, in.IdempotencyKey)
			if err != nil {
				return err
			}
			if existing != nil {
				bookings, err := tx.ListOrderBookings(ctx, existing.ID)
				if err != nil {
					return err
				}
				result = &CreateCourseOrderResult{
					Order:    existing,
					Bookings: bookings,
					Replayed: true,
				}
				return nil
			}
		}

		// --------------------------------------------------
		// 4️⃣ Decision under lock
		// --------------------------------------------------
		decision := domain.Decide(occ, domain.LimitsOf(svc))
		if !decision.CanBook {
			return httperr.ConflictErr("course_unavailable", decision.Message, decision)
		}

		// --------------------------------------------------
		// 5️⃣ Pricing
		// --------------------------------------------------
		total := domain.CourseTotal(svc, len(occ))
		shares, err := domain.SplitPrice(total, len(occ))
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 6️⃣ Persist order + bookings
		// --------------------------------------------------
		order := &models.Order{
			StudioID:         svc.StudioID,
			ServiceID:        svc.ID,
			UserID:           in.UserID,
			GuestName:        in.GuestName,
			GuestEmail:       in.GuestEmail,
			GuestPhone:       in.GuestPhone,
			TotalAmountCents: total,
			Currency:         uc.currency,
			Status:           string(domainBooking.OrderPending),
		}
		if in.IdempotencyKey != "" {
			key := in.IdempotencyKey
			order.IdempotencyKey = &key
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		serviceID := svc.ID
		orderID := order.ID

		bookings := make([]models.Booking, len(occ))
		for i, o := range occ {
			price := shares[i]
			bookings[i] = models.Booking{
				SlotID:         o.SlotID,
				UserID:         in.UserID,
				GuestName:      in.GuestName,
				GuestEmail:     in.GuestEmail,
				GuestPhone:     in.GuestPhone,
				Status:         string(domainBooking.InitialStatus()),
				BookingType:    string(domainBooking.TypeCourse),
				ServiceID:      &serviceID,
				OrderID:        &orderID,
				UnitPriceCents: &price,
			}
		}
		if err := tx.CreateBookings(ctx, bookings); err != nil {
			return err
		}

		result = &CreateCourseOrderResult{
			Order:        order,
			Bookings:     bookings,
			Availability: &decision,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Replayed {
		uc.log.LogOrder("replay", result.Order.ID, "idempotency key matched an existing order")
		return result, nil
	}

	// --------------------------------------------------
	// 7️⃣ Log + audit
	// --------------------------------------------------
	uc.log.LogOrder(
		"create",
		result.Order.ID,
		fmt.Sprintf("%d bookings, total %d %s", len(result.Bookings), result.Order.TotalAmountCents, result.Order.Currency),
	)

	uc.audit.Dispatch(audit.Event{
		StudioID: result.Order.StudioID,
		UserID:   in.UserID,
		Action:   "course_order_created",
		Entity:   "order",
		EntityID: &result.Order.ID,
		Metadata: map[string]any{
			"service_id":       result.Order.ServiceID,
			"bookings":         len(result.Bookings),
			"total_cents":      result.Order.TotalAmountCents,
			"requires_warning": result.Availability.RequiresWarning,
		},
	})

	return result, nil
}
