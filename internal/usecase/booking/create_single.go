package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

type CreateSingleBookingInput struct {
	SlotID uint

	UserID     *uint
	GuestName  string
	GuestEmail string
	GuestPhone string
}

type CreateSingleBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *logger.Logger
}

func NewCreateSingleBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	log *logger.Logger,
) *CreateSingleBooking {
	return &CreateSingleBooking{
		repo:  repo,
		audit: audit,
		log:   log,
	}
}

// Execute reserves one pending seat in a standalone slot. The seat counts
// against capacity until the booking is cancelled.
func (uc *CreateSingleBooking) Execute(
	ctx context.Context,
	in CreateSingleBookingInput,
) (*models.Booking, error) {

	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)

	if in.UserID == nil && (in.GuestName == "" || in.GuestEmail == "") {
		return nil, httperr.Invalid("missing_purchaser", "guest name and email are required without a signed-in user")
	}

	var (
		booking *models.Booking
		slot    *models.Slot
	)

	err := uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1️⃣ Lock slot
		// --------------------------------------------------
		var err error
		slot, err = tx.GetSlot(ctx, in.SlotID, true)
		if err != nil {
			return err
		}

		if !domain.SlotIsBookable(slot, timezone.Now()) {
			return httperr.ConflictErr("slot_unavailable", "slot is cancelled or already started", nil)
		}

		// --------------------------------------------------
		// 2️⃣ Seats
		// --------------------------------------------------
		taken, err := tx.CountActiveBookings(ctx, slot.ID)
		if err != nil {
			return err
		}
		if taken >= int64(slot.MaxCapacity) {
			return httperr.ConflictErr("no_seats", "no seats left in this slot", map[string]any{
				"max_capacity": slot.MaxCapacity,
				"taken":        taken,
			})
		}

		// --------------------------------------------------
		// 3️⃣ Persist
		// --------------------------------------------------
		price := slot.PriceCents
		booking = &models.Booking{
			SlotID:         slot.ID,
			UserID:         in.UserID,
			GuestName:      in.GuestName,
			GuestEmail:     in.GuestEmail,
			GuestPhone:     in.GuestPhone,
			Status:         string(domain.InitialStatus()),
			BookingType:    string(domain.TypeSingle),
			ServiceID:      slot.ServiceID,
			UnitPriceCents: &price,
		}
		return tx.CreateBooking(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("BOOKING", fmt.Sprintf("booking %d created for slot %d", booking.ID, slot.ID))

	uc.audit.Dispatch(audit.Event{
		StudioID: slot.StudioID,
		UserID:   in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &booking.ID,
		Metadata: map[string]any{"slot_id": slot.ID},
	})

	return booking, nil
}
