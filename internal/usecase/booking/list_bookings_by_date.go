package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

type ListBookingsByDate struct {
	repo domain.Repository
}

func NewListBookingsByDate(
	repo domain.Repository,
) *ListBookingsByDate {
	return &ListBookingsByDate{
		repo: repo,
	}
}

// Execute lists the bookings of every slot starting on date, a calendar day
// in the studio's timezone.
func (uc *ListBookingsByDate) Execute(
	ctx context.Context,
	studioID uint,
	date time.Time,
) ([]domain.BookingView, error) {

	studio, err := uc.repo.GetStudio(ctx, studioID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(studio.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.AddDate(0, 0, 1)

	views, err := uc.repo.ListBookingsForPeriod(
		ctx,
		studioID,
		start.UTC(),
		end.UTC(),
	)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []domain.BookingView{}
	}
	return views, nil
}
