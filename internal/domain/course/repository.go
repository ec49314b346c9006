package course

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type Repository interface {
	// WithinTransaction runs fn against a repository bound to one store
	// transaction. fn's error rolls everything back.
	WithinTransaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Catalog --------
	GetStudio(
		ctx context.Context,
		studioID uint,
	) (*models.Studio, error)

	GetServiceForStudio(
		ctx context.Context,
		studioID uint,
		serviceID uint,
	) (*models.Service, error)

	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	GetSchedule(
		ctx context.Context,
		serviceID uint,
		scheduleID uint,
	) (*models.Schedule, error)

	// LockService serializes occurrence generation for one service.
	LockService(
		ctx context.Context,
		serviceID uint,
	) error

	// -------- Occurrences --------
	ListSlotsInEnvelope(
		ctx context.Context,
		studioID uint,
		serviceID uint,
		from time.Time,
		to time.Time,
	) ([]models.Slot, error)

	CreateSlots(
		ctx context.Context,
		slots []models.Slot,
	) error

	// ListOccurrenceCapacity returns active occurrences of the service in
	// start order with their confirmed and pending counts. forUpdate locks
	// the occurrence rows until the surrounding transaction ends.
	ListOccurrenceCapacity(
		ctx context.Context,
		serviceID uint,
		from *time.Time,
		forUpdate bool,
	) ([]OccurrenceCapacity, error)

	// -------- Orders --------
	FindOrderByIdempotencyKey(
		ctx context.Context,
		serviceID uint,
		key string,
	) (*models.Order, error)

	CreateOrder(
		ctx context.Context,
		order *models.Order,
	) error

	CreateBookings(
		ctx context.Context,
		bookings []models.Booking,
	) error

	ListOrderBookings(
		ctx context.Context,
		orderID uint,
	) ([]models.Booking, error)
}
