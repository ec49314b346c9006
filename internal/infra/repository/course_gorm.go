package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domainBooking "github.com/BruksfildServices01/studio-scheduler/internal/domain/booking"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type CourseGormRepository struct {
	db *gorm.DB
}

func NewCourseGormRepository(db *gorm.DB) *CourseGormRepository {
	return &CourseGormRepository{db: db}
}

func (r *CourseGormRepository) WithinTransaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CourseGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *CourseGormRepository) GetStudio(
	ctx context.Context,
	studioID uint,
) (*models.Studio, error) {

	var studio models.Studio
	if err := r.db.WithContext(ctx).First(&studio, studioID).Error; err != nil {
		return nil, notFound(err, "studio_not_found", "studio not found")
	}
	return &studio, nil
}

func (r *CourseGormRepository) GetServiceForStudio(
	ctx context.Context,
	studioID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND studio_id = ?", serviceID, studioID).
		First(&svc).Error; err != nil {
		return nil, notFound(err, "service_not_found", "service not found for this studio")
	}
	return &svc, nil
}

func (r *CourseGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, serviceID).Error; err != nil {
		return nil, notFound(err, "service_not_found", "service not found")
	}
	return &svc, nil
}

func (r *CourseGormRepository) GetSchedule(
	ctx context.Context,
	serviceID uint,
	scheduleID uint,
) (*models.Schedule, error) {

	var s models.Schedule
	if err := r.db.WithContext(ctx).
		Where("id = ? AND service_id = ?", scheduleID, serviceID).
		First(&s).Error; err != nil {
		return nil, notFound(err, "schedule_not_found", "schedule not found for this service")
	}
	return &s, nil
}

func (r *CourseGormRepository) LockService(
	ctx context.Context,
	serviceID uint,
) error {

	var svc models.Service
	if err := lockFor(r.db.WithContext(ctx), true).
		Select("id").
		First(&svc, serviceID).Error; err != nil {
		return notFound(err, "service_not_found", "service not found")
	}
	return nil
}

// --------------------------------------------------
// Occurrences
// --------------------------------------------------

func (r *CourseGormRepository) ListSlotsInEnvelope(
	ctx context.Context,
	studioID uint,
	serviceID uint,
	from time.Time,
	to time.Time,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where(
			"studio_id = ? AND service_id = ? AND start_time < ? AND end_time > ?",
			studioID,
			serviceID,
			to,
			from,
		).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *CourseGormRepository) CreateSlots(
	ctx context.Context,
	slots []models.Slot,
) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

type slotCounts struct {
	SlotID    uint
	Confirmed int
	Pending   int
}

func (r *CourseGormRepository) ListOccurrenceCapacity(
	ctx context.Context,
	serviceID uint,
	from *time.Time,
	forUpdate bool,
) ([]domain.OccurrenceCapacity, error) {

	q := r.db.WithContext(ctx).
		Where(
			"service_id = ? AND status = ? AND is_active = ?",
			serviceID,
			domainBooking.SlotActive,
			true,
		)
	if from != nil {
		q = q.Where("start_time >= ?", *from)
	}

	var slots []models.Slot
	if err := lockFor(q, forUpdate).
		Order("start_time ASC").
		Order("id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	if len(slots) == 0 {
		return []domain.OccurrenceCapacity{}, nil
	}

	ids := make([]uint, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}

	var rows []slotCounts
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select(
			"slot_id, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS confirmed, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS pending",
			string(domainBooking.StatusConfirmed),
			string(domainBooking.StatusPending),
		).
		Where("slot_id IN ? AND status <> ?", ids, string(domainBooking.StatusCancelled)).
		Group("slot_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]slotCounts, len(rows))
	for _, row := range rows {
		counts[row.SlotID] = row
	}

	out := make([]domain.OccurrenceCapacity, 0, len(slots))
	for _, s := range slots {
		c := counts[s.ID]
		out = append(out, domain.OccurrenceCapacity{
			SlotID:         s.ID,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			MaxCapacity:    s.MaxCapacity,
			PriceCents:     s.PriceCents,
			ConfirmedCount: c.Confirmed,
			PendingCount:   c.Pending,
		})
	}
	return out, nil
}

// --------------------------------------------------
// Orders
// --------------------------------------------------

func (r *CourseGormRepository) FindOrderByIdempotencyKey(
	ctx context.Context,
	serviceID uint,
	key string,
) (*models.Order, error) {

	var order models.Order
	err := r.db.WithContext(ctx).
		Where("service_id = ? AND idempotency_key = ?", serviceID, key).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *CourseGormRepository) CreateOrder(
	ctx context.Context,
	order *models.Order,
) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *CourseGormRepository) CreateBookings(
	ctx context.Context,
	bookings []models.Booking,
) error {
	if len(bookings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&bookings).Error
}

func (r *CourseGormRepository) ListOrderBookings(
	ctx context.Context,
	orderID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*CourseGormRepository)(nil)
