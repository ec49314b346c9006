package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func (r *BookingGormRepository) WithinTransaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

func (r *BookingGormRepository) GetStudio(
	ctx context.Context,
	studioID uint,
) (*models.Studio, error) {

	var studio models.Studio
	if err := r.db.WithContext(ctx).First(&studio, studioID).Error; err != nil {
		return nil, notFound(err, "studio_not_found", "studio not found")
	}
	return &studio, nil
}

// --------------------------------------------------
// Slot
// --------------------------------------------------

func (r *BookingGormRepository) GetSlot(
	ctx context.Context,
	slotID uint,
	forUpdate bool,
) (*models.Slot, error) {

	var slot models.Slot
	if err := lockFor(r.db.WithContext(ctx), forUpdate).
		First(&slot, slotID).Error; err != nil {
		return nil, notFound(err, "slot_not_found", "slot not found")
	}
	return &slot, nil
}

func (r *BookingGormRepository) CountActiveBookings(
	ctx context.Context,
	slotID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"slot_id = ? AND status IN ?",
			slotID,
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	bookingID uint,
	forUpdate bool,
) (*models.Booking, error) {

	var b models.Booking
	if err := lockFor(r.db.WithContext(ctx), forUpdate).
		First(&b, bookingID).Error; err != nil {
		return nil, notFound(err, "booking_not_found", "booking not found")
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForStudio(
	ctx context.Context,
	studioID uint,
	bookingID uint,
) (*models.Booking, error) {

	studioSlots := r.db.WithContext(ctx).
		Model(&models.Slot{}).
		Select("id").
		Where("studio_id = ?", studioID)

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND slot_id IN (?)", bookingID, studioSlots).
		First(&b).Error; err != nil {
		return nil, notFound(err, "booking_not_found", "booking not found for this studio")
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	studioID uint,
	start time.Time,
	end time.Time,
) ([]domain.BookingView, error) {

	var out []domain.BookingView
	if err := r.db.WithContext(ctx).
		Table("bookings").
		Select(
			"bookings.id, bookings.slot_id, slots.title AS slot_title, " +
				"slots.start_time, slots.end_time, bookings.status, bookings.booking_type, " +
				"bookings.guest_name, bookings.guest_email, bookings.order_id",
		).
		Joins("JOIN slots ON slots.id = bookings.slot_id").
		Where(
			"slots.studio_id = ? AND slots.start_time >= ? AND slots.start_time < ?",
			studioID,
			start,
			end,
		).
		Order("slots.start_time ASC").
		Order("bookings.id ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Order
// --------------------------------------------------

func (r *BookingGormRepository) GetOrder(
	ctx context.Context,
	orderID uint,
	forUpdate bool,
) (*models.Order, error) {

	var o models.Order
	if err := lockFor(r.db.WithContext(ctx), forUpdate).
		First(&o, orderID).Error; err != nil {
		return nil, notFound(err, "order_not_found", "order not found")
	}
	return &o, nil
}

func (r *BookingGormRepository) UpdateOrder(
	ctx context.Context,
	o *models.Order,
) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *BookingGormRepository) ConfirmPendingOrderBookings(
	ctx context.Context,
	orderID uint,
	paymentIntentID string,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("order_id = ? AND status = ?", orderID, string(domain.StatusPending)).
		Updates(map[string]any{
			"status":            string(domain.StatusConfirmed),
			"payment_status":    domain.PaymentStatusSucceeded,
			"payment_intent_id": paymentIntentID,
			"confirmed_at":      now,
		})
	return res.RowsAffected, res.Error
}

func (r *BookingGormRepository) ListOrderBookings(
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

func (r *BookingGormRepository) GetServiceName(
	ctx context.Context,
	serviceID uint,
) (string, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Select("id", "name").
		First(&svc, serviceID).Error; err != nil {
		return "", notFound(err, "service_not_found", "service not found")
	}
	return svc.Name, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
