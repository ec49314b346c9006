package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/catalog"
	domainCourse "github.com/BruksfildServices01/studio-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Studio
// --------------------------------------------------

func (r *CatalogGormRepository) GetStudio(
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
// Service
// --------------------------------------------------

func (r *CatalogGormRepository) ListServices(
	ctx context.Context,
	studioID uint,
	onlyActive bool,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).Where("studio_id = ?", studioID)
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *CatalogGormRepository) GetService(
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

func (r *CatalogGormRepository) CreateService(
	ctx context.Context,
	svc *models.Service,
) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *CatalogGormRepository) SaveService(
	ctx context.Context,
	svc *models.Service,
) error {
	return r.db.WithContext(ctx).Save(svc).Error
}

func (r *CatalogGormRepository) ListUpcomingOccurrences(
	ctx context.Context,
	serviceID uint,
	from time.Time,
) ([]domainCourse.OccurrenceCapacity, error) {

	from = from.UTC()
	return NewCourseGormRepository(r.db).ListOccurrenceCapacity(ctx, serviceID, &from, false)
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *CatalogGormRepository) CreateSchedule(
	ctx context.Context,
	s *models.Schedule,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogGormRepository) ListSchedules(
	ctx context.Context,
	serviceID uint,
) ([]models.Schedule, error) {

	var schedules []models.Schedule
	if err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("day_of_week ASC").
		Order("start_time ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *CatalogGormRepository) GetSchedule(
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

// DeleteSchedule removes the template. Occurrences it generated stay and lose
// their schedule link.
func (r *CatalogGormRepository) DeleteSchedule(
	ctx context.Context,
	serviceID uint,
	scheduleID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("id = ? AND service_id = ?", scheduleID, serviceID).
			Delete(&models.Schedule{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "schedule_not_found", "schedule not found for this service")
		}

		return tx.
			Model(&models.Slot{}).
			Where("schedule_id = ?", scheduleID).
			Update("schedule_id", nil).Error
	})
}

// Compile-time check
var _ domain.Repository = (*CatalogGormRepository)(nil)
