package catalog

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type Repository interface {
	// -------- Studio --------
	GetStudio(
		ctx context.Context,
		studioID uint,
	) (*models.Studio, error)

	// -------- Service --------
	ListServices(
		ctx context.Context,
		studioID uint,
		onlyActive bool,
	) ([]models.Service, error)

	GetService(
		ctx context.Context,
		studioID uint,
		serviceID uint,
	) (*models.Service, error)

	CreateService(
		ctx context.Context,
		svc *models.Service,
	) error

	SaveService(
		ctx context.Context,
		svc *models.Service,
	) error

	// ListUpcomingOccurrences returns active occurrences starting at or
	// after from, in start order, with their live counts.
	ListUpcomingOccurrences(
		ctx context.Context,
		serviceID uint,
		from time.Time,
	) ([]course.OccurrenceCapacity, error)

	// -------- Schedule --------
	CreateSchedule(
		ctx context.Context,
		s *models.Schedule,
	) error

	ListSchedules(
		ctx context.Context,
		serviceID uint,
	) ([]models.Schedule, error)

	GetSchedule(
		ctx context.Context,
		serviceID uint,
		scheduleID uint,
	) (*models.Schedule, error)

	DeleteSchedule(
		ctx context.Context,
		serviceID uint,
		scheduleID uint,
	) error
}
