package catalog

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type CreateScheduleInput struct {
	StudioID  uint
	UserID    *uint
	ServiceID uint

	DayOfWeek int
	StartTime string
	ValidFrom time.Time
	ValidTo   *time.Time
}

type CreateSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateSchedule {
	return &CreateSchedule{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateSchedule) Execute(
	ctx context.Context,
	in CreateScheduleInput,
) (*models.Schedule, error) {

	svc, err := uc.repo.GetService(ctx, in.StudioID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	s := &models.Schedule{
		ServiceID: svc.ID,
		DayOfWeek: in.DayOfWeek,
		StartTime: in.StartTime,
		ValidFrom: in.ValidFrom,
		ValidTo:   in.ValidTo,
	}
	if err := domain.ValidateSchedule(s); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateSchedule(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: in.StudioID,
		UserID:   in.UserID,
		Action:   "schedule_created",
		Entity:   "schedule",
		EntityID: &s.ID,
		Metadata: map[string]any{
			"service_id":  svc.ID,
			"day_of_week": s.DayOfWeek,
			"start_time":  s.StartTime,
		},
	})

	return s, nil
}

type ListSchedules struct {
	repo domain.Repository
}

func NewListSchedules(repo domain.Repository) *ListSchedules {
	return &ListSchedules{repo: repo}
}

func (uc *ListSchedules) Execute(
	ctx context.Context,
	studioID uint,
	serviceID uint,
) ([]models.Schedule, error) {

	if _, err := uc.repo.GetService(ctx, studioID, serviceID); err != nil {
		return nil, err
	}
	return uc.repo.ListSchedules(ctx, serviceID)
}

type DeleteSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteSchedule {
	return &DeleteSchedule{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes the template. Occurrences generated from it stay and lose
// their schedule reference.
func (uc *DeleteSchedule) Execute(
	ctx context.Context,
	studioID uint,
	userID *uint,
	serviceID uint,
	scheduleID uint,
) error {

	if _, err := uc.repo.GetService(ctx, studioID, serviceID); err != nil {
		return err
	}

	if err := uc.repo.DeleteSchedule(ctx, serviceID, scheduleID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: studioID,
		UserID:   userID,
		Action:   "schedule_deleted",
		Entity:   "schedule",
		EntityID: &scheduleID,
	})

	return nil
}
