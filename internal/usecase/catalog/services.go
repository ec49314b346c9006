package catalog

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ======================================================
// CREATE
// ======================================================

type CreateServiceInput struct {
	StudioID uint
	UserID   *uint

	Name             string
	Description      string
	Type             string
	DurationMinutes  int
	MaxCapacity      int
	PriceSingleCents int64
	PriceCourseCents *int64

	// Nil ratios take the catalog defaults.
	SoftLimitRatio     *float64
	HardLimitRatio     *float64
	MaxOverbookedRatio *float64
}

type CreateService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateService(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateService {
	return &CreateService{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateService) Execute(
	ctx context.Context,
	in CreateServiceInput,
) (*models.Service, error) {

	if _, err := uc.repo.GetStudio(ctx, in.StudioID); err != nil {
		return nil, err
	}

	svc := &models.Service{
		StudioID:           in.StudioID,
		Name:               strings.TrimSpace(in.Name),
		Description:        in.Description,
		Type:               in.Type,
		DurationMinutes:    in.DurationMinutes,
		MaxCapacity:        in.MaxCapacity,
		PriceSingleCents:   in.PriceSingleCents,
		PriceCourseCents:   in.PriceCourseCents,
		SoftLimitRatio:     ratioOr(in.SoftLimitRatio, domain.DefaultSoftLimitRatio),
		HardLimitRatio:     ratioOr(in.HardLimitRatio, domain.DefaultHardLimitRatio),
		MaxOverbookedRatio: ratioOr(in.MaxOverbookedRatio, domain.DefaultMaxOverbookedRatio),
		IsActive:           true,
	}

	if err := domain.ValidateService(svc); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: in.StudioID,
		UserID:   in.UserID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &svc.ID,
		Metadata: map[string]any{"type": svc.Type},
	})

	return svc, nil
}

func ratioOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// ======================================================
// UPDATE
// ======================================================

type UpdateService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateService(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateService {
	return &UpdateService{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateService) Execute(
	ctx context.Context,
	studioID uint,
	userID *uint,
	serviceID uint,
	update domain.ServiceUpdate,
) (*models.Service, error) {

	svc, err := uc.repo.GetService(ctx, studioID, serviceID)
	if err != nil {
		return nil, err
	}

	if err := domain.ApplyServiceUpdate(svc, update); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveService(ctx, svc); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: studioID,
		UserID:   userID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	return svc, nil
}

// ======================================================
// DEACTIVATE
// ======================================================

type DeactivateService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeactivateService(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeactivateService {
	return &DeactivateService{
		repo:  repo,
		audit: audit,
	}
}

// Execute hides the service from purchase. Existing occurrences and bookings
// are left as they are.
func (uc *DeactivateService) Execute(
	ctx context.Context,
	studioID uint,
	userID *uint,
	serviceID uint,
) (*models.Service, error) {

	svc, err := uc.repo.GetService(ctx, studioID, serviceID)
	if err != nil {
		return nil, err
	}

	if err := domain.Deactivate(svc); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveService(ctx, svc); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StudioID: studioID,
		UserID:   userID,
		Action:   "service_deactivated",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	return svc, nil
}

// ======================================================
// LIST
// ======================================================

type ListServices struct {
	repo domain.Repository
}

func NewListServices(repo domain.Repository) *ListServices {
	return &ListServices{repo: repo}
}

func (uc *ListServices) Execute(
	ctx context.Context,
	studioID uint,
	onlyActive bool,
) ([]models.Service, error) {
	return uc.repo.ListServices(ctx, studioID, onlyActive)
}
