package catalog

import (
	"context"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/studio-scheduler/internal/dto"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

type GetStudioPublic struct {
	repo domain.Repository
}

func NewGetStudioPublic(repo domain.Repository) *GetStudioPublic {
	return &GetStudioPublic{repo: repo}
}

func (uc *GetStudioPublic) Execute(
	ctx context.Context,
	studioID uint,
) (*dto.StudioPublicDTO, error) {

	studio, err := uc.repo.GetStudio(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if !studio.IsActive {
		return nil, httperr.NotFoundErr("studio_not_found", "studio not found")
	}

	services, err := uc.repo.ListServices(ctx, studio.ID, true)
	if err != nil {
		return nil, err
	}

	now := timezone.Now().UTC()
	loc := timezone.Location(studio.Timezone)

	out := &dto.StudioPublicDTO{
		ID:          studio.ID,
		Name:        studio.Name,
		Slug:        studio.Slug,
		Description: studio.Description,
		Email:       studio.Email,
		Phone:       studio.Phone,
		Address:     studio.Address,
		Timezone:    studio.Timezone,
		Services:    make([]dto.PublicServiceDTO, 0, len(services)),
	}

	for _, svc := range services {
		upcoming, err := uc.repo.ListUpcomingOccurrences(ctx, svc.ID, now)
		if err != nil {
			return nil, err
		}

		item := dto.PublicServiceDTO{
			ID:               svc.ID,
			Name:             svc.Name,
			Description:      svc.Description,
			Type:             svc.Type,
			DurationMinutes:  svc.DurationMinutes,
			MaxCapacity:      svc.MaxCapacity,
			PriceSingleCents: svc.PriceSingleCents,
			PriceCourseCents: svc.PriceCourseCents,
			UpcomingCount:    int64(len(upcoming)),
		}

		if len(upcoming) > 0 {
			next := upcoming[0].StartTime
			end := upcoming[len(upcoming)-1].EndTime
			item.NextOccurrence = &next
			item.TermEnd = &end
		}

		if domain.IsCourse(&svc) && len(upcoming) > 0 {
			cal := course.Calendar(upcoming, course.LimitsOf(&svc), loc)
			item.Availability = &dto.CourseAvailabilityDTO{
				CanBook:                cal.CanBook,
				TotalRemainingCapacity: cal.TotalRemainingCapacity,
				RequiresWarning:        cal.RequiresWarning,
				OverbookedDates:        cal.OverbookedDates,
			}
		}

		out.Services = append(out.Services, item)
	}

	return out, nil
}
