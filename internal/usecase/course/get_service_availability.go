package course

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/studio-scheduler/internal/dto"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

type GetServiceAvailabilityInput struct {
	ServiceID uint
	From      *time.Time
}

// GetServiceAvailability lists a course's active occurrences with their
// fill level and the limit one more seat would reach, together with the
// purchase decision over the whole course.
type GetServiceAvailability struct {
	repo domain.Repository
}

func NewGetServiceAvailability(repo domain.Repository) *GetServiceAvailability {
	return &GetServiceAvailability{repo: repo}
}

func (uc *GetServiceAvailability) Execute(
	ctx context.Context,
	in GetServiceAvailabilityInput,
) (*dto.ServiceAvailabilityDTO, error) {

	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := ensurePurchasable(svc); err != nil {
		return nil, err
	}

	studio, err := uc.repo.GetStudio(ctx, svc.StudioID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(studio.Timezone)

	occ, err := uc.repo.ListOccurrenceCapacity(ctx, svc.ID, nil, false)
	if err != nil {
		return nil, err
	}

	limits := domain.LimitsOf(svc)
	decision := domain.Decide(occ, limits)

	out := &dto.ServiceAvailabilityDTO{
		ServiceID:       svc.ID,
		ServiceName:     svc.Name,
		ServiceType:     svc.Type,
		CanBook:         decision.CanBook,
		RequiresWarning: decision.RequiresWarning,
		HardBlock:       decision.HardBlock,
		WarningMessage:  decision.Message,
		Occurrences:     make([]dto.OccurrenceAvailabilityDTO, 0, len(occ)),
	}

	for _, o := range occ {
		if in.From != nil && o.StartTime.Before(in.From.UTC()) {
			continue
		}

		status := domain.Classify(o.MaxCapacity, o.Total(), 1, limits)

		out.Occurrences = append(out.Occurrences, dto.OccurrenceAvailabilityDTO{
			SlotID:            o.SlotID,
			Date:              o.StartTime.In(loc).Format(timezone.DateLayout),
			StartTime:         o.StartTime,
			EndTime:           o.EndTime,
			MaxCapacity:       o.MaxCapacity,
			ConfirmedCount:    o.ConfirmedCount,
			PendingCount:      o.PendingCount,
			Remaining:         o.Remaining(),
			IsOverbooked:      status != domain.WithinLimits,
			OverbookingStatus: string(status),
		})
	}

	return out, nil
}
