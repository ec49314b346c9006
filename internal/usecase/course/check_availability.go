package course

import (
	"context"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/catalog"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// CheckCourseAvailability is the lock-free pre-check shown before purchase.
// The purchase itself recomputes the decision under the occurrence lock.
type CheckCourseAvailability struct {
	repo domain.Repository
}

func NewCheckCourseAvailability(repo domain.Repository) *CheckCourseAvailability {
	return &CheckCourseAvailability{repo: repo}
}

func (uc *CheckCourseAvailability) Execute(
	ctx context.Context,
	serviceID uint,
) (domain.Decision, error) {

	svc, err := uc.repo.GetService(ctx, serviceID)
	if err != nil {
		return domain.Decision{}, err
	}
	if err := ensurePurchasable(svc); err != nil {
		return domain.Decision{}, err
	}

	occ, err := uc.repo.ListOccurrenceCapacity(ctx, svc.ID, nil, false)
	if err != nil {
		return domain.Decision{}, err
	}

	return domain.Decide(occ, domain.LimitsOf(svc)), nil
}

func ensurePurchasable(svc *models.Service) error {
	if !catalog.IsCourse(svc) {
		return httperr.Invalid("not_a_course", "service is not a course")
	}
	if !svc.IsActive {
		return httperr.ConflictErr("service_inactive", "service is deactivated", nil)
	}
	return nil
}
