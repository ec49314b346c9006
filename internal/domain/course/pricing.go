package course

import (
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// CourseTotal is the whole-course price when the service defines one,
// otherwise the single price times the number of occurrences.
func CourseTotal(svc *models.Service, occurrences int) int64 {
	if svc.PriceCourseCents != nil {
		return *svc.PriceCourseCents
	}
	return svc.PriceSingleCents * int64(occurrences)
}

// SplitPrice divides total cents over n shares with no remainder loss: the
// first total%n shares get one extra cent.
func SplitPrice(total int64, n int) ([]int64, error) {
	if n < 1 {
		return nil, httperr.Invalid("invalid_split", "cannot split a price over zero occurrences")
	}
	if total < 0 {
		return nil, httperr.Invalid("invalid_split", "total must not be negative")
	}

	base := total / int64(n)
	rem := total % int64(n)

	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < rem {
			shares[i]++
		}
	}
	return shares, nil
}
