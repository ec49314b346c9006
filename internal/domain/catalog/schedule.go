package catalog

import (
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

func ValidWeekday(d int) bool {
	return d >= 0 && d <= 6
}

func ValidateSchedule(s *models.Schedule) error {
	if !ValidWeekday(s.DayOfWeek) {
		return httperr.Invalid("invalid_weekday", "day_of_week must be between 0 (Monday) and 6 (Sunday)")
	}
	if _, _, err := timezone.ParseClock(s.StartTime); err != nil {
		return httperr.Invalid("invalid_start_time", "start_time must be HH:MM")
	}
	if s.ValidFrom.IsZero() {
		return httperr.Invalid("invalid_validity", "valid_from is required")
	}
	if s.ValidTo != nil && s.ValidTo.Before(s.ValidFrom) {
		return httperr.Invalid("invalid_validity", "valid_to must not be before valid_from")
	}
	return nil
}

// CoversDate reports whether day (a calendar date) falls inside the
// schedule's validity window, both ends inclusive.
func CoversDate(s *models.Schedule, day time.Time) bool {
	y, m, d := day.Date()
	key := y*10000 + int(m)*100 + d

	fy, fm, fd := s.ValidFrom.Date()
	if key < fy*10000+int(fm)*100+fd {
		return false
	}
	if s.ValidTo != nil {
		ty, tm, td := s.ValidTo.Date()
		if key > ty*10000+int(tm)*100+td {
			return false
		}
	}
	return true
}
