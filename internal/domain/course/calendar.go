package course

import (
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

// CourseCalendar is the public view of a course's upcoming term: how much
// room is left and which dates are already tight.
type CourseCalendar struct {
	CanBook                bool     `json:"can_book"`
	TotalRemainingCapacity int      `json:"total_remaining_capacity"`
	RequiresWarning        bool     `json:"requires_warning"`
	OverbookedDates        []string `json:"overbooked_dates"`
}

// Calendar summarizes upcoming occurrences, ordered by start time, for the
// public listing. Dates are studio-local. A hard-blocked course never asks
// for a warning.
func Calendar(upcoming []OccurrenceCapacity, l Limits, loc *time.Location) CourseCalendar {
	cal := CourseCalendar{OverbookedDates: []string{}}
	if len(upcoming) == 0 {
		return cal
	}

	for _, o := range upcoming {
		cal.TotalRemainingCapacity += o.Remaining()
	}

	d := Decide(upcoming, l)

	for _, f := range d.OverbookedSlots {
		day := f.StartTime.In(loc).Format(timezone.DateLayout)
		if n := len(cal.OverbookedDates); n == 0 || cal.OverbookedDates[n-1] != day {
			cal.OverbookedDates = append(cal.OverbookedDates, day)
		}
	}

	cal.CanBook = cal.TotalRemainingCapacity > 0 && !d.HardBlock
	cal.RequiresWarning = len(d.OverbookedSlots) > 0 && !d.HardBlock
	return cal
}
