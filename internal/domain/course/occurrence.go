package course

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

// Interval is a half-open [Start, End) span in UTC.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps treats touching intervals ([10:00,11:00) and [11:00,12:00)) as
// disjoint.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// OccurrencePlan describes a weekly recurrence to expand. Weekdays use
// 0 = Monday .. 6 = Sunday.
type OccurrencePlan struct {
	StartDate  time.Time
	Weekdays   []int
	Hour       int
	Minute     int
	WeeksCount int
	Duration   time.Duration
	Location   *time.Location

	// Covers optionally restricts which calendar dates may be used.
	Covers func(day time.Time) bool
}

func ValidateRecurrence(weeksCount int, weekdays []int) error {
	if weeksCount <= 0 {
		return httperr.Invalid("invalid_weeks_count", "weeks_count must be positive")
	}
	if len(weekdays) == 0 {
		return httperr.Invalid("invalid_weekdays", "at least one weekday is required")
	}
	for _, d := range weekdays {
		if d < 0 || d > 6 {
			return httperr.Invalid("invalid_weekdays", "weekdays must be between 0 (Monday) and 6 (Sunday)")
		}
	}
	return nil
}

// PlanOccurrences expands p into concrete intervals, in chronological order.
// The start date is anchored to the Monday of its week and dates before the
// start date are skipped.
func PlanOccurrences(p OccurrencePlan) ([]Interval, error) {
	if err := ValidateRecurrence(p.WeeksCount, p.Weekdays); err != nil {
		return nil, err
	}
	if p.Duration <= 0 {
		return nil, httperr.Invalid("invalid_duration", "occurrence duration must be positive")
	}

	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := p.StartDate.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	monday := start.AddDate(0, 0, -mondayOffset(start))
	weekdays := uniqueSorted(p.Weekdays)

	var out []Interval
	for week := 0; week < p.WeeksCount; week++ {
		for _, wd := range weekdays {
			day := monday.AddDate(0, 0, week*7+wd)
			if day.Before(start) {
				continue
			}
			if p.Covers != nil && !p.Covers(day) {
				continue
			}

			begin := time.Date(day.Year(), day.Month(), day.Day(), p.Hour, p.Minute, 0, 0, loc).UTC()
			out = append(out, Interval{Start: begin, End: begin.Add(p.Duration)})
		}
	}

	if len(out) == 0 {
		return nil, httperr.Invalid("no_occurrences_planned", "no occurrence falls on or after the start date")
	}
	return out, nil
}

// Envelope returns the smallest interval containing every element of ivs.
func Envelope(ivs []Interval) Interval {
	var env Interval
	for i, iv := range ivs {
		if i == 0 || iv.Start.Before(env.Start) {
			env.Start = iv.Start
		}
		if i == 0 || iv.End.After(env.End) {
			env.End = iv.End
		}
	}
	return env
}

// FindOverlap returns the first planned interval that intersects an existing
// one.
func FindOverlap(planned, existing []Interval) (Interval, Interval, bool) {
	for _, p := range planned {
		for _, e := range existing {
			if p.Overlaps(e) {
				return p, e, true
			}
		}
	}
	return Interval{}, Interval{}, false
}

func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func uniqueSorted(days []int) []int {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
