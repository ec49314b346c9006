package course

import "time"

const (
	MessageNoOccurrences = "no occurrences yet"
	MessageBlocked       = "not enough places in several sessions, please contact the studio"
	MessageWarning       = "some sessions will be busier than usual, booking is still possible"
)

// FlaggedOccurrence is an occurrence that would cross its soft or hard limit
// if one more seat were taken. Exactly one of the two limit flags is set.
type FlaggedOccurrence struct {
	SlotID            uint      `json:"slot_id"`
	StartTime         time.Time `json:"start_time"`
	MaxCapacity       int       `json:"max_capacity"`
	ConfirmedCount    int       `json:"confirmed_count"`
	PendingCount      int       `json:"pending_count"`
	TotalAfterBooking int       `json:"total_after_booking"`
	IsOverSoftLimit   bool      `json:"is_over_soft_limit"`
	IsOverHardLimit   bool      `json:"is_over_hard_limit"`
}

type Decision struct {
	CanBook             bool                `json:"can_book"`
	RequiresWarning     bool                `json:"requires_warning"`
	HardBlock           bool                `json:"hard_block"`
	Message             string              `json:"message,omitempty"`
	EligibleOccurrences int                 `json:"eligible_occurrences"`
	OverbookedRatio     float64             `json:"overbooked_ratio"`
	OverbookedSlots     []FlaggedOccurrence `json:"overbooked_slots"`
}

// Decide evaluates whether one more course purchase, taking a seat in every
// occurrence, may proceed. occurrences must be ordered by start time; the
// flagged list keeps that order.
func Decide(occurrences []OccurrenceCapacity, l Limits) Decision {
	if len(occurrences) == 0 {
		return Decision{
			HardBlock:       true,
			Message:         MessageNoOccurrences,
			OverbookedSlots: []FlaggedOccurrence{},
		}
	}

	flagged := make([]FlaggedOccurrence, 0)
	anyHard := false

	for _, o := range occurrences {
		status := Classify(o.MaxCapacity, o.Total(), 1, l)
		if status == WithinLimits {
			continue
		}

		hard := status == HardLimitReached
		anyHard = anyHard || hard

		flagged = append(flagged, FlaggedOccurrence{
			SlotID:            o.SlotID,
			StartTime:         o.StartTime,
			MaxCapacity:       o.MaxCapacity,
			ConfirmedCount:    o.ConfirmedCount,
			PendingCount:      o.PendingCount,
			TotalAfterBooking: o.Total() + 1,
			IsOverSoftLimit:   status == SoftLimitReached,
			IsOverHardLimit:   hard,
		})
	}

	d := Decision{
		EligibleOccurrences: len(occurrences),
		OverbookedRatio:     float64(len(flagged)) / float64(len(occurrences)),
		OverbookedSlots:     flagged,
	}

	switch {
	case anyHard || d.OverbookedRatio > l.MaxOverbookedRatio:
		d.HardBlock = true
		d.Message = MessageBlocked
	case len(flagged) > 0:
		d.CanBook = true
		d.RequiresWarning = true
		d.Message = MessageWarning
	default:
		d.CanBook = true
	}

	return d
}
