package dto

import "time"

type PublicServiceDTO struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Type             string     `json:"type"`
	DurationMinutes  int        `json:"duration_minutes"`
	MaxCapacity      int        `json:"max_capacity"`
	PriceSingleCents int64      `json:"price_single_cents"`
	PriceCourseCents *int64     `json:"price_course_cents"`
	UpcomingCount    int64      `json:"upcoming_occurrences"`
	NextOccurrence   *time.Time `json:"next_occurrence"`
	TermEnd          *time.Time `json:"term_end"`

	// Availability is set for courses with at least one upcoming occurrence.
	Availability *CourseAvailabilityDTO `json:"availability"`
}

type CourseAvailabilityDTO struct {
	CanBook                bool     `json:"can_book"`
	TotalRemainingCapacity int      `json:"total_remaining_capacity"`
	RequiresWarning        bool     `json:"requires_warning"`
	OverbookedDates        []string `json:"overbooked_dates"`
}

type StudioPublicDTO struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Address     string             `json:"address"`
	Timezone    string             `json:"timezone"`
	Services    []PublicServiceDTO `json:"services"`
}
