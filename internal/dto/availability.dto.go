package dto

import "time"

// OccurrenceAvailabilityDTO is one dated occurrence of a service with its
// current fill level.
type OccurrenceAvailabilityDTO struct {
	SlotID            uint      `json:"slot_id"`
	Date              string    `json:"date"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	MaxCapacity       int       `json:"max_capacity"`
	ConfirmedCount    int       `json:"confirmed_count"`
	PendingCount      int       `json:"pending_count"`
	Remaining         int       `json:"remaining"`
	IsOverbooked      bool      `json:"is_overbooked"`
	OverbookingStatus string    `json:"overbooking_status"`
}

// ServiceAvailabilityDTO feeds the pre-payment calendar. The decision fields
// always cover every occurrence of the course, even when Occurrences is
// narrowed by a start date.
type ServiceAvailabilityDTO struct {
	ServiceID       uint                        `json:"service_id"`
	ServiceName     string                      `json:"service_name"`
	ServiceType     string                      `json:"service_type"`
	CanBook         bool                        `json:"can_book"`
	RequiresWarning bool                        `json:"requires_warning"`
	HardBlock       bool                        `json:"hard_block"`
	WarningMessage  string                      `json:"warning_message,omitempty"`
	Occurrences     []OccurrenceAvailabilityDTO `json:"occurrences"`
}
