package models

import "time"

// Schedule is a weekly recurrence template. DayOfWeek: 0 = Monday .. 6 = Sunday.
type Schedule struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index;not null" json:"service_id"`

	DayOfWeek int    `gorm:"not null" json:"day_of_week"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`

	ValidFrom time.Time  `gorm:"not null" json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
