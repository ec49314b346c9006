package models

import "time"

// Service is a single-class or course definition. Ratios carry no column
// default because zero is a legal max_overbooked_ratio.
type Service struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	StudioID uint `gorm:"index;not null" json:"studio_id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	Description     string `gorm:"type:text" json:"description"`
	Type            string `gorm:"size:20;not null" json:"type"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`
	MaxCapacity     int    `gorm:"not null" json:"max_capacity"`

	PriceSingleCents int64  `gorm:"not null" json:"price_single_cents"`
	PriceCourseCents *int64 `json:"price_course_cents"`

	SoftLimitRatio     float64 `gorm:"not null" json:"soft_limit_ratio"`
	HardLimitRatio     float64 `gorm:"not null" json:"hard_limit_ratio"`
	MaxOverbookedRatio float64 `gorm:"not null" json:"max_overbooked_ratio"`

	IsActive bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
