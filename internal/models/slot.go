package models

import "time"

type Slot struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	StudioID   uint  `gorm:"index;not null" json:"studio_id"`
	ServiceID  *uint `gorm:"index:idx_slots_service_start" json:"service_id"`
	ScheduleID *uint `gorm:"index" json:"schedule_id"`

	StartTime time.Time `gorm:"index:idx_slots_service_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	MaxCapacity      int    `gorm:"not null" json:"max_capacity"`
	PriceCents       int64  `gorm:"not null" json:"price_cents"`
	CoursePriceCents *int64 `json:"course_price_cents"`

	Status   string `gorm:"size:20;not null" json:"status"`
	IsActive bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
