package catalog

import (
	"strings"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ===============================
// Service Type
// ===============================

type ServiceType string

const (
	ServiceTypeSingleClass ServiceType = "single_class"
	ServiceTypeCourse      ServiceType = "course"
)

func (t ServiceType) Valid() bool {
	return t == ServiceTypeSingleClass || t == ServiceTypeCourse
}

const (
	DefaultSoftLimitRatio     = 1.0
	DefaultHardLimitRatio     = 1.5
	DefaultMaxOverbookedRatio = 0.3
)

func IsCourse(svc *models.Service) bool {
	return ServiceType(svc.Type) == ServiceTypeCourse
}

// ===============================
// Validation
// ===============================

// ValidateService checks the field rules every persisted Service must hold,
// including hard >= soft >= 1.0 and 0 <= max_overbooked <= 1.
func ValidateService(svc *models.Service) error {
	if strings.TrimSpace(svc.Name) == "" {
		return httperr.Invalid("invalid_service_name", "name is required")
	}
	if !ServiceType(svc.Type).Valid() {
		return httperr.Invalid("invalid_service_type", "type must be single_class or course")
	}
	if svc.DurationMinutes <= 0 {
		return httperr.Invalid("invalid_duration", "duration_minutes must be positive")
	}
	if svc.MaxCapacity <= 0 {
		return httperr.Invalid("invalid_capacity", "max_capacity must be positive")
	}
	if svc.PriceSingleCents < 0 {
		return httperr.Invalid("invalid_price", "price_single_cents must not be negative")
	}
	if svc.PriceCourseCents != nil && *svc.PriceCourseCents < 0 {
		return httperr.Invalid("invalid_price", "price_course_cents must not be negative")
	}
	if svc.SoftLimitRatio < 1.0 {
		return httperr.Invalid("invalid_limits", "soft_limit_ratio must be at least 1.0")
	}
	if svc.HardLimitRatio < svc.SoftLimitRatio {
		return httperr.Invalid("invalid_limits", "hard_limit_ratio must be at least soft_limit_ratio")
	}
	if svc.MaxOverbookedRatio < 0 || svc.MaxOverbookedRatio > 1 {
		return httperr.Invalid("invalid_limits", "max_overbooked_ratio must be between 0 and 1")
	}
	return nil
}

// ===============================
// Partial update
// ===============================

// ServiceUpdate lists the editable fields of a Service. Nil means unchanged.
type ServiceUpdate struct {
	Name               *string
	Description        *string
	DurationMinutes    *int
	MaxCapacity        *int
	PriceSingleCents   *int64
	PriceCourseCents   *int64
	ClearCoursePrice   bool
	SoftLimitRatio     *float64
	HardLimitRatio     *float64
	MaxOverbookedRatio *float64
	IsActive           *bool
}

// ApplyServiceUpdate merges u into svc and validates the result. svc is left
// untouched when validation fails.
func ApplyServiceUpdate(svc *models.Service, u ServiceUpdate) error {
	next := *svc

	if u.Name != nil {
		next.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		next.Description = *u.Description
	}
	if u.DurationMinutes != nil {
		next.DurationMinutes = *u.DurationMinutes
	}
	if u.MaxCapacity != nil {
		next.MaxCapacity = *u.MaxCapacity
	}
	if u.PriceSingleCents != nil {
		next.PriceSingleCents = *u.PriceSingleCents
	}
	if u.ClearCoursePrice {
		next.PriceCourseCents = nil
	} else if u.PriceCourseCents != nil {
		v := *u.PriceCourseCents
		next.PriceCourseCents = &v
	}
	if u.SoftLimitRatio != nil {
		next.SoftLimitRatio = *u.SoftLimitRatio
	}
	if u.HardLimitRatio != nil {
		next.HardLimitRatio = *u.HardLimitRatio
	}
	if u.MaxOverbookedRatio != nil {
		next.MaxOverbookedRatio = *u.MaxOverbookedRatio
	}
	if u.IsActive != nil {
		next.IsActive = *u.IsActive
	}

	if err := ValidateService(&next); err != nil {
		return err
	}

	*svc = next
	return nil
}

func Deactivate(svc *models.Service) error {
	if !svc.IsActive {
		return httperr.ErrBusiness("service_already_inactive")
	}
	svc.IsActive = false
	return nil
}
