package course

import (
	"math"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ===============================
// Capacity Status
// ===============================

type CapacityStatus string

const (
	WithinLimits     CapacityStatus = "WITHIN_LIMITS"
	SoftLimitReached CapacityStatus = "SOFT_LIMIT_REACHED"
	HardLimitReached CapacityStatus = "HARD_LIMIT_REACHED"
)

// Limits are the overbooking parameters of a service. They are read from the
// service at decision time and applied to each occurrence's own capacity
// snapshot.
type Limits struct {
	SoftRatio          float64
	HardRatio          float64
	MaxOverbookedRatio float64
}

func LimitsOf(svc *models.Service) Limits {
	return Limits{
		SoftRatio:          svc.SoftLimitRatio,
		HardRatio:          svc.HardLimitRatio,
		MaxOverbookedRatio: svc.MaxOverbookedRatio,
	}
}

func (l Limits) SoftLimit(maxCapacity int) int {
	return int(math.Floor(float64(maxCapacity) * l.SoftRatio))
}

func (l Limits) HardLimit(maxCapacity int) int {
	return int(math.Floor(float64(maxCapacity) * l.HardRatio))
}

// Classify places current+requested seats against the soft and hard limits
// derived from maxCapacity. The result never decreases as current grows.
func Classify(maxCapacity, current, requested int, l Limits) CapacityStatus {
	total := current + requested

	switch {
	case total > l.HardLimit(maxCapacity):
		return HardLimitReached
	case total > l.SoftLimit(maxCapacity):
		return SoftLimitReached
	default:
		return WithinLimits
	}
}

// ===============================
// Occurrence capacity
// ===============================

// OccurrenceCapacity is one active occurrence with its live reservation
// counts. Cancelled bookings are never counted.
type OccurrenceCapacity struct {
	SlotID         uint
	StartTime      time.Time
	EndTime        time.Time
	MaxCapacity    int
	PriceCents     int64
	ConfirmedCount int
	PendingCount   int
}

func (o OccurrenceCapacity) Total() int {
	return o.ConfirmedCount + o.PendingCount
}

func (o OccurrenceCapacity) Remaining() int {
	if r := o.MaxCapacity - o.Total(); r > 0 {
		return r
	}
	return 0
}
