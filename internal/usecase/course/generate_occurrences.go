package course

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	domainBooking "github.com/BruksfildServices01/studio-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/catalog"
	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/course"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type GenerateOccurrencesInput struct {
	StudioID  uint
	ServiceID uint
	UserID    *uint

	// Weekdays and StartTime are ignored when ScheduleID is set; the
	// template supplies them.
	Weekdays   []int
	StartTime  string
	WeeksCount int

	// StartDate defaults to today in the studio timezone.
	StartDate  *time.Time
	ScheduleID *uint
}

type OverlapDetails struct {
	PlannedStart  time.Time `json:"planned_start"`
	PlannedEnd    time.Time `json:"planned_end"`
	ExistingStart time.Time `json:"existing_start"`
	ExistingEnd   time.Time `json:"existing_end"`
}

// ======================================================
// USE CASE
// ======================================================

type GenerateOccurrences struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *logger.Logger
}

func NewGenerateOccurrences(
	repo domain.Repository,
	audit *audit.Dispatcher,
	log *logger.Logger,
) *GenerateOccurrences {
	return &GenerateOccurrences{
		repo:  repo,
		audit: audit,
		log:   log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *GenerateOccurrences) Execute(
	ctx context.Context,
	in GenerateOccurrencesInput,
) ([]models.Slot, error) {

	// --------------------------------------------------
	// 1️⃣ Input shape
	// --------------------------------------------------
	if in.ScheduleID == nil {
		if err := domain.ValidateRecurrence(in.WeeksCount, in.Weekdays); err != nil {
			return nil, err
		}
	} else if in.WeeksCount <= 0 {
		return nil, httperr.Invalid("invalid_weeks_count", "weeks_count must be positive")
	}

	// --------------------------------------------------
	// 2️⃣ Studio / service
	// --------------------------------------------------
	studio, err := uc.repo.GetStudio(ctx, in.StudioID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetServiceForStudio(ctx, in.StudioID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, httperr.ConflictErr("service_inactive", "service is deactivated", nil)
	}

	// --------------------------------------------------
	// 3️⃣ Recurrence (request or template)
	// --------------------------------------------------
	loc := timezone.Location(studio.Timezone)

	startDate := timezone.Today(studio.Timezone)
	if in.StartDate != nil {
		startDate = *in.StartDate
	}

	weekdays := in.Weekdays
	clock := in.StartTime
	var covers func(time.Time) bool

	if in.ScheduleID != nil {
		sched, err := uc.repo.GetSchedule(ctx, svc.ID, *in.ScheduleID)
		if err != nil {
			return nil, err
		}

		weekdays = []int{sched.DayOfWeek}
		clock = sched.StartTime
		covers = func(day time.Time) bool { return catalog.CoversDate(sched, day) }

		if in.StartDate == nil && sched.ValidFrom.After(startDate) {
			startDate = sched.ValidFrom
		}
	}

	hour, minute, err := timezone.ParseClock(clock)
	if err != nil {
		return nil, httperr.Invalid("invalid_start_time", "start_time must be HH:MM")
	}

	planned, err := domain.PlanOccurrences(domain.OccurrencePlan{
		StartDate:  startDate,
		Weekdays:   weekdays,
		Hour:       hour,
		Minute:     minute,
		WeeksCount: in.WeeksCount,
		Duration:   time.Duration(svc.DurationMinutes) * time.Minute,
		Location:   loc,
		Covers:     covers,
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Overlap check + persist (one transaction)
	// --------------------------------------------------
	slots := make([]models.Slot, 0, len(planned))

	err = uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockService(ctx, svc.ID); err != nil {
			return err
		}

		env := domain.Envelope(planned)
		existing, err := tx.ListSlotsInEnvelope(ctx, in.StudioID, svc.ID, env.Start, env.End)
		if err != nil {
			return err
		}

		current := make([]domain.Interval, len(existing))
		for i, s := range existing {
			current[i] = domain.Interval{Start: s.StartTime, End: s.EndTime}
		}

		if p, e, found := domain.FindOverlap(planned, current); found {
			return httperr.ConflictErr(
				"occurrence_overlap",
				"planned occurrences overlap existing ones for this service",
				OverlapDetails{
					PlannedStart:  p.Start,
					PlannedEnd:    p.End,
					ExistingStart: e.Start,
					ExistingEnd:   e.End,
				},
			)
		}

		for _, iv := range planned {
			slots = append(slots, newOccurrence(svc, in.ScheduleID, iv))
		}

		return tx.CreateSlots(ctx, slots)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Log + audit
	// --------------------------------------------------
	uc.log.LogSchedule("generate", svc.ID, fmt.Sprintf("%d occurrences created", len(slots)))

	uc.audit.Dispatch(audit.Event{
		StudioID: in.StudioID,
		UserID:   in.UserID,
		Action:   "occurrences_generated",
		Entity:   "service",
		EntityID: &svc.ID,
		Metadata: map[string]any{
			"count":       len(slots),
			"weeks_count": in.WeeksCount,
			"first_start": slots[0].StartTime,
		},
	})

	return slots, nil
}

// newOccurrence snapshots the service's capacity and prices onto a slot.
func newOccurrence(svc *models.Service, scheduleID *uint, iv domain.Interval) models.Slot {
	serviceID := svc.ID

	var coursePrice *int64
	if svc.PriceCourseCents != nil {
		v := *svc.PriceCourseCents
		coursePrice = &v
	}

	var schedule *uint
	if scheduleID != nil {
		v := *scheduleID
		schedule = &v
	}

	return models.Slot{
		StudioID:         svc.StudioID,
		ServiceID:        &serviceID,
		ScheduleID:       schedule,
		StartTime:        iv.Start,
		EndTime:          iv.End,
		Title:            svc.Name,
		Description:      svc.Description,
		MaxCapacity:      svc.MaxCapacity,
		PriceCents:       svc.PriceSingleCents,
		CoursePriceCents: coursePrice,
		Status:           domainBooking.SlotActive,
		IsActive:         true,
	}
}
