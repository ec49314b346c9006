// Package testutil holds store fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/studio-scheduler/internal/db"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// NewDB opens a migrated in-memory SQLite database. A single connection keeps
// the in-memory schema alive and serializes transactions the way row locks
// do on Postgres.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbpkg.Migrate(db))
	return db
}

var studioSeq atomic.Int64

func SeedStudio(t testing.TB, db *gorm.DB) *models.Studio {
	t.Helper()

	studio := &models.Studio{
		Name:     "Studio Nord",
		Slug:     fmt.Sprintf("studio-nord-%d", studioSeq.Add(1)),
		Timezone: "UTC",
		IsActive: true,
	}
	require.NoError(t, db.Create(studio).Error)
	return studio
}

// SeedCourse creates an active course with 1.0 / 1.5 / 0.3 limits. mutate may
// adjust fields before insert.
func SeedCourse(t testing.TB, db *gorm.DB, studioID uint, mutate func(*models.Service)) *models.Service {
	t.Helper()

	svc := &models.Service{
		StudioID:           studioID,
		Name:               "Pottery course",
		Description:        "Eight evenings at the wheel",
		Type:               "course",
		DurationMinutes:    90,
		MaxCapacity:        10,
		PriceSingleCents:   2500,
		SoftLimitRatio:     1.0,
		HardLimitRatio:     1.5,
		MaxOverbookedRatio: 0.3,
		IsActive:           true,
	}
	if mutate != nil {
		mutate(svc)
	}
	require.NoError(t, db.Create(svc).Error)
	return svc
}

// SeedSlots inserts one active occurrence per start time for svc.
func SeedSlots(t testing.TB, db *gorm.DB, svc *models.Service, starts ...time.Time) []models.Slot {
	t.Helper()

	slots := make([]models.Slot, 0, len(starts))
	for _, start := range starts {
		serviceID := svc.ID
		slots = append(slots, models.Slot{
			StudioID:    svc.StudioID,
			ServiceID:   &serviceID,
			StartTime:   start.UTC(),
			EndTime:     start.UTC().Add(time.Duration(svc.DurationMinutes) * time.Minute),
			Title:       svc.Name,
			MaxCapacity: svc.MaxCapacity,
			PriceCents:  svc.PriceSingleCents,
			Status:      "active",
			IsActive:    true,
		})
	}
	require.NoError(t, db.Create(&slots).Error)
	return slots
}

// SeedBookings adds n bookings with the given status to slot.
func SeedBookings(t testing.TB, db *gorm.DB, slot models.Slot, status string, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&models.Booking{
			SlotID:      slot.ID,
			Status:      status,
			BookingType: "single",
			GuestName:   "Guest",
			GuestEmail:  "guest@example.com",
		}).Error)
	}
}

// Weekly returns n start times one week apart beginning at first.
func Weekly(first time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = first.AddDate(0, 0, 7*i)
	}
	return out
}
