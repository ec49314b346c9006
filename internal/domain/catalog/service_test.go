package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

func validCourse() models.Service {
	return models.Service{
		StudioID:           1,
		Name:               "Yoga basics",
		Type:               string(ServiceTypeCourse),
		DurationMinutes:    60,
		MaxCapacity:        10,
		PriceSingleCents:   1500,
		SoftLimitRatio:     DefaultSoftLimitRatio,
		HardLimitRatio:     DefaultHardLimitRatio,
		MaxOverbookedRatio: DefaultMaxOverbookedRatio,
		IsActive:           true,
	}
}

func TestValidateServiceLimits(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.Service)
		ok     bool
	}{
		{"defaults", func(*models.Service) {}, true},
		{"soft below one", func(s *models.Service) { s.SoftLimitRatio = 0.9 }, false},
		{"hard below soft", func(s *models.Service) { s.SoftLimitRatio = 1.4; s.HardLimitRatio = 1.2 }, false},
		{"hard equals soft", func(s *models.Service) { s.SoftLimitRatio = 1.2; s.HardLimitRatio = 1.2 }, true},
		{"overbooked zero", func(s *models.Service) { s.MaxOverbookedRatio = 0 }, true},
		{"overbooked above one", func(s *models.Service) { s.MaxOverbookedRatio = 1.1 }, false},
		{"unknown type", func(s *models.Service) { s.Type = "workshop" }, false},
		{"zero capacity", func(s *models.Service) { s.MaxCapacity = 0 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := validCourse()
			tc.mutate(&svc)

			err := ValidateService(&svc)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, httperr.KindInvalid, httperr.KindOf(err))
		})
	}
}

func TestApplyServiceUpdateMergesOnlySetFields(t *testing.T) {
	svc := validCourse()
	name := "Yoga advanced"
	price := int64(9000)

	require.NoError(t, ApplyServiceUpdate(&svc, ServiceUpdate{
		Name:             &name,
		PriceCourseCents: &price,
	}))

	assert.Equal(t, "Yoga advanced", svc.Name)
	require.NotNil(t, svc.PriceCourseCents)
	assert.Equal(t, int64(9000), *svc.PriceCourseCents)
	assert.Equal(t, 10, svc.MaxCapacity)
	assert.Equal(t, int64(1500), svc.PriceSingleCents)

	require.NoError(t, ApplyServiceUpdate(&svc, ServiceUpdate{ClearCoursePrice: true}))
	assert.Nil(t, svc.PriceCourseCents)
}

func TestApplyServiceUpdateRejectsInvalidResultWithoutMutation(t *testing.T) {
	svc := validCourse()
	hard := 1.1
	soft := 1.3

	err := ApplyServiceUpdate(&svc, ServiceUpdate{SoftLimitRatio: &soft, HardLimitRatio: &hard})

	assert.True(t, httperr.IsBusiness(err, "invalid_limits"))
	assert.Equal(t, DefaultSoftLimitRatio, svc.SoftLimitRatio)
	assert.Equal(t, DefaultHardLimitRatio, svc.HardLimitRatio)
}

func TestDeactivate(t *testing.T) {
	svc := validCourse()

	require.NoError(t, Deactivate(&svc))
	assert.False(t, svc.IsActive)
	assert.True(t, httperr.IsBusiness(Deactivate(&svc), "service_already_inactive"))
}

func TestScheduleCoversDate(t *testing.T) {
	from := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	s := &models.Schedule{DayOfWeek: 0, StartTime: "18:00", ValidFrom: from, ValidTo: &to}

	require.NoError(t, ValidateSchedule(s))

	assert.False(t, CoversDate(s, from.AddDate(0, 0, -1)))
	assert.True(t, CoversDate(s, from))
	assert.True(t, CoversDate(s, to))
	assert.False(t, CoversDate(s, to.AddDate(0, 0, 1)))

	s.ValidTo = nil
	assert.True(t, CoversDate(s, to.AddDate(1, 0, 0)))
}

func TestValidateScheduleRejectsBadInput(t *testing.T) {
	from := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	before := from.AddDate(0, 0, -1)

	assert.True(t, httperr.IsBusiness(ValidateSchedule(&models.Schedule{DayOfWeek: 7, StartTime: "10:00", ValidFrom: from}), "invalid_weekday"))
	assert.True(t, httperr.IsBusiness(ValidateSchedule(&models.Schedule{DayOfWeek: 1, StartTime: "25:00", ValidFrom: from}), "invalid_start_time"))
	assert.True(t, httperr.IsBusiness(ValidateSchedule(&models.Schedule{DayOfWeek: 1, StartTime: "10:00", ValidFrom: from, ValidTo: &before}), "invalid_validity"))
}
