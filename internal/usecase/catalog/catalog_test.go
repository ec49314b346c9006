package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/studio-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestCreateService_AppliesDefaultLimits(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	uc := NewCreateService(repository.NewCatalogGormRepository(db), nil)

	svc, err := uc.Execute(context.Background(), CreateServiceInput{
		StudioID:         studio.ID,
		Name:             "  Life drawing  ",
		Type:             "course",
		DurationMinutes:  120,
		MaxCapacity:      12,
		PriceSingleCents: 1800,
	})
	require.NoError(t, err)

	assert.NotZero(t, svc.ID)
	assert.Equal(t, "Life drawing", svc.Name)
	assert.True(t, svc.IsActive)
	assert.Equal(t, domain.DefaultSoftLimitRatio, svc.SoftLimitRatio)
	assert.Equal(t, domain.DefaultHardLimitRatio, svc.HardLimitRatio)
	assert.Equal(t, domain.DefaultMaxOverbookedRatio, svc.MaxOverbookedRatio)
}

func TestCreateService_KeepsExplicitZeroOverbookedRatio(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	uc := NewCreateService(repository.NewCatalogGormRepository(db), nil)

	svc, err := uc.Execute(context.Background(), CreateServiceInput{
		StudioID:           studio.ID,
		Name:               "Strict course",
		Type:               "course",
		DurationMinutes:    60,
		MaxCapacity:        6,
		MaxOverbookedRatio: ptr(0.0),
	})
	require.NoError(t, err)

	var stored models.Service
	require.NoError(t, db.First(&stored, svc.ID).Error)
	assert.Equal(t, 0.0, stored.MaxOverbookedRatio)
}

func TestCreateService_RejectsInvertedLimits(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	uc := NewCreateService(repository.NewCatalogGormRepository(db), nil)

	_, err := uc.Execute(context.Background(), CreateServiceInput{
		StudioID:        studio.ID,
		Name:            "Broken",
		Type:            "course",
		DurationMinutes: 60,
		MaxCapacity:     6,
		SoftLimitRatio:  ptr(1.4),
		HardLimitRatio:  ptr(1.2),
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_limits"))

	var n int64
	require.NoError(t, db.Model(&models.Service{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateService_MergesAndRevalidates(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	svc := testutil.SeedCourse(t, db, studio.ID, nil)
	uc := NewUpdateService(repository.NewCatalogGormRepository(db), nil)

	updated, err := uc.Execute(context.Background(), studio.ID, nil, svc.ID, domain.ServiceUpdate{
		MaxCapacity:      ptr(14),
		PriceCourseCents: ptr(int64(15000)),
	})
	require.NoError(t, err)
	assert.Equal(t, 14, updated.MaxCapacity)
	require.NotNil(t, updated.PriceCourseCents)
	assert.Equal(t, int64(15000), *updated.PriceCourseCents)
	assert.Equal(t, svc.Name, updated.Name)

	_, err = uc.Execute(context.Background(), studio.ID, nil, svc.ID, domain.ServiceUpdate{
		SoftLimitRatio: ptr(0.5),
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_limits"))

	var stored models.Service
	require.NoError(t, db.First(&stored, svc.ID).Error)
	assert.Equal(t, 1.0, stored.SoftLimitRatio)
	assert.Equal(t, 14, stored.MaxCapacity)
}

func TestUpdateService_OtherStudioIsNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.SeedStudio(t, db)
	other := testutil.SeedStudio(t, db)
	svc := testutil.SeedCourse(t, db, owner.ID, nil)
	uc := NewUpdateService(repository.NewCatalogGormRepository(db), nil)

	_, err := uc.Execute(context.Background(), other.ID, nil, svc.ID, domain.ServiceUpdate{Name: ptr("x")})
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestDeactivateService(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	svc := testutil.SeedCourse(t, db, studio.ID, nil)
	repo := repository.NewCatalogGormRepository(db)
	uc := NewDeactivateService(repo, nil)

	out, err := uc.Execute(context.Background(), studio.ID, nil, svc.ID)
	require.NoError(t, err)
	assert.False(t, out.IsActive)

	_, err = uc.Execute(context.Background(), studio.ID, nil, svc.ID)
	assert.True(t, httperr.IsBusiness(err, "service_already_inactive"))

	active, err := NewListServices(repo).Execute(context.Background(), studio.ID, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := NewListServices(repo).Execute(context.Background(), studio.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSchedules_CreateListDelete(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	svc := testutil.SeedCourse(t, db, studio.ID, nil)
	repo := repository.NewCatalogGormRepository(db)

	validFrom := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	create := NewCreateSchedule(repo, nil)

	thu, err := create.Execute(context.Background(), CreateScheduleInput{
		StudioID: studio.ID, ServiceID: svc.ID, DayOfWeek: 3, StartTime: "19:00", ValidFrom: validFrom,
	})
	require.NoError(t, err)
	_, err = create.Execute(context.Background(), CreateScheduleInput{
		StudioID: studio.ID, ServiceID: svc.ID, DayOfWeek: 0, StartTime: "08:00", ValidFrom: validFrom,
	})
	require.NoError(t, err)

	_, err = create.Execute(context.Background(), CreateScheduleInput{
		StudioID: studio.ID, ServiceID: svc.ID, DayOfWeek: 7, StartTime: "08:00", ValidFrom: validFrom,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_weekday"))

	before := validFrom.AddDate(0, 0, -1)
	_, err = create.Execute(context.Background(), CreateScheduleInput{
		StudioID: studio.ID, ServiceID: svc.ID, DayOfWeek: 1, StartTime: "08:00", ValidFrom: validFrom, ValidTo: &before,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_validity"))

	list, err := NewListSchedules(repo).Execute(context.Background(), studio.ID, svc.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 0, list[0].DayOfWeek)
	assert.Equal(t, 3, list[1].DayOfWeek)

	scheduleID := thu.ID
	serviceID := svc.ID
	linked := models.Slot{
		StudioID: studio.ID, ServiceID: &serviceID, ScheduleID: &scheduleID,
		StartTime: validFrom, EndTime: validFrom.Add(time.Hour),
		Title: svc.Name, MaxCapacity: 4, Status: "active", IsActive: true,
	}
	require.NoError(t, db.Create(&linked).Error)

	del := NewDeleteSchedule(repo, nil)
	require.NoError(t, del.Execute(context.Background(), studio.ID, nil, svc.ID, thu.ID))

	err = del.Execute(context.Background(), studio.ID, nil, svc.ID, thu.ID)
	assert.True(t, httperr.IsBusiness(err, "schedule_not_found"))

	var kept models.Slot
	require.NoError(t, db.First(&kept, linked.ID).Error)
	assert.Nil(t, kept.ScheduleID)
}

func TestGetStudioPublic_ListsActiveServicesWithNextOccurrence(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	course := testutil.SeedCourse(t, db, studio.ID, nil)
	hidden := testutil.SeedCourse(t, db, studio.ID, func(s *models.Service) { s.Name = "Retired" })
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)

	past := time.Now().UTC().AddDate(0, 0, -7).Truncate(time.Second)
	soon := time.Now().UTC().AddDate(0, 0, 3).Truncate(time.Second)
	later := soon.AddDate(0, 0, 7)
	testutil.SeedSlots(t, db, course, past, later, soon)

	out, err := NewGetStudioPublic(repository.NewCatalogGormRepository(db)).Execute(context.Background(), studio.ID)
	require.NoError(t, err)

	assert.Equal(t, studio.Slug, out.Slug)
	require.Len(t, out.Services, 1)
	assert.Equal(t, course.ID, out.Services[0].ID)
	assert.Equal(t, int64(2), out.Services[0].UpcomingCount)
	require.NotNil(t, out.Services[0].NextOccurrence)
	assert.True(t, out.Services[0].NextOccurrence.Equal(soon))
	require.NotNil(t, out.Services[0].TermEnd)
	assert.True(t, out.Services[0].TermEnd.Equal(later.Add(90*time.Minute)))

	avail := out.Services[0].Availability
	require.NotNil(t, avail)
	assert.True(t, avail.CanBook)
	assert.False(t, avail.RequiresWarning)
	assert.Equal(t, 20, avail.TotalRemainingCapacity)
	assert.Empty(t, avail.OverbookedDates)
}

func TestGetStudioPublic_FlagsTightCourseDates(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	course := testutil.SeedCourse(t, db, studio.ID, func(s *models.Service) {
		s.MaxCapacity = 4
		s.MaxOverbookedRatio = 0.5
	})
	dropIn := testutil.SeedCourse(t, db, studio.ID, func(s *models.Service) {
		s.Name = "Drop-in wheel"
		s.Type = "single_class"
	})

	first := time.Date(2030, 3, 4, 18, 0, 0, 0, time.UTC)
	slots := testutil.SeedSlots(t, db, course, testutil.Weekly(first, 4)...)
	testutil.SeedSlots(t, db, dropIn, first)
	testutil.SeedBookings(t, db, slots[2], "confirmed", 3)
	testutil.SeedBookings(t, db, slots[2], "pending", 1)

	out, err := NewGetStudioPublic(repository.NewCatalogGormRepository(db)).Execute(context.Background(), studio.ID)
	require.NoError(t, err)
	require.Len(t, out.Services, 2)

	byName := map[string]int{}
	for i, s := range out.Services {
		byName[s.Name] = i
	}

	avail := out.Services[byName["Pottery course"]].Availability
	require.NotNil(t, avail)
	assert.True(t, avail.CanBook)
	assert.True(t, avail.RequiresWarning)
	assert.Equal(t, 12, avail.TotalRemainingCapacity)
	assert.Equal(t, []string{"2030-03-18"}, avail.OverbookedDates)

	single := out.Services[byName["Drop-in wheel"]]
	assert.Equal(t, int64(1), single.UpcomingCount)
	assert.Nil(t, single.Availability)
}

func TestGetStudioPublic_HardBlockedCourseDoesNotWarn(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	course := testutil.SeedCourse(t, db, studio.ID, func(s *models.Service) { s.MaxCapacity = 2 })

	first := time.Date(2030, 3, 4, 18, 0, 0, 0, time.UTC)
	slots := testutil.SeedSlots(t, db, course, testutil.Weekly(first, 2)...)
	testutil.SeedBookings(t, db, slots[0], "confirmed", 3)

	out, err := NewGetStudioPublic(repository.NewCatalogGormRepository(db)).Execute(context.Background(), studio.ID)
	require.NoError(t, err)
	require.Len(t, out.Services, 1)

	avail := out.Services[0].Availability
	require.NotNil(t, avail)
	assert.False(t, avail.CanBook)
	assert.False(t, avail.RequiresWarning)
	assert.Equal(t, 2, avail.TotalRemainingCapacity)
	assert.Equal(t, []string{"2030-03-04"}, avail.OverbookedDates)
}

func TestGetStudioPublic_InactiveStudioIsNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	require.NoError(t, db.Model(studio).Update("is_active", false).Error)

	_, err := NewGetStudioPublic(repository.NewCatalogGormRepository(db)).Execute(context.Background(), studio.ID)
	assert.True(t, httperr.IsBusiness(err, "studio_not_found"))
}
