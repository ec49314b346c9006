package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/testutil"
)

func TestConfirmPendingOrderBookings(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	studio := testutil.SeedStudio(t, db)
	svc := testutil.SeedCourse(t, db, studio.ID, nil)
	slots := testutil.SeedSlots(t, db, svc, testutil.Weekly(time.Date(2030, 1, 7, 18, 0, 0, 0, time.UTC), 3)...)

	order := &models.Order{StudioID: studio.ID, ServiceID: svc.ID, Currency: "eur", Status: "pending", TotalAmountCents: 7500}
	require.NoError(t, db.Create(order).Error)

	statuses := []string{"pending", "pending", "cancelled"}
	for i, s := range slots {
		require.NoError(t, db.Create(&models.Booking{
			SlotID: s.ID, OrderID: &order.ID, Status: statuses[i], BookingType: "course",
		}).Error)
	}

	n, err := repo.ConfirmPendingOrderBookings(ctx, order.ID, "pi_42", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var bookings []models.Booking
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("id ASC").Find(&bookings).Error)
	assert.Equal(t, "confirmed", bookings[0].Status)
	assert.Equal(t, "pi_42", bookings[0].PaymentIntentID)
	assert.Equal(t, "succeeded", bookings[1].PaymentStatus)
	assert.Equal(t, "cancelled", bookings[2].Status)
}

func TestGetBookingForStudioScopesByStudio(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	studio := testutil.SeedStudio(t, db)
	other := testutil.SeedStudio(t, db)
	svc := testutil.SeedCourse(t, db, studio.ID, nil)
	slots := testutil.SeedSlots(t, db, svc, time.Date(2030, 1, 7, 18, 0, 0, 0, time.UTC))

	b := &models.Booking{SlotID: slots[0].ID, Status: "pending", BookingType: "single"}
	require.NoError(t, db.Create(b).Error)

	got, err := repo.GetBookingForStudio(ctx, studio.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = repo.GetBookingForStudio(ctx, other.ID, b.ID)
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
}

func TestCountActiveBookings(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)

	studio := testutil.SeedStudio(t, db)
	svc := testutil.SeedCourse(t, db, studio.ID, nil)
	slots := testutil.SeedSlots(t, db, svc, time.Date(2030, 1, 7, 18, 0, 0, 0, time.UTC))

	testutil.SeedBookings(t, db, slots[0], "pending", 2)
	testutil.SeedBookings(t, db, slots[0], "confirmed", 1)
	testutil.SeedBookings(t, db, slots[0], "cancelled", 5)

	n, err := repo.CountActiveBookings(context.Background(), slots[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestGetOrderNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)

	_, err := repo.GetOrder(context.Background(), 12345, true)
	assert.True(t, httperr.IsBusiness(err, "order_not_found"))
}

func TestDeletingOrderOrSlotRemovesItsBookings(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	assert.True(t, db.Migrator().HasConstraint(&models.Booking{}, "Slot"))
	assert.True(t, db.Migrator().HasConstraint(&models.Booking{}, "Order"))

	studio := testutil.SeedStudio(t, db)
	svc := testutil.SeedCourse(t, db, studio.ID, nil)
	slots := testutil.SeedSlots(t, db, svc, testutil.Weekly(time.Date(2030, 1, 7, 18, 0, 0, 0, time.UTC), 2)...)

	order := &models.Order{StudioID: studio.ID, ServiceID: svc.ID, Currency: "eur", Status: "pending", TotalAmountCents: 5000}
	require.NoError(t, db.Create(order).Error)
	for _, s := range slots {
		require.NoError(t, db.Create(&models.Booking{
			SlotID: s.ID, OrderID: &order.ID, Status: "pending", BookingType: "course",
		}).Error)
	}
	testutil.SeedBookings(t, db, slots[1], "pending", 1)

	count := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.Booking{}).Count(&n).Error)
		return n
	}
	require.Equal(t, int64(3), count())

	require.NoError(t, db.Delete(&models.Order{}, order.ID).Error)
	assert.Equal(t, int64(1), count())

	require.NoError(t, db.Delete(&models.Slot{}, slots[1].ID).Error)
	assert.Zero(t, count())
}
