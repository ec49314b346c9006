package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/notify"
	provider "github.com/BruksfildServices01/studio-scheduler/internal/payment"
	"github.com/BruksfildServices01/studio-scheduler/internal/testutil"
)

const secret = "whsec_settlement"

// ------------------------------------------------------
// fakes
// ------------------------------------------------------

// memoryDeduper honours context cancellation the way a network-backed
// store does. onSeen runs after the lookup, before settlement starts.
type memoryDeduper struct {
	mu     sync.Mutex
	seen   map[string]bool
	err    error
	onSeen func()
}

func newMemoryDeduper() *memoryDeduper {
	return &memoryDeduper{seen: map[string]bool{}}
}

func (d *memoryDeduper) Seen(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.Lock()
	seen, err := d.seen[id], d.err
	hook := d.onSeen
	d.mu.Unlock()

	if hook != nil {
		hook()
	}
	return seen, err
}

func (d *memoryDeduper) MarkProcessed(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.seen[id] = true
	return nil
}

type recordingNotifier struct {
	events chan notify.BookingConfirmed
	err    error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan notify.BookingConfirmed, 10)}
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, ev notify.BookingConfirmed) error {
	n.events <- ev
	return n.err
}

// ------------------------------------------------------
// fixtures
// ------------------------------------------------------

type fixture struct {
	db       *gorm.DB
	order    models.Order
	bookings []models.Booking
	notifier *recordingNotifier
	deduper  *memoryDeduper
	uc       *ApplySettlement
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	studio := testutil.SeedStudio(t, db)
	svc := testutil.SeedCourse(t, db, studio.ID, nil)
	slots := testutil.SeedSlots(t, db, svc, testutil.Weekly(time.Date(2030, 5, 6, 18, 0, 0, 0, time.UTC), 3)...)

	order := models.Order{
		StudioID:         studio.ID,
		ServiceID:        svc.ID,
		GuestName:        "Ada",
		GuestEmail:       "ada@example.com",
		TotalAmountCents: 7500,
		Currency:         "eur",
		Status:           "pending",
	}
	require.NoError(t, db.Create(&order).Error)

	serviceID := svc.ID
	bookings := make([]models.Booking, 0, len(slots))
	for _, s := range slots {
		orderID := order.ID
		bookings = append(bookings, models.Booking{
			SlotID:      s.ID,
			Status:      "pending",
			BookingType: "course",
			ServiceID:   &serviceID,
			OrderID:     &orderID,
			GuestName:   "Ada",
			GuestEmail:  "ada@example.com",
		})
	}
	require.NoError(t, db.Create(&bookings).Error)

	n := newRecordingNotifier()
	d := newMemoryDeduper()

	return &fixture{
		db:       db,
		order:    order,
		bookings: bookings,
		notifier: n,
		deduper:  d,
		uc: NewApplySettlement(
			repository.NewBookingGormRepository(db),
			provider.NewWebhookVerifier(secret),
			d,
			n,
			"eur",
			nil,
			logger.Discard(),
		),
	}
}

func completed(eventID, metadata string) (payload []byte, header string) {
	body := fmt.Sprintf(`{
  "id": %q,
  "object": "event",
  "type": "checkout.session.completed",
  "data": {"object": {
    "id": "cs_%s",
    "object": "checkout.session",
    "payment_intent": "pi_%s",
    "metadata": %s
  }}
}`, eventID, eventID, eventID, metadata)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(body),
		Secret:  secret,
	})
	return signed.Payload, signed.Header
}

func orderMeta(id uint) string {
	return fmt.Sprintf(`{"order_id": "%d"}`, id)
}

func statuses(t *testing.T, db *gorm.DB, orderID uint) []string {
	t.Helper()
	var bs []models.Booking
	require.NoError(t, db.Where("order_id = ?", orderID).Order("id").Find(&bs).Error)
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Status
	}
	return out
}

// ------------------------------------------------------
// tests
// ------------------------------------------------------

func TestApplySettlement_PaysOrderAndConfirmsBookings(t *testing.T) {
	f := setup(t)

	payload, header := completed("evt_1", orderMeta(f.order.ID))
	outcome, err := f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOrderPaid, outcome)

	var order models.Order
	require.NoError(t, f.db.First(&order, f.order.ID).Error)
	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, "pi_evt_1", order.PaymentIntentID)
	assert.NotNil(t, order.PaidAt)

	assert.Equal(t, []string{"confirmed", "confirmed", "confirmed"}, statuses(t, f.db, f.order.ID))

	var b models.Booking
	require.NoError(t, f.db.First(&b, f.bookings[0].ID).Error)
	assert.Equal(t, "succeeded", b.PaymentStatus)
	assert.Equal(t, "pi_evt_1", b.PaymentIntentID)
	assert.NotNil(t, b.ConfirmedAt)

	select {
	case ev := <-f.notifier.events:
		require.NotNil(t, ev.OrderID)
		assert.Equal(t, f.order.ID, *ev.OrderID)
		assert.Len(t, ev.BookingIDs, 3)
		assert.Equal(t, "Pottery course", ev.ServiceName)
		assert.Equal(t, int64(7500), ev.AmountCents)
	case <-time.After(2 * time.Second):
		t.Fatal("booking.confirmed was not published")
	}
}

func TestApplySettlement_RedeliveryIsNoOp(t *testing.T) {
	f := setup(t)

	payload, header := completed("evt_1", orderMeta(f.order.ID))
	_, err := f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	<-f.notifier.events

	var before models.Order
	require.NoError(t, f.db.First(&before, f.order.ID).Error)

	outcome, err := f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)

	// a fresh event id for the same order passes the deduper and still changes nothing
	payload, header = completed("evt_2", orderMeta(f.order.ID))
	outcome, err = f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOrderAlreadyPaid, outcome)

	var after models.Order
	require.NoError(t, f.db.First(&after, f.order.ID).Error)
	assert.Equal(t, before.PaymentIntentID, after.PaymentIntentID)
	assert.True(t, before.PaidAt.Equal(*after.PaidAt))

	assert.Empty(t, f.notifier.events)
}

func TestApplySettlement_InterruptedDeliveryIsRetried(t *testing.T) {
	f := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	f.deduper.onSeen = cancel

	payload, header := completed("evt_1", orderMeta(f.order.ID))
	_, err := f.uc.Execute(ctx, payload, header)
	require.Error(t, err)

	assert.NotContains(t, f.deduper.seen, "evt_1")
	assert.Equal(t, []string{"pending", "pending", "pending"}, statuses(t, f.db, f.order.ID))

	f.deduper.onSeen = nil

	outcome, err := f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOrderPaid, outcome)

	var order models.Order
	require.NoError(t, f.db.First(&order, f.order.ID).Error)
	assert.Equal(t, "paid", order.Status)
	assert.True(t, f.deduper.seen["evt_1"])
}

func TestApplySettlement_WorksWithoutEventStore(t *testing.T) {
	f := setup(t)
	f.deduper.err = errors.New("redis down")

	payload, header := completed("evt_1", orderMeta(f.order.ID))
	outcome, err := f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOrderPaid, outcome)

	outcome, err = f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOrderAlreadyPaid, outcome)
}

func TestApplySettlement_LeavesCancelledBookingsAlone(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Model(&f.bookings[1]).Update("status", "cancelled").Error)

	payload, header := completed("evt_1", orderMeta(f.order.ID))
	_, err := f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)

	assert.Equal(t, []string{"confirmed", "cancelled", "confirmed"}, statuses(t, f.db, f.order.ID))
}

func TestApplySettlement_RejectsBadSignature(t *testing.T) {
	f := setup(t)

	payload, _ := completed("evt_1", orderMeta(f.order.ID))
	forged := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  "whsec_forged",
	})

	_, err := f.uc.Execute(context.Background(), payload, forged.Header)
	require.Error(t, err)
	assert.Equal(t, httperr.KindExternal, httperr.KindOf(err))

	assert.Equal(t, []string{"pending", "pending", "pending"}, statuses(t, f.db, f.order.ID))
	assert.Empty(t, f.deduper.seen)
}

func TestApplySettlement_AcknowledgesUnactionableEvents(t *testing.T) {
	f := setup(t)

	cases := []struct {
		name string
		meta string
	}{
		{"no ids", `{}`},
		{"unknown order", orderMeta(987654)},
		{"unknown booking", `{"booking_id": "987654"}`},
		{"unparsable id", `{"order_id": "abc"}`},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, header := completed(fmt.Sprintf("evt_anomaly_%d", i), tc.meta)
			outcome, err := f.uc.Execute(context.Background(), payload, header)
			require.NoError(t, err)
			assert.Equal(t, OutcomeAnomaly, outcome)
		})
	}

	assert.Equal(t, []string{"pending", "pending", "pending"}, statuses(t, f.db, f.order.ID))
}

func TestApplySettlement_IgnoresOtherEventTypes(t *testing.T) {
	f := setup(t)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(`{"id":"evt_x","object":"event","type":"charge.refunded","data":{"object":{}}}`),
		Secret:  secret,
	})

	outcome, err := f.uc.Execute(context.Background(), signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
}

func TestApplySettlement_CancelledOrderIsNotRevived(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Model(&models.Order{}).Where("id = ?", f.order.ID).Update("status", "cancelled").Error)

	payload, header := completed("evt_1", orderMeta(f.order.ID))
	outcome, err := f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnomaly, outcome)

	var order models.Order
	require.NoError(t, f.db.First(&order, f.order.ID).Error)
	assert.Equal(t, "cancelled", order.Status)
	assert.Equal(t, []string{"pending", "pending", "pending"}, statuses(t, f.db, f.order.ID))
}

func TestApplySettlement_SingleBookingPath(t *testing.T) {
	f := setup(t)

	slot := models.Slot{
		StudioID:    f.order.StudioID,
		StartTime:   time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC),
		Title:       "Drop-in",
		MaxCapacity: 8,
		PriceCents:  1500,
		Status:      "active",
		IsActive:    true,
	}
	require.NoError(t, f.db.Create(&slot).Error)

	price := int64(1500)
	single := models.Booking{
		SlotID:         slot.ID,
		Status:         "pending",
		BookingType:    "single",
		GuestName:      "Grace",
		GuestEmail:     "grace@example.com",
		UnitPriceCents: &price,
	}
	require.NoError(t, f.db.Create(&single).Error)

	meta := fmt.Sprintf(`{"booking_id": "%d"}`, single.ID)
	payload, header := completed("evt_single", meta)

	outcome, err := f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBookingConfirmed, outcome)

	var stored models.Booking
	require.NoError(t, f.db.First(&stored, single.ID).Error)
	assert.Equal(t, "confirmed", stored.Status)
	assert.Equal(t, "pi_evt_single", stored.PaymentIntentID)

	select {
	case ev := <-f.notifier.events:
		assert.Equal(t, []uint{single.ID}, ev.BookingIDs)
		assert.Equal(t, "eur", ev.Currency)
		assert.Equal(t, int64(1500), ev.AmountCents)
	case <-time.After(2 * time.Second):
		t.Fatal("booking.confirmed was not published")
	}

	payload, header = completed("evt_single_again", meta)
	outcome, err = f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBookingAlready, outcome)
}

func TestApplySettlement_NotifierFailureDoesNotFailCallback(t *testing.T) {
	f := setup(t)
	f.notifier.err = errors.New("broker unreachable")

	payload, header := completed("evt_1", orderMeta(f.order.ID))
	outcome, err := f.uc.Execute(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOrderPaid, outcome)

	select {
	case <-f.notifier.events:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}
