package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/testutil"
)

func TestDispatcherPersistsEvents(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db), logger.Discard())

	orderID := uint(7)
	d.Dispatch(Event{
		StudioID: 3,
		Action:   "course_order_created",
		Entity:   "order",
		EntityID: &orderID,
		Metadata: map[string]any{"bookings": 8},
	})
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, uint(3), logs[0].StudioID)
	assert.Equal(t, "course_order_created", logs[0].Action)
	assert.JSONEq(t, `{"bookings":8}`, logs[0].Metadata)
}

type blockingWriter struct {
	release chan struct{}
}

func (w blockingWriter) Log(context.Context, Event) error {
	<-w.release
	return nil
}

func TestDispatchDropsWhenFull(t *testing.T) {
	w := blockingWriter{release: make(chan struct{})}
	d := NewDispatcher(w, logger.Discard())

	// worker holds one event, the buffer holds 100 more; the rest are dropped
	for i := 0; i < 250; i++ {
		d.Dispatch(Event{Action: "noise"})
	}
	assert.LessOrEqual(t, len(d.queue), cap(d.queue))

	close(w.release)
	d.Close()
}

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "x"})
		d.Close()
	})
}
