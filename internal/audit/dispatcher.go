package audit

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
)

type Event struct {
	StudioID uint
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Writer is the sink a Dispatcher drains into.
type Writer interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher writes audit events from a single background worker. Dispatch
// never blocks: when the queue is full the event is dropped and logged.
type Dispatcher struct {
	writer Writer
	log    *logger.Logger
	queue  chan Event
	done   chan struct{}
	once   sync.Once
}

func NewDispatcher(writer Writer, log *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		log:    log,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.writer.Log(context.Background(), ev); err != nil {
			d.log.Error("AUDIT", "write failed for "+ev.Action+": "+err.Error())
		}
	}
}

// Dispatch is safe on a nil Dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("AUDIT", "queue full, dropping "+ev.Action)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}
