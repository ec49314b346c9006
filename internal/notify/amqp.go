package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
)

// AMQPPublisher sends events to a durable topic exchange. A queue named after
// the routing key is declared and bound so messages survive until a consumer
// starts.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
	log      *logger.Logger
}

func NewAMQPPublisher(url, exchange string, log *logger.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	if _, err := ch.QueueDeclare(RoutingBookingConfirmed, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	if err := ch.QueueBind(RoutingBookingConfirmed, RoutingBookingConfirmed, exchange, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	log.Info("AMQP", "publisher ready on exchange "+exchange)
	return &AMQPPublisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		log:      log,
	}, nil
}

func (p *AMQPPublisher) BookingConfirmed(ctx context.Context, ev BookingConfirmed) error {
	msg, err := bookingConfirmedMessage(ev, time.Now().UTC())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx,
		p.exchange,
		RoutingBookingConfirmed,
		false,
		false,
		msg,
	)
}

func bookingConfirmedMessage(ev BookingConfirmed, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         RoutingBookingConfirmed,
		Timestamp:    now,
		Body:         body,
	}, nil
}

func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.ch.Close()
	_ = p.conn.Close()
}

// LogNotifier writes events to the application log. It stands in when no
// broker is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) BookingConfirmed(_ context.Context, ev BookingConfirmed) error {
	n.log.Info("NOTIFY", fmt.Sprintf(
		"%s: studio %d, %d bookings for %s",
		RoutingBookingConfirmed, ev.StudioID, len(ev.BookingIDs), ev.GuestEmail,
	))
	return nil
}
