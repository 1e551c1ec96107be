package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/events"
)

// Publisher delivers domain events to a topic exchange, routed by event type.
type Publisher interface {
	events.Sink
	Close() error
}

// NewPublisher builds a RabbitMQ publisher or a noop publisher when AMQP is disabled or unreachable.
func NewPublisher(amqpURL, exchange string, log *logrus.Logger) Publisher {
	l := log.WithField("component", "rabbitmq")
	if amqpURL == "" {
		l.Info("rabbitmq disabled, using noop: empty amqp url")
		return noopPublisher{log: l}
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		l.WithError(err).Warn("rabbitmq disabled, using noop")
		return noopPublisher{log: l}
	}

	ch, err := conn.Channel()
	if err != nil {
		l.WithError(err).Warn("rabbitmq disabled, using noop")
		_ = conn.Close()
		return noopPublisher{log: l}
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		l.WithError(err).Warn("rabbitmq disabled, using noop")
		_ = ch.Close()
		_ = conn.Close()
		return noopPublisher{log: l}
	}

	l.WithField("exchange", exchange).Info("rabbitmq connected")
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func (p *amqpPublisher) Name() string { return "amqp" }

func (p *amqpPublisher) Deliver(ctx context.Context, e events.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, string(e.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Timestamp:    e.OccurredAt,
		Type:         string(e.Type),
		Body:         body,
	})
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct {
	log *logrus.Entry
}

func (noopPublisher) Name() string { return "amqp-noop" }

func (p noopPublisher) Deliver(_ context.Context, e events.Event) error {
	p.log.WithFields(logrus.Fields{"routing_key": e.Type, "event_id": e.ID}).Debug("rabbitmq noop publish")
	return nil
}

func (noopPublisher) Close() error {
	return nil
}

// PublisherMode reports the publisher mode for logging.
func PublisherMode(p Publisher) string {
	switch p.(type) {
	case *amqpPublisher:
		return "amqp"
	case noopPublisher:
		return "noop"
	default:
		return "unknown"
	}
}
