package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/metrics"
)

type Type string

const (
	MatchCreated        Type = "match.created"
	ReportCreated       Type = "report.created"
	TargetEscalated     Type = "target.escalated"
	ReportResolved      Type = "report.resolved"
	TargetStatusChanged Type = "target.status_changed"
)

// Event is a domain notification. UserIDs lists the users it should be delivered to.
type Event struct {
	ID         string                 `json:"id"`
	Type       Type                   `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	UserIDs    []string               `json:"user_ids,omitempty"`
	Payload    map[string]interface{} `json:"payload"`
}

func New(t Type, userIDs []string, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		UserIDs:    userIDs,
		Payload:    payload,
	}
}

// Publisher never fails the caller; delivery errors are the publisher's concern.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Sink is one delivery channel (amqp, realtime, telegram).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Event) error
}

const deliveryTimeout = 10 * time.Second

// Bus fans events out to every sink in the background.
type Bus struct {
	sinks []Sink
	log   *logrus.Entry
	wg    sync.WaitGroup
}

var _ Publisher = (*Bus)(nil)

func NewBus(log *logrus.Logger, sinks ...Sink) *Bus {
	return &Bus{
		sinks: sinks,
		log:   log.WithField("component", "events"),
	}
}

func (b *Bus) Publish(ctx context.Context, e Event) {
	if len(b.sinks) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		defer cancel()

		for _, s := range b.sinks {
			if err := s.Deliver(ctx, e); err != nil {
				metrics.IncEventDeliveryError(s.Name())
				b.log.WithError(err).WithFields(logrus.Fields{
					"sink":     s.Name(),
					"event":    e.Type,
					"event_id": e.ID,
				}).Warn("event delivery failed")
			}
		}
	}()
}

// Close waits for in-flight deliveries.
func (b *Bus) Close() {
	b.wg.Wait()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
