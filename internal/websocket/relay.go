package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/events"
)

const (
	eventsChannel = "miniapp:events"
	maxRetryDelay = 30 * time.Second
)

// Broker carries events between instances (redis pub/sub).
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Listen(ctx context.Context, channel string) (<-chan []byte, error)
}

// Notification is what a connected client receives.
type Notification struct {
	Type    events.Type            `json:"type"`
	ID      string                 `json:"id"`
	Payload map[string]interface{} `json:"payload"`
}

// Relay is the realtime event sink. With a broker, events go through pub/sub so users connected to
// any instance receive them; without one, they are delivered to the local hub only.
type Relay struct {
	hub        *Hub
	broker     Broker
	log        *logrus.Entry
	retryDelay time.Duration
}

var _ events.Sink = (*Relay)(nil)

func NewRelay(hub *Hub, broker Broker, log *logrus.Logger) *Relay {
	return &Relay{
		hub:        hub,
		broker:     broker,
		log:        log.WithField("component", "realtime"),
		retryDelay: time.Second,
	}
}

func (r *Relay) Name() string { return "realtime" }

func (r *Relay) Deliver(ctx context.Context, e events.Event) error {
	if len(e.UserIDs) == 0 {
		return nil
	}
	if r.broker == nil {
		r.dispatch(e)
		return nil
	}
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.broker.Publish(ctx, eventsChannel, body)
}

// Run forwards broker messages to the local hub until ctx is done, subscribing again with
// exponential backoff whenever the subscription fails or ends.
func (r *Relay) Run(ctx context.Context) {
	if r.broker == nil {
		return
	}
	delay := r.retryDelay
	for {
		msgs, err := r.broker.Listen(ctx, eventsChannel)
		if err != nil {
			r.log.WithError(err).WithField("retry_in", delay).Warn("realtime subscription failed")
		} else {
			delay = r.retryDelay
			r.consume(msgs)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if delay *= 2; delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}

func (r *Relay) consume(msgs <-chan []byte) {
	for body := range msgs {
		var e events.Event
		if err := json.Unmarshal(body, &e); err != nil {
			r.log.WithError(err).Warn("malformed realtime event")
			continue
		}
		r.dispatch(e)
	}
}

func (r *Relay) dispatch(e events.Event) {
	payload, err := json.Marshal(Notification{Type: e.Type, ID: e.ID, Payload: e.Payload})
	if err != nil {
		r.log.WithError(err).Warn("failed to encode notification")
		return
	}
	for _, userID := range e.UserIDs {
		r.hub.SendToUser(userID, payload)
	}
}
