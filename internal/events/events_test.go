package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	err  error

	mu  sync.Mutex
	got []Event
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, e)
	return s.err
}

func TestBusPublish(t *testing.T) {
	log, hook := test.NewNullLogger()
	failing := &recordingSink{name: "failing", err: errors.New("down")}
	ok := &recordingSink{name: "ok"}
	bus := NewBus(log, failing, ok)

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, New(MatchCreated, []string{"a", "b"}, map[string]interface{}{"match_id": "m"}))
	cancel()
	bus.Close()

	require.Len(t, ok.got, 1)
	assert.Equal(t, MatchCreated, ok.got[0].Type)
	assert.Equal(t, []string{"a", "b"}, ok.got[0].UserIDs)
	assert.NotEmpty(t, ok.got[0].ID)
	assert.Len(t, failing.got, 1)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "failing", hook.LastEntry().Data["sink"])
}

func TestBusWithoutSinks(t *testing.T) {
	log, _ := test.NewNullLogger()
	bus := NewBus(log)
	bus.Publish(context.Background(), New(ReportCreated, nil, nil))
	bus.Close()

	Nop{}.Publish(context.Background(), New(ReportCreated, nil, nil))
}
