package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-miniapp-backend/internal/events"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log, _ := test.NewNullLogger()
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func dial(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		HandleWebSocket(hub, c, userID)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Connections(userID) == 1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readNotification(t *testing.T, conn *websocket.Conn) Notification {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, body, err := conn.ReadMessage()
	require.NoError(t, err)
	var n Notification
	require.NoError(t, json.Unmarshal(body, &n))
	return n
}

func TestRelayDeliversLocally(t *testing.T) {
	hub := newTestHub(t)
	conn := dial(t, hub, "user-1")
	log, _ := test.NewNullLogger()
	relay := NewRelay(hub, nil, log)

	err := relay.Deliver(context.Background(), events.New(events.MatchCreated, []string{"user-1", "user-2"}, map[string]interface{}{"match_id": "m1"}))
	require.NoError(t, err)

	n := readNotification(t, conn)
	assert.Equal(t, events.MatchCreated, n.Type)
	assert.Equal(t, "m1", n.Payload["match_id"])
}

type chanBroker struct {
	ch chan []byte
}

func (b *chanBroker) Publish(_ context.Context, _ string, payload []byte) error {
	b.ch <- payload
	return nil
}

func (b *chanBroker) Listen(context.Context, string) (<-chan []byte, error) {
	return b.ch, nil
}

func TestRelayThroughBroker(t *testing.T) {
	hub := newTestHub(t)
	conn := dial(t, hub, "user-1")
	log, _ := test.NewNullLogger()
	broker := &chanBroker{ch: make(chan []byte, 4)}
	relay := NewRelay(hub, broker, log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go relay.Run(ctx)

	broker.ch <- []byte("not json")
	require.NoError(t, relay.Deliver(context.Background(), events.New(events.TargetStatusChanged, []string{"user-1"}, map[string]interface{}{"demoted": true})))

	n := readNotification(t, conn)
	assert.Equal(t, events.TargetStatusChanged, n.Type)
	assert.Equal(t, true, n.Payload["demoted"])
}

func TestHandleWebSocketRequiresUser(t *testing.T) {
	hub := newTestHub(t)
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)

	HandleWebSocket(hub, c, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// flakyBroker fails its first `failures` subscriptions.
type flakyBroker struct {
	chanBroker
	mu       sync.Mutex
	failures int
	attempts int
}

func (b *flakyBroker) Listen(ctx context.Context, channel string) (<-chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts++
	if b.attempts <= b.failures {
		return nil, errors.New("connection refused")
	}
	return b.chanBroker.Listen(ctx, channel)
}

func TestRelayRetriesSubscription(t *testing.T) {
	hub := newTestHub(t)
	conn := dial(t, hub, "user-1")
	log, _ := test.NewNullLogger()
	broker := &flakyBroker{chanBroker: chanBroker{ch: make(chan []byte, 4)}, failures: 2}
	relay := NewRelay(hub, broker, log)
	relay.retryDelay = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go relay.Run(ctx)

	require.NoError(t, relay.Deliver(context.Background(), events.New(events.MatchCreated, []string{"user-1"}, map[string]interface{}{"match_id": "m2"})))

	n := readNotification(t, conn)
	assert.Equal(t, "m2", n.Payload["match_id"])
	broker.mu.Lock()
	defer broker.mu.Unlock()
	assert.Equal(t, 3, broker.attempts)
}

func TestRelayRunStopsWithContext(t *testing.T) {
	log, _ := test.NewNullLogger()
	relay := NewRelay(newTestHub(t), &flakyBroker{failures: 1 << 30}, log)
	relay.retryDelay = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}
