package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-miniapp-backend/internal/websocket"
)

func TestWSConnectUsesAuthenticatedUser(t *testing.T) {
	hub := websocket.NewHub(nullLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	r := newRouter()
	r.GET("/ws", NewWSHandler(hub).Connect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := gorilla.DefaultDialer.Dial(url, http.Header{testUserHeader: []string{"me"}})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	assert.Eventually(t, func() bool { return hub.Connections("me") == 1 }, 2*time.Second, 10*time.Millisecond)
}
