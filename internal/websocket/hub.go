package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Mini Apps are served from their own origin inside Telegram; the token authenticates.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks open connections per user and delivers messages to them.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	direct     chan directMessage
	connected  chan countQuery
	done       chan struct{}
	log        *logrus.Entry
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

type directMessage struct {
	userID  string
	payload []byte
}

type countQuery struct {
	userID string
	reply  chan int
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage, 256),
		connected:  make(chan countQuery),
		done:       make(chan struct{}),
		log:        log.WithField("component", "websocket"),
	}
}

// Run owns the client registry until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					h.drop(client)
				}
			}
			return

		case client := <-h.register:
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			metrics.IncWSActive()
			h.log.WithField("user_id", client.userID).Debug("client connected")

		case client := <-h.unregister:
			if h.clients[client.userID][client] {
				h.drop(client)
				h.log.WithField("user_id", client.userID).Debug("client disconnected")
			}

		case msg := <-h.direct:
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.payload:
				default:
					h.drop(client)
				}
			}

		case q := <-h.connected:
			q.reply <- len(h.clients[q.userID])
		}
	}
}

func (h *Hub) drop(client *Client) {
	conns := h.clients[client.userID]
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	metrics.DecWSActive()
}

// SendToUser queues payload for every connection of userID. It never blocks the caller for long.
func (h *Hub) SendToUser(userID string, payload []byte) {
	select {
	case h.direct <- directMessage{userID: userID, payload: payload}:
	case <-h.done:
	case <-time.After(time.Second):
		h.log.WithField("user_id", userID).Warn("websocket hub busy, message dropped")
	}
}

// Connections returns how many connections userID has open.
func (h *Hub) Connections(userID string) int {
	reply := make(chan int, 1)
	select {
	case h.connected <- countQuery{userID: userID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

// HandleWebSocket upgrades the request for the authenticated user userID.
func HandleWebSocket(hub *Hub, c *gin.Context, userID string) {
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
	}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only keeps the connection alive; clients do not send commands.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).WithField("user_id", c.userID).Warn("websocket read error")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.WithError(err).WithField("user_id", c.userID).Warn("websocket write error")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
