package handlers

import (
	"github.com/gin-gonic/gin"

	"tg-miniapp-backend/internal/websocket"
)

type WSHandler struct {
	hub *websocket.Hub
}

func NewWSHandler(hub *websocket.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect upgrades the request for the user AuthRequired put in the context.
func (h *WSHandler) Connect(c *gin.Context) {
	websocket.HandleWebSocket(h.hub, c, currentUserID(c))
}
