package handlers

import (
	"net/http"
	"slices"

	"github.com/CrowderSoup/todo-agenda/services"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// FeedHandler streams todo change events over a websocket
type FeedHandler struct {
	hub      *services.Hub
	upgrader websocket.Upgrader
}

func NewFeedHandler(hub *services.Hub, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Subscribe upgrades the HTTP connection and registers it with the hub
func (h *FeedHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		loggerFrom(r).Warn("Error upgrading to WebSocket", "err", err)
		return
	}

	client := services.NewClient(h.hub, conn, uuid.NewString())
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
