package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"card-memory/auth"
	"card-memory/config"
	"card-memory/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SessionManager defines what the Hub needs from the session manager.
type SessionManager interface {
	Start(name, userID string, send chan []byte) (*game.Game, error)
	Rejoin(gameID, rejoinToken string, send chan []byte) (*game.Game, error)
	RejoinByUser(userID string, send chan []byte) (*game.Game, error)
}

// Hub maintains the set of active clients and routes messages.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Sessions   SessionManager
	Config     *config.Config
	Auth       *auth.Validator
}

// NewHub creates a new Hub. validator may be nil, in which case auth messages are rejected.
func NewHub(cfg *config.Config, sm SessionManager, validator *auth.Validator) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Sessions:   sm,
		Config:     cfg,
		Auth:       validator,
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run returns and no longer accepts new registrations.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping", "tag", "ws")
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "ws", "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				slog.Info("client disconnected", "tag", "ws", "clients", len(h.Clients))

				// Keep the game alive for a while so the player can rejoin.
				// Submit blocks while the action queue is full, so it must not run on the hub loop.
				if g := client.CurrentGame(); g != nil && !g.IsFinished() {
					go g.Submit(game.Action{Type: game.ActionPlayerDisconnected})
				}
			}
		}
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "tag", "ws", "err", err)
		return
	}

	client := &Client{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
