package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"card-memory/auth"
	"card-memory/game"
	"card-memory/sessionerrors"
	"card-memory/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Name   string
	UserID string

	mu   sync.Mutex
	game *game.Game
}

// CurrentGame returns the game the client is playing, if any. Safe for concurrent use.
func (c *Client) CurrentGame() *game.Game {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.game
}

// SetGame attaches the client to g (nil detaches). Safe for concurrent use.
func (c *Client) SetGame(g *game.Game) {
	c.mu.Lock()
	c.game = g
	c.mu.Unlock()
}

// activeGame returns the current game unless it has finished.
func (c *Client) activeGame() *game.Game {
	g := c.CurrentGame()
	if g == nil || g.IsFinished() {
		return nil
	}
	return g
}

// ReadPump pumps messages from the websocket connection to the hub.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "auth":
		c.handleAuth(envelope.Raw)
	case "new_game":
		c.handleNewGame(envelope.Raw)
	case "select":
		c.handleSelect(envelope.Raw)
	case "click":
		c.handleClick(envelope.Raw)
	case "rejoin":
		c.handleRejoin(envelope.Raw)
	case "play_again":
		c.handlePlayAgain()
	case "leave":
		c.handleLeave()
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

func (c *Client) handleAuth(raw json.RawMessage) {
	var msg AuthMsg
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Token == "" {
		c.sendError("Invalid auth message.")
		return
	}
	if !c.Hub.Auth.Enabled() {
		c.sendError("Server auth not configured.")
		return
	}
	claims, err := c.Hub.Auth.Validate(msg.Token)
	if err != nil {
		slog.Debug("token rejected", "tag", "ws", "err", err)
		c.sendError("Invalid or expired token.")
		return
	}
	c.UserID = auth.UserIDFromClaims(claims)
	c.Name = c.clampName(auth.FirstNameFromClaims(claims))

	rejoined := false
	if c.activeGame() == nil && c.UserID != "" {
		if g, err := c.Hub.Sessions.RejoinByUser(c.UserID, c.Send); err == nil {
			c.SetGame(g)
			rejoined = true
		}
	}
	c.send(AuthOKMsg{Type: "auth_ok", UserID: c.UserID, Name: c.Name, Rejoined: rejoined})
}

func (c *Client) handleNewGame(raw json.RawMessage) {
	var msg NewGameMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid new_game message.")
		return
	}
	if c.activeGame() != nil {
		c.sendError("You are already in a game.")
		return
	}

	name := strings.TrimSpace(msg.Name)
	if name != "" {
		if utf8.RuneCountInString(name) > c.Hub.Config.MaxNameLength {
			c.sendError(fmt.Sprintf("Name must be between 1 and %d characters.", c.Hub.Config.MaxNameLength))
			return
		}
		c.Name = name
	}
	if c.Name == "" {
		c.Name = auth.DefaultName
	}
	c.startGame()
}

func (c *Client) startGame() {
	g, err := c.Hub.Sessions.Start(c.Name, c.UserID, c.Send)
	if err != nil {
		slog.Error("starting game failed", "tag", "ws", "err", err)
		c.sendError("Could not start a game.")
		return
	}
	c.SetGame(g)
}

func (c *Client) handleSelect(raw json.RawMessage) {
	g := c.activeGame()
	if g == nil {
		c.sendError("You are not in a game.")
		return
	}

	var msg SelectMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid select message.")
		return
	}

	g.Submit(game.Action{Type: game.ActionSelect, X: msg.X, Y: msg.Y})
}

func (c *Client) handleClick(raw json.RawMessage) {
	g := c.activeGame()
	if g == nil {
		c.sendError("You are not in a game.")
		return
	}

	var msg ClickMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid click message.")
		return
	}

	g.Submit(game.Action{
		Type:     game.ActionClick,
		PX:       msg.PX,
		PY:       msg.PY,
		SurfaceW: msg.SurfaceW,
		SurfaceH: msg.SurfaceH,
	})
}

func (c *Client) handleRejoin(raw json.RawMessage) {
	var msg RejoinMsg
	if err := json.Unmarshal(raw, &msg); err != nil || msg.GameID == "" || msg.RejoinToken == "" {
		c.sendError("Invalid rejoin message.")
		return
	}
	if c.activeGame() != nil {
		c.sendError("You are already in a game.")
		return
	}

	g, err := c.Hub.Sessions.Rejoin(msg.GameID, msg.RejoinToken, c.Send)
	if err != nil {
		c.sendError(rejoinErrorMessage(err))
		return
	}
	c.SetGame(g)
	if g.Player != nil && c.Name == "" {
		c.Name = g.Player.Name
	}
}

func rejoinErrorMessage(err error) string {
	switch {
	case errors.Is(err, sessionerrors.ErrGameNotFound):
		return "Game not found."
	case errors.Is(err, sessionerrors.ErrGameFinished):
		return "That game has already ended."
	case errors.Is(err, sessionerrors.ErrInvalidToken):
		return "Invalid rejoin token."
	case errors.Is(err, sessionerrors.ErrNotDisconnected):
		return "That game is still connected."
	default:
		return "Could not rejoin the game."
	}
}

func (c *Client) handlePlayAgain() {
	if c.activeGame() != nil {
		c.sendError("Cannot play again while in an active game.")
		return
	}
	if c.Name == "" {
		c.Name = auth.DefaultName
	}
	c.startGame()
}

func (c *Client) handleLeave() {
	g := c.activeGame()
	if g == nil {
		return
	}
	g.Submit(game.Action{Type: game.ActionDisconnect})
	c.SetGame(nil)
}

func (c *Client) clampName(name string) string {
	if limit := c.Hub.Config.MaxNameLength; limit > 0 && utf8.RuneCountInString(name) > limit {
		return string([]rune(name)[:limit])
	}
	return name
}

func (c *Client) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling message", "tag", "ws", "err", err)
		return
	}
	wsutil.SafeSend(c.Send, data)
}

func (c *Client) sendError(message string) {
	c.send(ErrorMsg{Type: "error", Message: message})
}
