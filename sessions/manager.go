package sessions

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"card-memory/config"
	"card-memory/game"
	"card-memory/layout"
	"card-memory/sessionerrors"
	"card-memory/storage"
	"card-memory/ws"
	"card-memory/wsutil"
)

const saveTimeout = 5 * time.Second

// Manager owns the running games and routes rejoins to them.
type Manager struct {
	config *config.Config
	store  storage.ResultStore
	aspect float64

	// NewRand returns the random source for a new board. Tests replace it.
	NewRand func() *rand.Rand

	mu       sync.Mutex
	games    map[string]*game.Game
	byUser   map[string]string // userID -> gameID
	shutdown bool
	wg       sync.WaitGroup
}

var _ ws.SessionManager = (*Manager)(nil)

// NewManager creates a Manager. store may be nil, in which case results are not saved.
func NewManager(cfg *config.Config, store storage.ResultStore, aspect float64) *Manager {
	return &Manager{
		config: cfg,
		store:  store,
		aspect: aspect,
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		games:  make(map[string]*game.Game),
		byUser: make(map[string]string),
	}
}

// Start deals a new game for the player and runs it. session_started is sent on send
// before the first game_state.
func (m *Manager) Start(name, userID string, send chan []byte) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return nil, sessionerrors.ErrShuttingDown
	}

	p := game.NewPlayer(name, send)
	p.UserID = userID
	g, err := game.NewGame(uuid.NewString(), m.config, p, m.aspect, m.NewRand())
	if err != nil {
		return nil, err
	}
	g.RejoinToken = uuid.NewString()
	g.OnGameEnd = m.onGameEnd

	m.games[g.ID] = g
	if userID != "" {
		m.byUser[userID] = g.ID
	}

	board := g.Session.Board
	surfaceW, surfaceH := layout.PreferredSurface(board.Width, board.Height, m.config.CardWidthPx, m.config.CardHeightPx)
	data, _ := json.Marshal(ws.SessionStartedMsg{
		Type:             "session_started",
		GameID:           g.ID,
		RejoinToken:      g.RejoinToken,
		Name:             name,
		Width:            board.Width,
		Height:           board.Height,
		SurfaceW:         surfaceW,
		SurfaceH:         surfaceH,
		RevealDurationMS: m.config.RevealDurationMS,
	})
	wsutil.SafeSend(send, data)

	slog.Info("game started", "tag", "sessions", "game", g.ID, "player", name,
		"width", board.Width, "height", board.Height)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		g.Run()
	}()
	return g, nil
}

// Rejoin resumes a disconnected game identified by gameID and its rejoin token.
func (m *Manager) Rejoin(gameID, rejoinToken string, send chan []byte) (*game.Game, error) {
	m.mu.Lock()
	g, ok := m.games[gameID]
	m.mu.Unlock()
	if !ok {
		return nil, sessionerrors.ErrGameNotFound
	}
	if g.RejoinToken != rejoinToken {
		return nil, sessionerrors.ErrInvalidToken
	}
	return m.resume(g, send)
}

// RejoinByUser resumes the authenticated user's disconnected game.
func (m *Manager) RejoinByUser(userID string, send chan []byte) (*game.Game, error) {
	if userID == "" {
		return nil, sessionerrors.ErrNoActiveGame
	}
	m.mu.Lock()
	var g *game.Game
	if id, ok := m.byUser[userID]; ok {
		g = m.games[id]
	}
	m.mu.Unlock()
	if g == nil {
		return nil, sessionerrors.ErrNoActiveGame
	}
	return m.resume(g, send)
}

func (m *Manager) resume(g *game.Game, send chan []byte) (*game.Game, error) {
	if g.IsFinished() {
		return nil, sessionerrors.ErrGameFinished
	}
	if !g.IsDisconnected() {
		return nil, sessionerrors.ErrNotDisconnected
	}
	if !g.Submit(game.Action{Type: game.ActionRejoinCompleted, NewSend: send}) {
		return nil, sessionerrors.ErrGameFinished
	}
	slog.Info("player rejoined", "tag", "sessions", "game", g.ID)
	return g, nil
}

// Get returns a running game by ID.
func (m *Manager) Get(gameID string) (*game.Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	return g, ok
}

// Active returns the number of running games.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

// Shutdown stops accepting games, abandons the running ones and waits for them
// to finish or for ctx to expire.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.shutdown = true
	running := make([]*game.Game, 0, len(m.games))
	for _, g := range m.games {
		running = append(running, g)
	}
	m.mu.Unlock()

	for _, g := range running {
		g.Submit(game.Action{Type: game.ActionDisconnect})
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// onGameEnd runs on the game's goroutine.
func (m *Manager) onGameEnd(g *game.Game, result *game.Result, endReason string) {
	m.mu.Lock()
	delete(m.games, g.ID)
	if g.Player != nil && g.Player.UserID != "" && m.byUser[g.Player.UserID] == g.ID {
		delete(m.byUser, g.Player.UserID)
	}
	m.mu.Unlock()

	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.store.InsertResult(ctx, ResultRecord(g, result, endReason)); err != nil {
		slog.Error("saving game result failed", "tag", "sessions", "game", g.ID, "err", err)
	}
}

// ResultRecord converts a finished game into a storage row. For games that were not
// won, result is nil and the counters reflect the board at the time the game ended.
func ResultRecord(g *game.Game, result *game.Result, endReason string) storage.GameResult {
	r := storage.GameResult{ID: g.ID, EndReason: endReason}
	if g.Player != nil {
		r.UserID = g.Player.UserID
		r.PlayerName = g.Player.Name
	}
	if result == nil {
		s := g.Session
		result = &game.Result{
			Elapsed:       s.Elapsed(),
			Rounds:        s.Stats.Round,
			Width:         s.Board.Width,
			Height:        s.Board.Height,
			PairsTurned:   s.Stats.PairsTurned,
			Matches:       s.Stats.Matches,
			WastedReveals: s.Stats.WastedReveals,
		}
	}
	r.ElapsedMs = result.Elapsed.Milliseconds()
	r.Rounds = result.Rounds
	r.Width = result.Width
	r.Height = result.Height
	r.PairsTurned = result.PairsTurned
	r.Matches = result.Matches
	r.WastedReveals = result.WastedReveals
	return r
}
