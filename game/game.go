package game

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"card-memory/config"
	"card-memory/layout"
	"card-memory/wsutil"
)

// ActionType enumerates the kinds of actions a game can process.
type ActionType int

const (
	ActionSelect              ActionType = iota
	ActionClick                          // pointer press in surface coordinates
	ActionDisconnect                     // player left for good; end game
	ActionPlayerDisconnected             // player lost connection; start reconnection window
	ActionReconnectionTimeout            // reconnection window expired; end game
	ActionRejoinCompleted                // player rejoined; restore Send and clear disconnect state
	ActionHidePair                       // internal: fired after reveal timer expires
)

// Action represents a player action sent into the game's action channel.
type Action struct {
	Type     ActionType
	X        int         // cell (for Select)
	Y        int         // cell (for Select)
	PX       int         // surface point (for Click)
	PY       int         // surface point (for Click)
	SurfaceW int         // surface size the click was made on
	SurfaceH int         // surface size the click was made on
	NewSend  chan []byte // for ActionRejoinCompleted: new send channel for the reconnected player
	hideSeq  int
}

// End reasons passed to OnGameEnd.
const (
	EndWon              = "won"
	EndAbandoned        = "abandoned"
	EndReconnectTimeout = "reconnect_timeout"
)

// Game runs one player's session. All state is owned by the Run goroutine;
// other goroutines talk to it through Actions.
type Game struct {
	ID          string
	Session     *Session
	Player      *Player
	Config      *config.Config
	RejoinToken string

	// ShownPair is the last resolved pair while it is still face up.
	ShownPair *Outcome
	hideSeq   int

	ReconnectionDeadline    time.Time
	reconnectionTimerCancel chan struct{}
	disconnected            atomic.Bool
	finished                atomic.Bool

	Actions chan Action
	Done    chan struct{}

	// OnGameEnd is called once when the game ends. result is nil unless endReason is EndWon.
	OnGameEnd func(g *Game, result *Result, endReason string)
}

// NewGame deals a new game for p using the configured start size.
func NewGame(id string, cfg *config.Config, p *Player, aspect float64, rng *rand.Rand) (*Game, error) {
	session, err := NewSession(cfg.StartWidth, cfg.StartHeight, aspect, rng)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:      id,
		Session: session,
		Player:  p,
		Config:  cfg,
		Actions: make(chan Action, 16),
		Done:    make(chan struct{}),
	}, nil
}

// Run is the main game loop. It processes actions sequentially.
// It should be run as a goroutine.
func (g *Game) Run() {
	defer close(g.Done)
	defer g.cancelReconnectionTimer()

	g.sendState()

	for {
		action, ok := <-g.Actions
		if !ok || g.IsFinished() {
			return
		}
		switch action.Type {
		case ActionSelect:
			if g.IsDisconnected() {
				continue
			}
			g.handleSelect(Pos{X: action.X, Y: action.Y})
		case ActionClick:
			if g.IsDisconnected() {
				continue
			}
			g.handleClick(action.PX, action.PY, action.SurfaceW, action.SurfaceH)
		case ActionHidePair:
			g.handleHidePair(action.hideSeq)
		case ActionDisconnect:
			g.end(nil, EndAbandoned)
		case ActionPlayerDisconnected:
			g.handlePlayerDisconnected()
		case ActionReconnectionTimeout:
			g.handleReconnectionTimeout()
		case ActionRejoinCompleted:
			g.handleRejoinCompleted(action.NewSend)
		}
		if g.IsFinished() {
			return
		}
	}
}

// Submit queues an action unless the game loop has already exited.
func (g *Game) Submit(a Action) bool {
	select {
	case <-g.Done:
		return false
	default:
	}
	select {
	case g.Actions <- a:
		return true
	case <-g.Done:
		return false
	}
}

// IsFinished reports whether the game has ended. Safe for concurrent use.
func (g *Game) IsFinished() bool {
	return g.finished.Load()
}

// IsDisconnected reports whether the player is inside a reconnection window. Safe for concurrent use.
func (g *Game) IsDisconnected() bool {
	return g.disconnected.Load()
}

func (g *Game) end(result *Result, reason string) {
	if g.finished.Swap(true) {
		return
	}
	slog.Info("game ended", "tag", "game", "game", g.ID, "reason", reason,
		"round", g.Session.Stats.Round, "pairs", g.Session.Stats.PairsTurned)
	if g.OnGameEnd != nil {
		g.OnGameEnd(g, result, reason)
	}
}

func (g *Game) handleClick(px, py, surfaceW, surfaceH int) {
	if g.dismissShownPair() {
		return
	}
	grid := layout.Grid{
		Cols:     g.Session.Board.Width,
		Rows:     g.Session.Board.Height,
		SurfaceW: surfaceW,
		SurfaceH: surfaceH,
	}
	x, y, ok := grid.CellAt(px, py)
	if !ok {
		g.sendError("Click outside the board.")
		return
	}
	g.handleSelect(Pos{X: x, Y: y})
}

// startHideTimer schedules ActionHidePair for the pair currently on display.
// No-op if Config.RevealDurationMS <= 0; the pair then stays up until the next input.
func (g *Game) startHideTimer() {
	if g.Config.RevealDurationMS <= 0 {
		return
	}
	seq := g.hideSeq
	delay := time.Duration(g.Config.RevealDurationMS) * time.Millisecond
	go func() {
		select {
		case <-time.After(delay):
			select {
			case g.Actions <- Action{Type: ActionHidePair, hideSeq: seq}:
			case <-g.Done:
			}
		case <-g.Done:
		}
	}()
}

func (g *Game) sendError(message string) {
	g.send(map[string]string{
		"type":    "error",
		"message": message,
	})
}

func (g *Game) send(v any) {
	if g.Player == nil || g.Player.Send == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling message", "tag", "game", "err", err)
		return
	}
	wsutil.SafeSend(g.Player.Send, data)
}

func (g *Game) sendState() {
	g.send(g.BuildState())
}

// BuildState returns the game state view for the player.
func (g *Game) BuildState() GameStateMsg {
	s := g.Session
	state := GameStateMsg{
		Type:      "game_state",
		GameID:    g.ID,
		Width:     s.Board.Width,
		Height:    s.Board.Height,
		Cards:     BuildCardViews(s.Board, s.Selection, g.ShownPair),
		Selection: s.Selection.State().String(),
		Stats:     BuildStatsView(s),
		Finished:  s.Finished(),
	}
	if g.ShownPair != nil {
		pv := BuildPairView(*g.ShownPair)
		state.Pair = &pv
	}
	return state
}
