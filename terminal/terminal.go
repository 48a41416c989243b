// Package terminal plays the game in a raw-mode terminal with mouse and keyboard input.
package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"card-memory/assets"
	"card-memory/config"
	"card-memory/game"
	"card-memory/sessions"
	"card-memory/storage"
)

const (
	enterScreen = "\x1b[?1049h\x1b[?25l\x1b[?1000h\x1b[?1006h"
	leaveScreen = "\x1b[?1006l\x1b[?1000l\x1b[?25h\x1b[?1049l"
	saveTimeout = 5 * time.Second
)

// Options configures a terminal session.
type Options struct {
	Config  *config.Config
	Catalog *assets.Catalog
	Store   storage.ResultStore // may be nil
	Aspect  float64
	Name    string
	In      *os.File
	Out     io.Writer
}

// Player drives one game at a time from terminal events.
type Player struct {
	opts     Options
	renderer *Renderer
	cols     int
	rows     int

	game   *game.Game
	send   chan []byte
	state  *game.GameStateMsg
	cursor game.Pos
	status string
}

// NewPlayer creates a Player for a cols x rows terminal.
func NewPlayer(opts Options, cols, rows int) *Player {
	return &Player{
		opts:     opts,
		renderer: &Renderer{Catalog: opts.Catalog, CellW: minCellW, CellH: minCellH},
		cols:     cols,
		rows:     rows,
	}
}

// Run plays until the user quits or ctx is cancelled. When In is a terminal it is
// switched to raw mode with mouse reporting for the duration.
func Run(ctx context.Context, opts Options) error {
	fd := int(opts.In.Fd())
	cols, rows := 80, 24
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw mode: %w", err)
		}
		defer term.Restore(fd, oldState)
		if w, h, err := term.GetSize(fd); err == nil {
			cols, rows = w, h
		}
		io.WriteString(opts.Out, enterScreen)
		defer io.WriteString(opts.Out, leaveScreen)
	}

	events := make(chan Event, 16)
	go readEvents(opts.In, events)

	p := NewPlayer(opts, cols, rows)
	if err := p.NewGame(); err != nil {
		return err
	}
	defer p.Abandon()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !p.HandleEvent(ev) {
				return nil
			}
		case data := <-p.send:
			p.HandleMessage(data)
		}
		io.WriteString(opts.Out, p.Frame())
	}
}

func readEvents(in io.Reader, events chan<- Event) {
	defer close(events)
	buf := make([]byte, 256)
	for {
		n, err := in.Read(buf)
		for _, ev := range ParseInput(buf[:n]) {
			events <- ev
		}
		if err != nil {
			return
		}
	}
}

// NewGame abandons the current game, if any, and deals a new one.
func (p *Player) NewGame() error {
	p.Abandon()
	cfg := p.opts.Config
	p.send = make(chan []byte, 64)
	g, err := game.NewGame(uuid.NewString(), cfg, game.NewPlayer(p.opts.Name, p.send),
		p.opts.Aspect, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return err
	}
	g.OnGameEnd = p.saveResult
	p.game = g
	p.state = nil
	p.cursor = game.Pos{}
	p.status = "Find the pairs."
	p.fit(cfg.StartWidth, cfg.StartHeight)
	go g.Run()
	return nil
}

// Abandon ends the running game.
func (p *Player) Abandon() {
	if p.game != nil && !p.game.IsFinished() {
		p.game.Submit(game.Action{Type: game.ActionDisconnect})
		<-p.game.Done
	}
}

func (p *Player) saveResult(g *game.Game, result *game.Result, endReason string) {
	store := p.opts.Store
	if store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := store.InsertResult(ctx, sessions.ResultRecord(g, result, endReason)); err != nil {
		slog.Error("saving game result failed", "tag", "terminal", "err", err)
	}
}

func (p *Player) fit(width, height int) {
	p.renderer.CellW, p.renderer.CellH = FitCells(p.cols, p.rows, width, height)
}

// HandleEvent applies one input. It returns false when the user quits.
func (p *Player) HandleEvent(ev Event) bool {
	switch ev.Kind {
	case EventQuit:
		return false
	case EventNewGame:
		if err := p.NewGame(); err != nil {
			p.status = err.Error()
		}
	case EventUp:
		p.moveCursor(0, -1)
	case EventDown:
		p.moveCursor(0, 1)
	case EventLeft:
		p.moveCursor(-1, 0)
	case EventRight:
		p.moveCursor(1, 0)
	case EventSelect:
		p.submit(game.Action{Type: game.ActionSelect, X: p.cursor.X, Y: p.cursor.Y})
	case EventMouse:
		if p.state == nil {
			return true
		}
		ox, oy := p.renderer.BoardOrigin()
		r := p.renderer
		if x, y := (ev.X-ox)/r.CellW, (ev.Y-oy)/r.CellH; ev.X >= ox && ev.Y >= oy && x < p.state.Width && y < p.state.Height {
			p.cursor = game.Pos{X: x, Y: y}
		}
		p.submit(game.Action{
			Type:     game.ActionClick,
			PX:       ev.X - ox,
			PY:       ev.Y - oy,
			SurfaceW: p.state.Width * r.CellW,
			SurfaceH: p.state.Height * r.CellH,
		})
	}
	return true
}

func (p *Player) submit(a game.Action) {
	if p.game == nil || p.game.IsFinished() {
		p.status = "Press n for a new game."
		return
	}
	p.game.Submit(a)
}

func (p *Player) moveCursor(dx, dy int) {
	if p.state == nil {
		return
	}
	p.cursor.X = clamp(p.cursor.X+dx, 0, p.state.Width-1)
	p.cursor.Y = clamp(p.cursor.Y+dy, 0, p.state.Height-1)
}

// HandleMessage applies one message from the game.
func (p *Player) HandleMessage(data []byte) {
	var envelope struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return
	}
	switch envelope.Type {
	case "game_state":
		var state game.GameStateMsg
		if err := json.Unmarshal(data, &state); err != nil {
			return
		}
		p.state = &state
		p.moveCursor(0, 0)
	case "pair_resolved":
		var pair game.PairResolvedMsg
		if err := json.Unmarshal(data, &pair); err != nil {
			return
		}
		if pair.Matched {
			p.status = "Match!"
		} else {
			p.status = "No match."
		}
	case "round_started":
		var msg game.RoundStartedMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		p.fit(msg.Width, msg.Height)
		p.status = fmt.Sprintf("Round %d: %dx%d.", msg.Round, msg.Width, msg.Height)
	case "game_over":
		p.status = envelope.Message + " Press n for a new game, q to quit."
	case "error":
		p.status = envelope.Message
	}
}

// Frame renders the current screen.
func (p *Player) Frame() string {
	return p.renderer.Frame(p.state, p.cursor, p.status)
}
