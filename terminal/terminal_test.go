package terminal

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"card-memory/config"
	"card-memory/game"
)

// pump feeds game messages into p until one of type want has been handled.
func pump(t *testing.T, p *Player, want string) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case data := <-p.send:
			p.HandleMessage(data)
			var env struct {
				Type string `json:"type"`
			}
			json.Unmarshal(data, &env)
			if env.Type == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func newTestPlayer(t *testing.T) *Player {
	t.Helper()
	cfg := &config.Config{StartWidth: 2, StartHeight: 1, PreferredAspect: 16.0 / 9.0}
	p := NewPlayer(Options{Config: cfg, Aspect: cfg.Aspect(), Name: "Tess"}, 80, 24)
	if err := p.NewGame(); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(p.Abandon)
	pump(t, p, "game_state")
	return p
}

func TestPlayer_KeyboardPlay(t *testing.T) {
	p := newTestPlayer(t)
	if p.state.Width != 2 || p.state.Height != 1 {
		t.Fatalf("expected 2x1 board, got %dx%d", p.state.Width, p.state.Height)
	}

	p.HandleEvent(Event{Kind: EventSelect})
	pump(t, p, "game_state")
	if p.state.Selection != "one_selected" {
		t.Fatalf("expected one_selected, got %q", p.state.Selection)
	}

	p.HandleEvent(Event{Kind: EventRight})
	if p.cursor != (game.Pos{X: 1, Y: 0}) {
		t.Fatalf("cursor did not move right: %+v", p.cursor)
	}
	p.HandleEvent(Event{Kind: EventRight})
	if p.cursor.X != 1 {
		t.Errorf("cursor should stay on the board, got %+v", p.cursor)
	}

	// 2x1 holds a single pair, so the second card always matches.
	p.HandleEvent(Event{Kind: EventSelect})
	pump(t, p, "pair_resolved")
	if p.status != "Match!" {
		t.Errorf("expected match status, got %q", p.status)
	}
	pump(t, p, "round_started")
	if !strings.HasPrefix(p.status, "Round 2: 2x2") {
		t.Errorf("unexpected status %q", p.status)
	}
	if p.renderer.CellW != 16 || p.renderer.CellH != 10 {
		t.Errorf("expected cells refit to 16x10, got %dx%d", p.renderer.CellW, p.renderer.CellH)
	}
	pump(t, p, "game_state")
	if p.state.Height != 2 {
		t.Errorf("expected 2x2 board, got %dx%d", p.state.Width, p.state.Height)
	}
}

func TestPlayer_MouseClickSelectsCell(t *testing.T) {
	p := newTestPlayer(t)
	cw, ch := p.renderer.CellW, p.renderer.CellH
	_, oy := p.renderer.BoardOrigin()

	p.HandleEvent(Event{Kind: EventMouse, X: cw + 2, Y: oy + ch/2})
	if p.cursor != (game.Pos{X: 1, Y: 0}) {
		t.Errorf("click should move the cursor to (1,0), got %+v", p.cursor)
	}
	pump(t, p, "game_state")
	selected := false
	for _, cv := range p.state.Cards {
		if cv.X == 1 && cv.Y == 0 && cv.State == "selected" {
			selected = true
		}
	}
	if !selected {
		t.Error("clicked card should be selected")
	}

	p.HandleEvent(Event{Kind: EventMouse, X: 3 * cw, Y: oy})
	pump(t, p, "error")
	if p.status != "Click outside the board." {
		t.Errorf("unexpected status %q", p.status)
	}
}

func TestPlayer_QuitAndNewGame(t *testing.T) {
	p := newTestPlayer(t)
	first := p.game

	if !p.HandleEvent(Event{Kind: EventNewGame}) {
		t.Fatal("new game should keep running")
	}
	if p.game == first || !first.IsFinished() {
		t.Error("new game should abandon the old one")
	}
	pump(t, p, "game_state")

	if p.HandleEvent(Event{Kind: EventQuit}) {
		t.Error("quit should stop the loop")
	}
	if !strings.Contains(p.Frame(), "Find the pairs.") {
		t.Error("frame should show the status line")
	}
}
