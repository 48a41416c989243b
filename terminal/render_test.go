package terminal

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"card-memory/game"
)

func init() {
	color.NoColor = true
}

func sampleState() *game.GameStateMsg {
	return &game.GameStateMsg{
		Type:   "game_state",
		Width:  2,
		Height: 1,
		Cards: []game.CardView{
			{X: 0, Y: 0, State: "selected", Code: "10H"},
			{X: 1, Y: 0, State: "hidden"},
		},
		Selection: "one_selected",
		Stats:     game.StatsView{Round: 3, PairsTurned: 7, WastedReveals: 2, Elapsed: "00:12.345s"},
	}
}

func TestFrame(t *testing.T) {
	r := &Renderer{CellW: 6, CellH: 3}

	frame := r.Frame(sampleState(), game.Pos{X: 1, Y: 0}, "No match.")
	for _, want := range []string{
		"round 3", "2x1", "pairs turned 7", "wasted reveals 2", "00:12.345s",
		"No match.",
		" 10H ",
		"#####",
		"^^^^^",
	} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q", want)
		}
	}
	// Second card starts at column 7, board row 3 (1-based).
	if !strings.Contains(frame, "\x1b[3;7H#####") {
		t.Error("hidden card not drawn at its cell")
	}
	// Cursor sits in the gap row under cell (1,0).
	if !strings.Contains(frame, "\x1b[5;7H^^^^^") {
		t.Error("cursor not drawn under the card")
	}
}

func TestFrameWithoutState(t *testing.T) {
	r := &Renderer{CellW: 6, CellH: 3}
	frame := r.Frame(nil, game.None, "Dealing...")
	if !strings.Contains(frame, "Dealing...") || strings.Contains(frame, "#") {
		t.Errorf("unexpected frame %q", frame)
	}
}

func TestCardLinesRemoved(t *testing.T) {
	r := &Renderer{CellW: 5, CellH: 3}
	lines := r.cardLines(game.CardView{State: "removed"}, 4, 2)
	if len(lines) != 2 || lines[0] != "    " {
		t.Errorf("expected blank lines, got %q", lines)
	}
}

func TestFitCells(t *testing.T) {
	tests := []struct {
		cols, rows, w, h int
		wantW, wantH     int
	}{
		{80, 24, 3, 2, 16, 10},
		{80, 24, 13, 8, 6, 3},
		{40, 10, 20, 10, 4, 3},
		{80, 24, 0, 0, 4, 3},
	}
	for _, tt := range tests {
		w, h := FitCells(tt.cols, tt.rows, tt.w, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitCells(%d,%d,%d,%d) = %d,%d want %d,%d", tt.cols, tt.rows, tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestIsRedAndCenter(t *testing.T) {
	if !isRed("10H") || !isRed("AD") || isRed("KS") || isRed("2C") {
		t.Error("isRed mismatch")
	}
	if got := center("AC", 6); got != "  AC  " {
		t.Errorf("center = %q", got)
	}
	if got := center("10H", 2); got != "10" {
		t.Errorf("center truncation = %q", got)
	}
}
