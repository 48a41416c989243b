package game

import (
	"encoding/json"
	"testing"
	"time"

	"card-memory/card"
)

func smallBoard() *Board {
	board := NewBoard(2, 2)
	board.Cells[0][0] = card.Card{Rank: card.Ace, Suit: card.Clubs}
	board.Cells[0][1] = card.Card{Rank: card.King, Suit: card.Hearts}
	board.Cells[1][0] = card.Card{Rank: card.King, Suit: card.Hearts}
	board.Cells[1][1] = card.Card{Rank: card.Ace, Suit: card.Clubs}
	return board
}

func TestBuildCardViews_HiddenCardsOmitCode(t *testing.T) {
	views := BuildCardViews(smallBoard(), Selection{First: None, Second: None}, nil)

	if len(views) != 4 {
		t.Fatalf("expected 4 views, got %d", len(views))
	}
	for _, cv := range views {
		if cv.State != "hidden" {
			t.Errorf("expected state 'hidden', got %q", cv.State)
		}
		if cv.Code != "" {
			t.Errorf("hidden card should not have a code, got %q", cv.Code)
		}
	}
}

func TestBuildCardViews_RowMajorOrder(t *testing.T) {
	views := BuildCardViews(smallBoard(), Selection{First: None, Second: None}, nil)

	want := []Pos{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i, p := range want {
		if views[i].X != p.X || views[i].Y != p.Y {
			t.Errorf("view %d: expected (%d,%d), got (%d,%d)", i, p.X, p.Y, views[i].X, views[i].Y)
		}
	}
}

func TestBuildCardViews_SelectedCardIncludesCode(t *testing.T) {
	views := BuildCardViews(smallBoard(), Selection{First: Pos{X: 1, Y: 0}, Second: None}, nil)

	if views[1].State != "selected" || views[1].Code != "KH" {
		t.Errorf("expected selected KH, got %+v", views[1])
	}
	if views[0].Code != "" {
		t.Errorf("unselected card should not have a code, got %q", views[0].Code)
	}
}

func TestBuildCardViews_RemovedAndShownPair(t *testing.T) {
	board := smallBoard()
	out := Outcome{
		Resolved:   true,
		First:      Pos{X: 0, Y: 0},
		Second:     Pos{X: 1, Y: 1},
		FirstCard:  board.Cells[0][0],
		SecondCard: board.Cells[1][1],
		Matched:    true,
	}
	board.Cells[0][0] = card.Card{}
	board.Cells[1][1] = card.Card{}

	views := BuildCardViews(board, Selection{First: None, Second: None}, &out)
	if views[0].State != "shown" || views[0].Code != "AC" {
		t.Errorf("matched card on display should be shown, got %+v", views[0])
	}

	views = BuildCardViews(board, Selection{First: None, Second: None}, nil)
	if views[0].State != "removed" || views[3].State != "removed" {
		t.Errorf("expected removed cells, got %+v and %+v", views[0], views[3])
	}
	if views[1].State != "hidden" {
		t.Errorf("expected hidden, got %+v", views[1])
	}
}

func TestBuildPairView(t *testing.T) {
	out := Outcome{
		First:      Pos{X: 0, Y: 1},
		Second:     Pos{X: 2, Y: 0},
		FirstCard:  card.Card{Rank: 10, Suit: card.Diamonds},
		SecondCard: card.Card{Rank: card.Queen, Suit: card.Spades},
	}

	pv := BuildPairView(out)
	if pv.FirstCode != "10D" || pv.SecondCode != "QS" {
		t.Errorf("unexpected codes %q/%q", pv.FirstCode, pv.SecondCode)
	}
	if pv.Matched {
		t.Error("expected matched=false")
	}
}

func TestCardViewJSON_HiddenOmitsCode(t *testing.T) {
	data, err := json.Marshal(CardView{X: 1, Y: 2, State: "hidden"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]interface{}
	json.Unmarshal(data, &m)
	if _, exists := m["code"]; exists {
		t.Error("hidden card JSON should not contain 'code' key")
	}
}

func TestGameStateJSON_PairOmittedWhenNil(t *testing.T) {
	data, err := json.Marshal(GameStateMsg{Type: "game_state"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]interface{}
	json.Unmarshal(data, &m)
	if _, exists := m["pair"]; exists {
		t.Error("state without a displayed pair should not contain 'pair'")
	}
}

func TestPairResolvedJSON_Flattened(t *testing.T) {
	msg := PairResolvedMsg{Type: "pair_resolved", PairView: PairView{FirstCode: "AC", SecondCode: "AC", Matched: true}}
	data, _ := json.Marshal(msg)

	var m map[string]interface{}
	json.Unmarshal(data, &m)
	if m["firstCode"] != "AC" || m["matched"] != true {
		t.Errorf("expected flattened pair fields, got %v", m)
	}
}

func TestBuildGameOverMsg(t *testing.T) {
	r := Result{Rounds: 9, Width: 13, Height: 8, PairsTurned: 300, Matches: 200, WastedReveals: 150}
	r.Elapsed = 65 * time.Second

	msg := BuildGameOverMsg(r)
	if msg.Type != "game_over" || !msg.Won {
		t.Errorf("unexpected header %+v", msg)
	}
	if msg.Elapsed != "01:05.000s" || msg.ElapsedMs != 65000 {
		t.Errorf("unexpected elapsed %q/%d", msg.Elapsed, msg.ElapsedMs)
	}
	want := "You won! Time: 01:05.000s, pairs turned: 300, wasted reveals: 150"
	if msg.Message != want {
		t.Errorf("expected message %q, got %q", want, msg.Message)
	}
}

func TestCardStateString(t *testing.T) {
	tests := []struct {
		state CardState
		want  string
	}{
		{Hidden, "hidden"},
		{Selected, "selected"},
		{Shown, "shown"},
		{Removed, "removed"},
		{CardState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("CardState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
