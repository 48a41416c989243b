package autoplay

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"card-memory/config"
	"card-memory/game"
)

func quickParams() *config.AutoplayParams {
	return &config.AutoplayParams{Name: "Mnemosyne", UseKnownPairChance: 100}
}

func newBotGame(t *testing.T, cfg *config.Config) (*game.Game, chan []byte) {
	t.Helper()
	send := make(chan []byte, 256)
	g, err := game.NewGame("bot", cfg, game.NewPlayer("Mnemosyne", send), cfg.Aspect(), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g, send
}

func runToEnd(t *testing.T, cfg *config.Config) *game.GameOverMsg {
	t.Helper()
	g, send := newBotGame(t, cfg)
	go g.Run()

	done := make(chan *game.GameOverMsg, 1)
	go func() {
		done <- Run(send, g, quickParams(), rand.New(rand.NewSource(11)))
	}()

	select {
	case over := <-done:
		<-g.Done
		return over
	case <-time.After(10 * time.Second):
		g.Submit(game.Action{Type: game.ActionDisconnect})
		t.Fatal("bot did not finish the game")
		return nil
	}
}

func TestRunWinsFromFullBoard(t *testing.T) {
	cfg := &config.Config{StartWidth: 8, StartHeight: 13, PreferredAspect: 16.0 / 9.0}

	over := runToEnd(t, cfg)
	if over == nil || !over.Won {
		t.Fatalf("expected a won game, got %+v", over)
	}
	if over.Matches != 52 {
		t.Errorf("expected 52 matches on the last board, got %d", over.Matches)
	}
	if over.PairsTurned < 52 {
		t.Errorf("expected at least 52 pairs turned, got %d", over.PairsTurned)
	}
}

func TestRunWaitsForRevealTimer(t *testing.T) {
	cfg := &config.Config{StartWidth: 8, StartHeight: 13, PreferredAspect: 16.0 / 9.0, RevealDurationMS: 1}

	over := runToEnd(t, cfg)
	if over == nil || !over.Won {
		t.Fatalf("expected a won game, got %+v", over)
	}
}

func TestRunGrowsThroughRounds(t *testing.T) {
	cfg := &config.Config{StartWidth: 12, StartHeight: 8, PreferredAspect: 16.0 / 9.0}

	over := runToEnd(t, cfg)
	if over == nil || !over.Won {
		t.Fatalf("expected a won game, got %+v", over)
	}
	if over.Rounds != 2 {
		t.Errorf("expected 2 rounds (12x8 then 13x8), got %d", over.Rounds)
	}
	if over.Width != 13 || over.Height != 8 {
		t.Errorf("expected last board 13x8, got %dx%d", over.Width, over.Height)
	}
}

func TestRunExitsOnClosedChannel(t *testing.T) {
	cfg := &config.Config{StartWidth: 2, StartHeight: 2, PreferredAspect: 16.0 / 9.0}
	g, _ := newBotGame(t, cfg)

	ch := make(chan []byte)
	done := make(chan *game.GameOverMsg, 1)
	go func() {
		done <- Run(ch, g, quickParams(), nil)
	}()
	close(ch)

	select {
	case over := <-done:
		if over != nil {
			t.Errorf("expected nil result, got %+v", over)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after the channel closed")
	}
}

func TestRunReturnsGameOver(t *testing.T) {
	cfg := &config.Config{StartWidth: 2, StartHeight: 2, PreferredAspect: 16.0 / 9.0}
	g, _ := newBotGame(t, cfg)

	ch := make(chan []byte, 1)
	data, _ := json.Marshal(game.GameOverMsg{Type: "game_over", Won: true, Rounds: 9})
	ch <- data

	over := Run(ch, g, quickParams(), nil)
	if over == nil || over.Rounds != 9 {
		t.Errorf("expected the game_over payload, got %+v", over)
	}
}

func TestPickFirst_PrefersKnownPair(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	hidden := []game.Pos{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	mem := memory{{X: 1, Y: 0}: "AC", {X: 3, Y: 0}: "AC", {X: 2, Y: 0}: "KS"}

	p, reason := pickFirst(mem, hidden, true, rng)
	if reason != pickReasonKnownPair || p != (game.Pos{X: 1, Y: 0}) {
		t.Errorf("expected known pair at (1,0), got %v (%s)", p, reason)
	}

	p, reason = pickFirst(mem, hidden, false, rng)
	if reason != pickReasonUnknown || p != (game.Pos{X: 0, Y: 0}) {
		t.Errorf("expected the only unseen cell (0,0), got %v (%s)", p, reason)
	}
}

func TestPickSecond(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	first := game.Pos{X: 0, Y: 0}
	hidden := []game.Pos{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	mem := memory{{X: 0, Y: 0}: "QH", {X: 2, Y: 0}: "QH", {X: 3, Y: 0}: "2C"}

	p, reason := pickSecond(mem, hidden, first, "QH", true, rng)
	if reason != pickReasonKnownPair || p != (game.Pos{X: 2, Y: 0}) {
		t.Errorf("expected the twin at (2,0), got %v (%s)", p, reason)
	}

	p, reason = pickSecond(mem, hidden, first, "QH", false, rng)
	if reason != pickReasonUnknown || p != (game.Pos{X: 1, Y: 0}) {
		t.Errorf("expected the unseen cell (1,0), got %v (%s)", p, reason)
	}

	all := memory{{X: 1, Y: 0}: "3D", {X: 2, Y: 0}: "4D", {X: 3, Y: 0}: "5D"}
	p, reason = pickSecond(all, hidden, first, "QH", true, rng)
	if reason != pickReasonRandom || p == first {
		t.Errorf("expected a random other cell, got %v (%s)", p, reason)
	}
}

func TestObserveAndForget(t *testing.T) {
	mem := memory{{X: 0, Y: 0}: "AC"}
	observe(mem, []game.CardView{
		{X: 0, Y: 0, State: "removed"},
		{X: 1, Y: 0, State: "selected", Code: "KS"},
		{X: 2, Y: 0, State: "hidden"},
	})
	if _, ok := mem[game.Pos{X: 0, Y: 0}]; ok {
		t.Error("removed cell should be forgotten")
	}
	if mem[game.Pos{X: 1, Y: 0}] != "KS" {
		t.Error("selected card should be remembered")
	}

	rng := rand.New(rand.NewSource(1))
	forget(mem, 0, rng)
	if len(mem) != 1 {
		t.Error("zero forget chance must keep memory")
	}
	forget(mem, 100, rng)
	if len(mem) != 0 {
		t.Error("full forget chance must drop a card")
	}
}
