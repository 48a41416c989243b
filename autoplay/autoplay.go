package autoplay

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"card-memory/config"
	"card-memory/game"
)

// pickReason describes why the bot chose a cell (for logging).
const (
	pickReasonKnownPair = "known_pair"
	pickReasonUnknown   = "unknown"
	pickReasonRandom    = "random"
	pickReasonDismiss   = "dismiss"
)

// maxRetries bounds how often the bot re-acts on the same state after an error.
const maxRetries = 3

// memory maps a cell to the code the bot has seen there.
type memory map[game.Pos]string

// Run plays g by reading the messages the game sends on ch and submitting selections.
// It returns the final result when the game is won, or nil when ch closes or the game
// ends otherwise. Run should be the only reader of ch.
func Run(ch <-chan []byte, g *game.Game, params *config.AutoplayParams, rng *rand.Rand) *game.GameOverMsg {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	mem := make(memory)
	var last *game.GameStateMsg
	retries := 0

	for data := range ch {
		var typeEnvelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &typeEnvelope); err != nil {
			continue
		}

		switch typeEnvelope.Type {
		case "game_over":
			var over game.GameOverMsg
			if err := json.Unmarshal(data, &over); err != nil {
				return nil
			}
			slog.Info("game over", "tag", "autoplay", "name", params.Name, "result", over.Message)
			return &over
		case "round_started":
			var msg game.RoundStartedMsg
			if err := json.Unmarshal(data, &msg); err == nil {
				slog.Info("round started", "tag", "autoplay", "name", params.Name,
					"round", msg.Round, "width", msg.Width, "height", msg.Height)
			}
			mem = make(memory)
		case "error":
			// A rejected selection produces no state; act again on the last one.
			if last == nil || retries >= maxRetries {
				continue
			}
			retries++
			act(g, last, mem, params, rng)
		case "game_state":
			var state game.GameStateMsg
			if err := json.Unmarshal(data, &state); err != nil {
				continue
			}
			retries = 0
			observe(mem, state.Cards)
			forget(mem, params.ForgetChance, rng)
			if state.Finished {
				continue
			}
			if state.Pair != nil && g.Config != nil && g.Config.RevealDurationMS > 0 {
				// The pair is hidden by the game's timer, which sends a fresh state.
				continue
			}
			last = &state
			act(g, &state, mem, params, rng)
		}
		if g.IsFinished() && len(ch) == 0 {
			return nil
		}
	}
	return nil
}

// observe updates memory from the face-up cards and drops removed cells.
func observe(mem memory, cards []game.CardView) {
	for _, c := range cards {
		p := game.Pos{X: c.X, Y: c.Y}
		switch {
		case c.State == game.Removed.String():
			delete(mem, p)
		case c.Code != "":
			mem[p] = c.Code
		}
	}
}

// forget drops one remembered cell with the given percent chance.
func forget(mem memory, chance int, rng *rand.Rand) {
	chance = clampPercent(chance)
	if chance == 0 || len(mem) == 0 || rng.Intn(100) >= chance {
		return
	}
	positions := make([]game.Pos, 0, len(mem))
	for p := range mem {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})
	delete(mem, positions[rng.Intn(len(positions))])
}

func act(g *game.Game, state *game.GameStateMsg, mem memory, params *config.AutoplayParams, rng *rand.Rand) {
	hidden := hiddenCells(state.Cards)

	if state.Pair != nil {
		// Any input dismisses the pair on display.
		p := game.Pos{}
		if len(hidden) > 0 {
			p = hidden[0]
		}
		slog.Debug("dismissing pair", "tag", "autoplay", "name", params.Name, "reason", pickReasonDismiss)
		submit(g, p)
		return
	}
	if len(hidden) == 0 {
		return
	}

	pause(params, rng)
	useKnownPair := rng.Intn(100) < clampPercent(params.UseKnownPairChance)

	if first, code, ok := selectedCell(state.Cards); ok {
		p, reason := pickSecond(mem, hidden, first, code, useKnownPair, rng)
		slog.Debug("selecting card (second)", "tag", "autoplay", "name", params.Name, "x", p.X, "y", p.Y, "reason", reason)
		submit(g, p)
		return
	}
	p, reason := pickFirst(mem, hidden, useKnownPair, rng)
	slog.Debug("selecting card (first)", "tag", "autoplay", "name", params.Name, "x", p.X, "y", p.Y, "reason", reason)
	submit(g, p)
}

func pause(params *config.AutoplayParams, rng *rand.Rand) {
	delayMS := params.DelayMinMS
	if params.DelayMaxMS > params.DelayMinMS {
		delayMS = params.DelayMinMS + rng.Intn(params.DelayMaxMS-params.DelayMinMS)
	}
	if delayMS > 0 {
		time.Sleep(time.Duration(delayMS) * time.Millisecond)
	}
}

func submit(g *game.Game, p game.Pos) {
	g.Submit(game.Action{Type: game.ActionSelect, X: p.X, Y: p.Y})
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// hiddenCells returns the face-down cells in row-major order.
func hiddenCells(cards []game.CardView) []game.Pos {
	var out []game.Pos
	for _, c := range cards {
		if c.State == game.Hidden.String() {
			out = append(out, game.Pos{X: c.X, Y: c.Y})
		}
	}
	return out
}

// selectedCell returns the single selected cell and its code, if any.
func selectedCell(cards []game.CardView) (game.Pos, string, bool) {
	for _, c := range cards {
		if c.State == game.Selected.String() {
			return game.Pos{X: c.X, Y: c.Y}, c.Code, true
		}
	}
	return game.None, "", false
}

// pickFirst returns a cell of a remembered pair when allowed, otherwise a cell the
// bot has not seen yet, otherwise any hidden cell.
func pickFirst(mem memory, hidden []game.Pos, useKnownPair bool, rng *rand.Rand) (game.Pos, string) {
	if useKnownPair {
		seen := make(map[string]game.Pos)
		for _, p := range hidden {
			code, ok := mem[p]
			if !ok {
				continue
			}
			if _, dup := seen[code]; dup {
				return seen[code], pickReasonKnownPair
			}
			seen[code] = p
		}
	}
	if unknown := unknownCells(mem, hidden, game.None); len(unknown) > 0 {
		return unknown[rng.Intn(len(unknown))], pickReasonUnknown
	}
	return hidden[rng.Intn(len(hidden))], pickReasonRandom
}

// pickSecond returns the remembered twin of the first card when allowed, otherwise
// an unseen cell, otherwise any other hidden cell.
func pickSecond(mem memory, hidden []game.Pos, first game.Pos, firstCode string, useKnownPair bool, rng *rand.Rand) (game.Pos, string) {
	if useKnownPair && firstCode != "" {
		for _, p := range hidden {
			if p != first && mem[p] == firstCode {
				return p, pickReasonKnownPair
			}
		}
	}
	if unknown := unknownCells(mem, hidden, first); len(unknown) > 0 {
		return unknown[rng.Intn(len(unknown))], pickReasonUnknown
	}
	var candidates []game.Pos
	for _, p := range hidden {
		if p != first {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return first, pickReasonRandom
	}
	return candidates[rng.Intn(len(candidates))], pickReasonRandom
}

func unknownCells(mem memory, hidden []game.Pos, exclude game.Pos) []game.Pos {
	var out []game.Pos
	for _, p := range hidden {
		if _, ok := mem[p]; !ok && p != exclude {
			out = append(out, p)
		}
	}
	return out
}
