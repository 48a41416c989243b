package game

import (
	"errors"

	"card-memory/layout"
)

func (g *Game) handleSelect(p Pos) {
	if g.dismissShownPair() {
		return
	}

	out, err := g.Session.Select(p)
	if err != nil {
		switch {
		case errors.Is(err, ErrOutOfBounds):
			g.sendError("That position is outside the board.")
		case errors.Is(err, ErrEmptyCell):
			g.sendError("That card has already been removed.")
		case errors.Is(err, ErrGameOver):
			g.sendError("The game is over.")
		default:
			g.sendError(err.Error())
		}
		return
	}

	if !out.Resolved {
		g.sendState()
		return
	}

	g.send(PairResolvedMsg{Type: "pair_resolved", PairView: BuildPairView(out)})

	switch {
	case out.Won:
		result := g.Session.Result()
		g.sendState()
		g.send(BuildGameOverMsg(*result))
		g.end(result, EndWon)
	case out.Grew:
		board := g.Session.Board
		surfaceW, surfaceH := layout.PreferredSurface(board.Width, board.Height, g.Config.CardWidthPx, g.Config.CardHeightPx)
		g.send(RoundStartedMsg{
			Type:     "round_started",
			Round:    g.Session.Stats.Round,
			Width:    board.Width,
			Height:   board.Height,
			SurfaceW: surfaceW,
			SurfaceH: surfaceH,
		})
		g.sendState()
	default:
		g.ShownPair = &out
		g.hideSeq++
		g.startHideTimer()
		g.sendState()
	}
}

// dismissShownPair hides the pair on display, if any. The input that dismisses a
// pair does nothing else, wherever it lands.
func (g *Game) dismissShownPair() bool {
	if g.ShownPair == nil {
		return false
	}
	g.hidePair()
	g.sendState()
	return true
}

func (g *Game) hidePair() {
	g.ShownPair = nil
	g.hideSeq++
}

// handleHidePair hides the displayed pair unless it was already dismissed and
// possibly replaced by a newer one.
func (g *Game) handleHidePair(seq int) {
	if g.ShownPair == nil || seq != g.hideSeq {
		return
	}
	g.hidePair()
	g.sendState()
}
