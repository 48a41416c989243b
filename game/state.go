package game

// CardState is how a cell is presented to the player.
type CardState int

const (
	Hidden CardState = iota
	Selected
	Shown
	Removed
)

// String returns the string representation of a CardState.
func (cs CardState) String() string {
	switch cs {
	case Hidden:
		return "hidden"
	case Selected:
		return "selected"
	case Shown:
		return "shown"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// CardView is the client-facing representation of a cell.
// Code is only included when the card is face up.
type CardView struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	State string `json:"state"`
	Code  string `json:"code,omitempty"`
}

// PairView describes a resolved pair.
type PairView struct {
	First      Pos    `json:"first"`
	Second     Pos    `json:"second"`
	FirstCode  string `json:"firstCode"`
	SecondCode string `json:"secondCode"`
	Matched    bool   `json:"matched"`
}

// StatsView is the client-facing representation of the game counters.
type StatsView struct {
	Round         int    `json:"round"`
	PairsTurned   int    `json:"pairsTurned"`
	Matches       int    `json:"matches"`
	WastedReveals int    `json:"wastedReveals"`
	ElapsedMs     int64  `json:"elapsedMs"`
	Elapsed       string `json:"elapsed"`
}

// GameStateMsg is the full game state sent to the player.
type GameStateMsg struct {
	Type      string     `json:"type"`
	GameID    string     `json:"gameId"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Cards     []CardView `json:"cards"`
	Selection string     `json:"selection"`
	// Pair is the last resolved pair while it is still on display.
	Pair     *PairView `json:"pair,omitempty"`
	Stats    StatsView `json:"stats"`
	Finished bool      `json:"finished"`
}

// PairResolvedMsg is sent every time two cards have been compared.
type PairResolvedMsg struct {
	Type string `json:"type"`
	PairView
}

// RoundStartedMsg is sent when a cleared board has been replaced by a larger one.
// SurfaceW and SurfaceH are the preferred drawing size for the new board.
type RoundStartedMsg struct {
	Type     string `json:"type"`
	Round    int    `json:"round"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	SurfaceW int    `json:"surfaceW"`
	SurfaceH int    `json:"surfaceH"`
}

// GameOverMsg carries the final result.
type GameOverMsg struct {
	Type          string `json:"type"`
	Won           bool   `json:"won"`
	Message       string `json:"message"`
	Elapsed       string `json:"elapsed"`
	ElapsedMs     int64  `json:"elapsedMs"`
	Rounds        int    `json:"rounds"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	PairsTurned   int    `json:"pairsTurned"`
	Matches       int    `json:"matches"`
	WastedReveals int    `json:"wastedReveals"`
}

// BuildCardViews constructs the client-facing cell list in row-major order.
// Hidden cards do not expose their code. Cells of a displayed pair are shown face up,
// including a matched pair that has already been removed from the board.
func BuildCardViews(board *Board, sel Selection, pair *Outcome) []CardView {
	views := make([]CardView, 0, board.Width*board.Height)
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			p := Pos{X: x, Y: y}
			c := board.At(p)
			cv := CardView{X: x, Y: y, State: Hidden.String()}
			switch {
			case pair != nil && p == pair.First:
				cv.State = Shown.String()
				cv.Code = pair.FirstCard.Code()
			case pair != nil && p == pair.Second:
				cv.State = Shown.String()
				cv.Code = pair.SecondCard.Code()
			case c.Empty():
				cv.State = Removed.String()
			case p == sel.First || p == sel.Second:
				cv.State = Selected.String()
				cv.Code = c.Code()
			}
			views = append(views, cv)
		}
	}
	return views
}

// BuildPairView creates a PairView from a resolved Outcome.
func BuildPairView(out Outcome) PairView {
	return PairView{
		First:      out.First,
		Second:     out.Second,
		FirstCode:  out.FirstCard.Code(),
		SecondCode: out.SecondCard.Code(),
		Matched:    out.Matched,
	}
}

// BuildStatsView creates a StatsView from a Session.
func BuildStatsView(s *Session) StatsView {
	elapsed := s.Elapsed()
	return StatsView{
		Round:         s.Stats.Round,
		PairsTurned:   s.Stats.PairsTurned,
		Matches:       s.Stats.Matches,
		WastedReveals: s.Stats.WastedReveals,
		ElapsedMs:     elapsed.Milliseconds(),
		Elapsed:       FormatElapsed(elapsed),
	}
}

// BuildGameOverMsg creates the final message from a Result.
func BuildGameOverMsg(r Result) GameOverMsg {
	return GameOverMsg{
		Type:          "game_over",
		Won:           true,
		Message:       r.Message(),
		Elapsed:       FormatElapsed(r.Elapsed),
		ElapsedMs:     r.Elapsed.Milliseconds(),
		Rounds:        r.Rounds,
		Width:         r.Width,
		Height:        r.Height,
		PairsTurned:   r.PairsTurned,
		Matches:       r.Matches,
		WastedReveals: r.WastedReveals,
	}
}
