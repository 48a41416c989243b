package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"card-memory/card"
)

var (
	// ErrOutOfBounds is returned when a selection falls outside the board.
	ErrOutOfBounds = errors.New("position outside the board")
	// ErrEmptyCell is returned when a selection targets a removed card.
	ErrEmptyCell = errors.New("no card at that position")
	// ErrGameOver is returned for selections after the game has been won.
	ErrGameOver = errors.New("game is over")
)

// SelectionState is the phase of the pair selection state machine.
type SelectionState int

const (
	NoSelection SelectionState = iota
	OneSelected
	TwoSelected
)

// String returns the protocol string for a SelectionState.
func (s SelectionState) String() string {
	switch s {
	case NoSelection:
		return "no_selection"
	case OneSelected:
		return "one_selected"
	case TwoSelected:
		return "two_selected"
	default:
		return "unknown"
	}
}

// Selection holds up to two selected positions; unused slots are None.
type Selection struct {
	First  Pos
	Second Pos
}

// State returns the phase implied by the selected positions.
func (s Selection) State() SelectionState {
	switch {
	case s.First == None:
		return NoSelection
	case s.Second == None:
		return OneSelected
	default:
		return TwoSelected
	}
}

// Stats are the per-game counters shown in the final result.
type Stats struct {
	Round         int
	PairsTurned   int
	Matches       int
	WastedReveals int
	StartedAt     time.Time
}

// Outcome describes what a single selection did.
type Outcome struct {
	Selected Pos

	// Resolved is set when the selection completed a pair.
	Resolved   bool
	First      Pos
	Second     Pos
	FirstCard  card.Card
	SecondCard card.Card
	Matched    bool

	// Grew is set when the match cleared the board and a larger one was dealt.
	Grew bool
	// Won is set when the cleared board could not grow any further.
	Won bool
}

// Result is the final summary of a won game.
type Result struct {
	Elapsed       time.Duration
	Rounds        int
	Width         int
	Height        int
	PairsTurned   int
	Matches       int
	WastedReveals int
}

// Message returns the end-of-game text.
func (r Result) Message() string {
	return fmt.Sprintf("You won! Time: %s, pairs turned: %d, wasted reveals: %d",
		FormatElapsed(r.Elapsed), r.PairsTurned, r.WastedReveals)
}

// Session owns the board, the selection and the counters of one game.
type Session struct {
	Board     *Board
	Selection Selection
	Stats     Stats

	// Now is the clock used for elapsed time. Defaults to time.Now.
	Now func() time.Time

	aspect float64
	rng    *rand.Rand
	result *Result
}

// NewSession deals the first board. aspect is the width:height ratio board growth aims for.
func NewSession(width, height int, aspect float64, rng *rand.Rand) (*Session, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("board size %dx%d: %w", width, height, ErrOutOfBounds)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	board := NewBoard(width, height)
	if err := board.Generate(rng); err != nil {
		return nil, fmt.Errorf("board size %dx%d: %w", width, height, err)
	}
	s := &Session{
		Board:     board,
		Selection: Selection{First: None, Second: None},
		Now:       time.Now,
		aspect:    aspect,
		rng:       rng,
	}
	s.Stats = Stats{Round: 1, StartedAt: s.Now()}
	return s, nil
}

// Aspect returns the growth aspect ratio of the session.
func (s *Session) Aspect() float64 {
	return s.aspect
}

// Result returns the final result, or nil while the game is running.
func (s *Session) Result() *Result {
	return s.result
}

// Finished reports whether the game has been won.
func (s *Session) Finished() bool {
	return s.result != nil
}

// Elapsed returns the time since the game started, frozen once it is won.
func (s *Session) Elapsed() time.Duration {
	if s.result != nil {
		return s.result.Elapsed
	}
	return s.Now().Sub(s.Stats.StartedAt)
}

// Select handles a selection at p.
//
// The first selection on a card remembers it; selecting it again does nothing. A second,
// different card completes the pair: both reveal counters go up, equal faces are removed,
// and the selection is reset whether or not they matched. Clearing the board deals the
// next, larger board or wins the game.
func (s *Session) Select(p Pos) (Outcome, error) {
	if s.result != nil {
		return Outcome{}, ErrGameOver
	}
	if !s.Board.InBounds(p) {
		return Outcome{}, ErrOutOfBounds
	}
	if s.Board.At(p).Empty() {
		return Outcome{}, ErrEmptyCell
	}

	switch s.Selection.State() {
	case NoSelection:
		s.Selection.First = p
		return Outcome{Selected: p}, nil
	case OneSelected:
		if p == s.Selection.First {
			return Outcome{Selected: p}, nil
		}
		s.Selection.Second = p
	}
	return s.resolve(), nil
}

func (s *Session) resolve() Outcome {
	first, second := s.Selection.First, s.Selection.Second
	a := &s.Board.Cells[first.Y][first.X]
	b := &s.Board.Cells[second.Y][second.X]
	a.Reveals++
	b.Reveals++

	out := Outcome{
		Selected:   second,
		Resolved:   true,
		First:      first,
		Second:     second,
		FirstCard:  *a,
		SecondCard: *b,
	}
	s.Stats.PairsTurned++

	if a.Face() == b.Face() {
		out.Matched = true
		s.Stats.Matches++
		s.Stats.WastedReveals += wastedReveals(*a, *b)
		*a = card.Card{}
		*b = card.Card{}
	}
	s.Selection = Selection{First: None, Second: None}

	if out.Matched && s.Board.Cleared() {
		if s.grow() {
			out.Won = true
		} else {
			out.Grew = true
		}
	}
	return out
}

// wastedReveals counts every turn of a matched pair beyond the first look at each card.
func wastedReveals(a, b card.Card) int {
	return (a.Reveals - 1) + (b.Reveals - 1)
}

// grow deals the next board, or records the win when the deck cannot fill it. Reports the win.
func (s *Session) grow() bool {
	w, h := Grow(s.Board.Width, s.Board.Height, s.aspect)
	board := NewBoard(w, h)
	if err := board.Generate(s.rng); err != nil {
		s.result = &Result{
			Elapsed:       s.Now().Sub(s.Stats.StartedAt),
			Rounds:        s.Stats.Round,
			Width:         s.Board.Width,
			Height:        s.Board.Height,
			PairsTurned:   s.Stats.PairsTurned,
			Matches:       s.Stats.Matches,
			WastedReveals: s.Stats.WastedReveals,
		}
		return true
	}
	s.Board = board
	s.Stats.Round++
	return false
}

// FormatElapsed renders a duration as MM:SS.mmms, with a leading HH: when hours are non-zero.
func FormatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	seconds := ms / 1000 % 60
	millis := ms % 1000
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03ds", hours, minutes, seconds, millis)
	}
	return fmt.Sprintf("%02d:%02d.%03ds", minutes, seconds, millis)
}
