package game

import (
	"errors"
	"math/rand"

	"card-memory/card"
)

var (
	// ErrDeckExhausted is returned when a grid needs more distinct cards than a deck holds.
	ErrDeckExhausted = errors.New("grid exceeds deck capacity")
	// ErrOddCells is returned when a grid has an odd number of cells and cannot hold only pairs.
	ErrOddCells = errors.New("grid has an odd number of cells")
)

// Pos is a grid coordinate.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// None is the empty selection sentinel.
var None = Pos{X: -1, Y: -1}

// Board is the card grid. Cells are indexed [y][x].
type Board struct {
	Width  int
	Height int
	Cells  [][]card.Card
}

// NewBoard creates an empty board of the given size.
func NewBoard(width, height int) *Board {
	cells := make([][]card.Card, height)
	for y := range cells {
		cells[y] = make([]card.Card, width)
	}
	return &Board{Width: width, Height: height, Cells: cells}
}

// Generate fills the board so that every card on it appears exactly twice.
//
// Cells are filled in row-major order. Each empty cell gets a random card not yet on the
// board (stepping forward through the deck when the draw is taken); its twin goes to a random
// cell, or the first empty cell after it when that one is taken. Placement is biased; it is
// not a uniform permutation.
func (b *Board) Generate(rng *rand.Rand) error {
	n := b.Width * b.Height
	if n%2 != 0 {
		return ErrOddCells
	}
	if n > card.Capacity {
		return ErrDeckExhausted
	}

	for y := range b.Cells {
		for x := range b.Cells[y] {
			b.Cells[y][x] = card.Card{}
		}
	}

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if !b.Cells[y][x].Empty() {
				continue
			}

			c := card.Card{
				Rank: card.Rank(rng.Intn(card.NumRanks) + 1),
				Suit: card.Suit(rng.Intn(card.NumSuits)),
			}
			for b.Contains(c) {
				c = c.Next()
			}
			b.Cells[y][x] = c

			x2, y2 := rng.Intn(b.Width), rng.Intn(b.Height)
			for !b.Cells[y2][x2].Empty() {
				x2++
				if x2 == b.Width {
					x2 = 0
					y2++
					if y2 == b.Height {
						y2 = 0
					}
				}
			}
			b.Cells[y2][x2] = c
		}
	}
	return nil
}

// InBounds reports whether p lies on the board.
func (b *Board) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// At returns the card at p. Callers check InBounds first.
func (b *Board) At(p Pos) card.Card {
	return b.Cells[p.Y][p.X]
}

// Contains reports whether a card with the same face is on the board.
func (b *Board) Contains(face card.Card) bool {
	face = face.Face()
	for _, row := range b.Cells {
		for _, c := range row {
			if !c.Empty() && c.Face() == face {
				return true
			}
		}
	}
	return false
}

// Cleared returns true if every card has been removed from the board.
func (b *Board) Cleared() bool {
	for _, row := range b.Cells {
		for _, c := range row {
			if !c.Empty() {
				return false
			}
		}
	}
	return true
}

// Remaining returns the number of cards still on the board.
func (b *Board) Remaining() int {
	n := 0
	for _, row := range b.Cells {
		for _, c := range row {
			if !c.Empty() {
				n++
			}
		}
	}
	return n
}

// Grow returns the next board size after a cleared round. It adds a column while the
// width:height ratio is below aspect and a row otherwise, until the cell count is even.
// At least one column or row is always added.
func Grow(width, height int, aspect float64) (int, int) {
	for {
		if float64(width)/float64(height) < aspect {
			width++
		} else {
			height++
		}
		if (width*height)%2 == 0 {
			return width, height
		}
	}
}
