package card

import (
	"errors"
	"strconv"
)

// ErrInvalidCode is returned by ParseCode for strings that name no card.
var ErrInvalidCode = errors.New("invalid card code")

// Suit of a playing card. Order matches the asset naming (C, D, H, S).
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// NumSuits is the number of suits in a deck.
const NumSuits = 4

// String returns the single-letter suit code.
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	default:
		return ""
	}
}

// Red reports whether the suit is printed in red.
func (s Suit) Red() bool {
	return s == Diamonds || s == Hearts
}

// Rank of a playing card, 1 (ace) to 13 (king). Zero means no card.
type Rank int

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// NumRanks is the number of ranks per suit.
const NumRanks = 13

// String returns the rank part of a card code.
func (r Rank) String() string {
	switch {
	case r == Ace:
		return "A"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r > Ace && r < Jack:
		return strconv.Itoa(int(r))
	default:
		return ""
	}
}

const (
	// DeckSize is the number of distinct cards.
	DeckSize = NumSuits * NumRanks
	// Capacity is the largest number of grid cells a deck can fill, each card placed twice.
	Capacity = 2 * DeckSize
)

// Card is one grid cell. The zero value is an empty (removed) cell.
// Reveals counts how many times the card has been turned as part of a pair.
type Card struct {
	Rank    Rank
	Suit    Suit
	Reveals int
}

// Empty reports whether the cell holds no card.
func (c Card) Empty() bool {
	return c.Rank == 0
}

// Valid reports whether rank and suit name a real card.
func (c Card) Valid() bool {
	return c.Rank >= Ace && c.Rank <= King && c.Suit >= Clubs && c.Suit <= Spades
}

// Face returns the card without its reveal counter; two cards match when their faces are equal.
func (c Card) Face() Card {
	return Card{Rank: c.Rank, Suit: c.Suit}
}

// Code returns the asset code, e.g. "AC", "10H", "KS", or "" for an invalid card.
func (c Card) Code() string {
	if !c.Valid() {
		return ""
	}
	return c.Rank.String() + c.Suit.String()
}

// String implements fmt.Stringer.
func (c Card) String() string {
	if c.Empty() {
		return "--"
	}
	return c.Code()
}

// Index returns the position of the card in deck order (suit major, rank minor), or -1.
func (c Card) Index() int {
	if !c.Valid() {
		return -1
	}
	return int(c.Suit)*NumRanks + int(c.Rank) - 1
}

// Next returns the next valid card in deck order, wrapping from the king of spades to the ace of clubs.
func (c Card) Next() Card {
	i := c.Index()
	if i < 0 {
		return FromIndex(0)
	}
	return FromIndex((i + 1) % DeckSize)
}

// FromIndex returns the card at deck position i (0..DeckSize-1).
func FromIndex(i int) Card {
	return Card{Rank: Rank(i%NumRanks + 1), Suit: Suit(i / NumRanks)}
}

// All returns the full deck in deck order.
func All() []Card {
	deck := make([]Card, DeckSize)
	for i := range deck {
		deck[i] = FromIndex(i)
	}
	return deck
}

// ParseCode converts an asset code back into a card.
func ParseCode(code string) (Card, error) {
	if len(code) < 2 || len(code) > 3 {
		return Card{}, ErrInvalidCode
	}
	var suit Suit
	switch code[len(code)-1] {
	case 'C':
		suit = Clubs
	case 'D':
		suit = Diamonds
	case 'H':
		suit = Hearts
	case 'S':
		suit = Spades
	default:
		return Card{}, ErrInvalidCode
	}
	var rank Rank
	switch r := code[:len(code)-1]; r {
	case "A":
		rank = Ace
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		n, err := strconv.Atoi(r)
		if err != nil || n < 2 || n > 10 || r[0] == '0' {
			return Card{}, ErrInvalidCode
		}
		rank = Rank(n)
	}
	return Card{Rank: rank, Suit: suit}, nil
}
