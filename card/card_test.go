package card

import (
	"errors"
	"testing"
)

func TestCode(t *testing.T) {
	tests := []struct {
		card     Card
		expected string
	}{
		{Card{Rank: Ace, Suit: Clubs}, "AC"},
		{Card{Rank: King, Suit: Spades}, "KS"},
		{Card{Rank: 10, Suit: Hearts}, "10H"},
		{Card{Rank: 2, Suit: Diamonds}, "2D"},
		{Card{Rank: Queen, Suit: Hearts, Reveals: 4}, "QH"},
		{Card{Rank: 0, Suit: Clubs}, ""},
		{Card{Rank: 14, Suit: Spades}, ""},
		{Card{Rank: 5, Suit: Suit(4)}, ""},
	}
	for _, test := range tests {
		if got := test.card.Code(); got != test.expected {
			t.Errorf("%+v.Code() = %q, want %q", test.card, got, test.expected)
		}
	}
}

func TestCodeIsBijection(t *testing.T) {
	seen := make(map[string]Card)
	for _, c := range All() {
		code := c.Code()
		if code == "" {
			t.Fatalf("valid card %+v has empty code", c)
		}
		if prev, ok := seen[code]; ok {
			t.Fatalf("code %q used by both %+v and %+v", code, prev, c)
		}
		seen[code] = c

		parsed, err := ParseCode(code)
		if err != nil {
			t.Fatalf("ParseCode(%q): %v", code, err)
		}
		if parsed != c {
			t.Errorf("ParseCode(%q) = %+v, want %+v", code, parsed, c)
		}
	}
	if len(seen) != DeckSize {
		t.Errorf("expected %d codes, got %d", DeckSize, len(seen))
	}
}

func TestParseCodeInvalid(t *testing.T) {
	for _, code := range []string{"", "A", "1C", "11C", "0C", "010H", "AX", "KSS", "ZH"} {
		if _, err := ParseCode(code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("ParseCode(%q) error = %v, want ErrInvalidCode", code, err)
		}
	}
}

func TestNextWrapsOverValidCards(t *testing.T) {
	c := Card{Rank: King, Suit: Clubs}
	if got := c.Next(); got != (Card{Rank: Ace, Suit: Diamonds}) {
		t.Errorf("KC.Next() = %v, want AD", got)
	}
	c = Card{Rank: King, Suit: Spades}
	if got := c.Next(); got != (Card{Rank: Ace, Suit: Clubs}) {
		t.Errorf("KS.Next() = %v, want AC", got)
	}

	// Walking the whole deck visits every card once.
	seen := make(map[Card]bool)
	c = FromIndex(0)
	for i := 0; i < DeckSize; i++ {
		seen[c] = true
		c = c.Next()
	}
	if len(seen) != DeckSize {
		t.Errorf("Next cycle visited %d cards, want %d", len(seen), DeckSize)
	}
}

func TestFaceDropsReveals(t *testing.T) {
	a := Card{Rank: 7, Suit: Hearts, Reveals: 3}
	b := Card{Rank: 7, Suit: Hearts, Reveals: 1}
	if a.Face() != b.Face() {
		t.Error("cards with same rank and suit should have equal faces")
	}
	if (Card{}).Empty() != true {
		t.Error("zero card should be empty")
	}
	if a.Empty() {
		t.Error("7H should not be empty")
	}
}

func TestSuitRed(t *testing.T) {
	if Clubs.Red() || Spades.Red() {
		t.Error("black suits reported red")
	}
	if !Diamonds.Red() || !Hearts.Red() {
		t.Error("red suits reported black")
	}
}
