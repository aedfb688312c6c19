package poker

import (
	"fmt"
	"strings"
)

// ParseCard parses two character notation such as "As", "Td" or "2c".
// Rank and suit characters are case insensitive.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q must be 2 characters", ErrParse, s)
	}
	rank, ok := parseRank(s[0])
	if !ok {
		return 0, fmt.Errorf("%w: unknown rank %q in %q", ErrParse, s[0], s)
	}
	suit, ok := parseSuit(s[1])
	if !ok {
		return 0, fmt.Errorf("%w: unknown suit %q in %q", ErrParse, s[1], s)
	}
	return NewCard(rank, suit), nil
}

// ParseCards parses a run of cards, with or without whitespace: "AsKh" or "As Kh".
func ParseCards(s string) ([]Card, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: card string length %d is odd", ErrParse, len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", s, err))
	}
	return cards
}

// ParseHole parses exactly two hole cards.
func ParseHole(s string) ([2]Card, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return [2]Card{}, err
	}
	if len(cards) != 2 {
		return [2]Card{}, fmt.Errorf("%w: expected 2 hole cards, got %d", ErrParse, len(cards))
	}
	return [2]Card{cards[0], cards[1]}, nil
}

// ParseBoard parses zero to five community cards.
func ParseBoard(s string) ([]Card, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return nil, err
	}
	if len(cards) > 5 {
		return nil, fmt.Errorf("%w: too many board cards: %d (max 5)", ErrParse, len(cards))
	}
	return cards, nil
}

// FormatCards joins cards with single spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func parseRank(c byte) (Rank, bool) {
	switch c {
	case 't':
		c = 'T'
	case 'j':
		c = 'J'
	case 'q':
		c = 'Q'
	case 'k':
		c = 'K'
	case 'a':
		c = 'A'
	}
	i := strings.IndexByte(rankChars, c)
	if i < 0 {
		return 0, false
	}
	return Rank(i), true
}

func parseSuit(c byte) (Suit, bool) {
	switch c {
	case 'c', 'C':
		return Clubs, true
	case 'd', 'D':
		return Diamonds, true
	case 'h', 'H':
		return Hearts, true
	case 's', 'S':
		return Spades, true
	default:
		return 0, false
	}
}
