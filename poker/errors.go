package poker

import "errors"

var (
	// ErrInvalidCard is returned for card ids outside [0,51] or suits/ranks out of range.
	ErrInvalidCard = errors.New("invalid card")
	// ErrDuplicateCard is returned when the same card is used more than once.
	ErrDuplicateCard = errors.New("duplicate card")
	// ErrInvalidHandSize is returned when a hand to evaluate has fewer than 5 or more than 7 cards.
	ErrInvalidHandSize = errors.New("invalid hand size")
	// ErrParse is returned for malformed card notation.
	ErrParse = errors.New("cannot parse card")
)
