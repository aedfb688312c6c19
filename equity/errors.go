package equity

import "errors"

var (
	// ErrInvalidBoardSize is returned when the board does not hold 0, 3, 4 or 5 cards.
	ErrInvalidBoardSize = errors.New("invalid board size")
	// ErrInvalidPlayerCount is returned when the number of participants is out of range.
	ErrInvalidPlayerCount = errors.New("invalid player count")
	// ErrInsufficientDeck is returned when too few unseen cards remain to deal
	// the random opponents and the rest of the board.
	ErrInsufficientDeck = errors.New("insufficient cards left in deck")
	// ErrTooManyTrials is returned by a Calculator when exact enumeration
	// would exceed its trial limit.
	ErrTooManyTrials = errors.New("too many trials for exact enumeration")
)
