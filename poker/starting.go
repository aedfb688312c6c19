package poker

// StartingClass is a coarse strength bucket for a two-card starting hand.
type StartingClass string

const (
	ClassPremium StartingClass = "Premium"
	ClassStrong  StartingClass = "Strong"
	ClassMedium  StartingClass = "Medium"
	ClassWeak    StartingClass = "Weak"
	ClassTrash   StartingClass = "Trash"
	ClassUnknown StartingClass = "Unknown"
)

// ClassifyStarting buckets hole cards: Premium (JJ+, AK), Strong (TT, AQ, AJ),
// Medium (77-99, suited broadway), Weak (22-66, suited connectors), Trash otherwise.
func ClassifyStarting(a, b Card) StartingClass {
	if !a.Valid() || !b.Valid() || a == b {
		return ClassUnknown
	}
	lo, hi := a.Rank(), b.Rank()
	if lo > hi {
		lo, hi = hi, lo
	}
	suited := a.Suit() == b.Suit()
	pair := lo == hi

	switch {
	case pair && lo >= Jack, lo == King && hi == Ace:
		return ClassPremium
	case pair && lo == Ten, hi == Ace && (lo == Queen || lo == Jack):
		return ClassStrong
	case pair && lo >= Seven, suited && lo >= Ten:
		return ClassMedium
	case pair, suited && hi-lo <= 2:
		return ClassWeak
	default:
		return ClassTrash
	}
}

// StartingNotation returns the shorthand for a starting hand with the higher
// rank first: "QQ" for pairs, "AKs" for suited and "AKo" for offsuit.
func StartingNotation(a, b Card) string {
	if !a.Valid() || !b.Valid() {
		return "??"
	}
	hi, lo := a.Rank(), b.Rank()
	if lo > hi {
		hi, lo = lo, hi
	}
	switch {
	case hi == lo:
		return hi.String() + lo.String()
	case a.Suit() == b.Suit():
		return hi.String() + lo.String() + "s"
	default:
		return hi.String() + lo.String() + "o"
	}
}
