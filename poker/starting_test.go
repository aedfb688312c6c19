package poker

import "testing"

func TestClassifyStarting(t *testing.T) {
	tests := []struct {
		name     string
		hole     string
		expected StartingClass
	}{
		{"Pocket Aces", "AsAh", ClassPremium},
		{"Pocket Jacks", "JhJd", ClassPremium},
		{"Ace King offsuit", "AcKh", ClassPremium},
		{"Pocket Tens", "TcTh", ClassStrong},
		{"Ace Queen suited", "AsQs", ClassStrong},
		{"Ace Jack offsuit", "AdJc", ClassStrong},
		{"Pocket Sevens", "7h7c", ClassMedium},
		{"King Queen suited", "KsQs", ClassMedium},
		{"Pocket Twos", "2c2h", ClassWeak},
		{"Suited connectors 76s", "7h6h", ClassWeak},
		{"Suited one gapper 53s", "5d3d", ClassWeak},
		{"Seven Two offsuit", "7c2h", ClassTrash},
		{"King Queen offsuit", "KsQh", ClassTrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := MustParseCards(tt.hole)
			if got := ClassifyStarting(cards[0], cards[1]); got != tt.expected {
				t.Errorf("ClassifyStarting(%s) = %s, want %s", tt.hole, got, tt.expected)
			}
		})
	}
}

func TestClassifyStartingInvalid(t *testing.T) {
	as := NewCard(Ace, Spades)
	if got := ClassifyStarting(as, as); got != ClassUnknown {
		t.Errorf("same card twice = %s, want Unknown", got)
	}
	if got := ClassifyStarting(as, Card(60)); got != ClassUnknown {
		t.Errorf("invalid card = %s, want Unknown", got)
	}
}

func TestStartingNotation(t *testing.T) {
	tests := map[string]string{
		"AsKs": "AKs",
		"KhAd": "AKo",
		"QcQd": "QQ",
		"2c7c": "72s",
		"Th9s": "T9o",
	}
	for hole, want := range tests {
		cards := MustParseCards(hole)
		if got := StartingNotation(cards[0], cards[1]); got != want {
			t.Errorf("StartingNotation(%s) = %q, want %q", hole, got, want)
		}
	}
}
