package cards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Card
		wantErr bool
	}{
		// Valid cards with different suit notations
		{"Ace of Spades Unicode", "A♠", Card{Suit: Spades, Rank: Ace, Value: 1}, false},
		{"Ace of Spades lowercase", "As", Card{Suit: Spades, Rank: Ace, Value: 1}, false},
		{"Ace of Spades uppercase", "AS", Card{Suit: Spades, Rank: Ace, Value: 1}, false},
		{"Ten of Hearts Unicode", "10♥", Card{Suit: Hearts, Rank: Ten, Value: 10}, false},
		{"Ten of Hearts lowercase", "10h", Card{Suit: Hearts, Rank: Ten, Value: 10}, false},
		{"Queen of Diamonds Unicode", "Q♦", Card{Suit: Diamonds, Rank: Queen, Value: 10}, false},
		{"Queen of Diamonds lowercase", "Qd", Card{Suit: Diamonds, Rank: Queen, Value: 10}, false},
		{"Two of Clubs Unicode", "2♣", Card{Suit: Clubs, Rank: Two, Value: 2}, false},
		{"Two of Clubs uppercase", "2C", Card{Suit: Clubs, Rank: Two, Value: 2}, false},

		// Point values
		{"King of Hearts", "Kh", Card{Suit: Hearts, Rank: King, Value: 10}, false},
		{"Jack of Hearts", "Jh", Card{Suit: Hearts, Rank: Jack, Value: 10}, false},
		{"Nine of Hearts", "9h", Card{Suit: Hearts, Rank: Nine, Value: 9}, false},
		{"Five of Hearts", "5h", Card{Suit: Hearts, Rank: Five, Value: 5}, false},
		{"Mixed case rank", "aS", Card{Suit: Spades, Rank: Ace, Value: 1}, false},

		// Invalid inputs
		{"Input with trailing space", "AS ", Card{}, true},
		{"Input with leading space", " AS", Card{}, true},
		{"Too short input", "A", Card{}, true},
		{"Suit only", "♠", Card{}, true},
		{"Empty input", "", Card{}, true},
		{"Invalid suit", "10X", Card{}, true},
		{"Invalid rank", "11S", Card{}, true},
		{"Reverse order", "♠A", Card{}, true},
		{"Number too large", "100S", Card{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CardFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err, "CardFromString(%q) should return an error", tt.input)
			} else {
				require.NoError(t, err, "CardFromString(%q) should not return an error", tt.input)
				require.Equal(t, tt.want, got, "CardFromString(%q) should return the correct card", tt.input)
			}
		})
	}
}

func TestMustCardsPanicsOnInvalidShorthand(t *testing.T) {
	require.Panics(t, func() { MustCards("Ah", "ZZ") })
	require.Len(t, MustCards("Ah", "Kd", "10c"), 3)
}

func TestCardString(t *testing.T) {
	require.Equal(t, "10♥", NewCard(Hearts, Ten).String())
	require.Equal(t, "A♠", NewCard(Spades, Ace).String())
}
