package cards

// Blackjack is the best possible hand total.
const Blackjack = 21

// Hand is the ordered list of cards a seat holds during a round
type Hand []Card

// Value returns the blackjack total. Each ace is counted as 11 instead of 1 when
// that keeps the total at or under 21; a result above 21 is a bust.
func (h Hand) Value() int {
	total, aces := 0, 0
	for _, c := range h {
		total += c.Value
		if c.IsAce() {
			aces++
		}
	}
	for ; aces > 0; aces-- {
		if total+10 <= Blackjack {
			total += 10
		}
	}
	return total
}

// IsSoft reports whether an ace is currently being counted as 11
func (h Hand) IsSoft() bool {
	hard := 0
	hasAce := false
	for _, c := range h {
		hard += c.Value
		hasAce = hasAce || c.IsAce()
	}
	return hasAce && h.Value() != hard
}

// IsBust reports whether the hand is over 21
func (h Hand) IsBust() bool {
	return h.Value() > Blackjack
}

// IsNatural reports a two-card 21
func (h Hand) IsNatural() bool {
	return len(h) == 2 && h.Value() == Blackjack
}

// IsPair reports whether the first two cards dealt share a rank, whatever was drawn after
func (h Hand) IsPair() bool {
	return len(h) >= 2 && h[0].Rank == h[1].Rank
}

func (h Hand) String() string {
	return Stack(h).String()
}
