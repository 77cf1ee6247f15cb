package cards

import "strings"

// Stack represents multiple cards
type Stack []Card

// NewStack creates a new stack with the given cards
func NewStack(cards ...Card) Stack {
	return Stack(cards)
}

// DealCard removes and returns the top card. Callers must check Len first.
func (s *Stack) DealCard() Card {
	card := (*s)[0]
	*s = (*s)[1:]
	return card
}

// AddCards appends cards to the bottom of the stack
func (s *Stack) AddCards(cards ...Card) {
	*s = append(*s, cards...)
}

// Len returns the number of cards left in the stack
func (s Stack) Len() int {
	return len(s)
}

func (s Stack) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
