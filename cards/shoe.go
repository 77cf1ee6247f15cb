package cards

import (
	"math/rand"
	"time"
)

// ReshuffleThreshold is the card count under which a table rebuilds its shoe
// before dealing a new round. It is three decks' worth regardless of shoe size.
const ReshuffleThreshold = 3 * 52

// Shoe represents multiple decks of cards dealt from the top
type Shoe struct {
	decks int
	cards Stack
	rng   *rand.Rand
}

// NewShoe creates a built and shuffled shoe with the given number of decks.
// A nil rng gets a time-seeded source.
func NewShoe(numDecks int, rng *rand.Rand) *Shoe {
	if numDecks < 1 {
		numDecks = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Shoe{decks: numDecks, rng: rng}
	s.Build()
	return s
}

// Build replaces whatever is left with fresh decks and shuffles them
func (s *Shoe) Build() {
	cards := make(Stack, 0, s.decks*52)
	for i := 0; i < s.decks; i++ {
		cards = append(cards, NewDeck52()...)
	}
	s.cards = cards
	s.Shuffle()
}

// Shuffle randomly permutes the remaining cards in place
func (s *Shoe) Shuffle() {
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Deal removes and returns the top card, rebuilding the shoe first if it ran dry
func (s *Shoe) Deal() Card {
	if s.cards.Len() == 0 {
		s.Build()
	}
	return s.cards.DealCard()
}

// Remaining returns how many cards are left before the next rebuild
func (s *Shoe) Remaining() int {
	return s.cards.Len()
}

// Decks returns the number of decks the shoe is built from
func (s *Shoe) Decks() int {
	return s.decks
}

// PlaceOnTop puts cards on top of the shoe so that they are dealt next, in order.
// It is meant for fixtures and replaying known deals.
func (s *Shoe) PlaceOnTop(cards ...Card) {
	top := make(Stack, 0, len(cards)+s.cards.Len())
	top = append(top, cards...)
	s.cards = append(top, s.cards...)
}
