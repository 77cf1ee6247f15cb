package domain

import "github.com/lazharichir/blackjack/cards"

// Seat is one occupied position at a blackjack table. It outlives the connection that
// created it: a reconnect under the same name rebinds ID and keeps the coins.
type Seat struct {
	ID       string
	Name     string
	IsDealer bool

	Hand        cards.Hand
	Bet         int
	SideBetPair int
	SideBetBust int
	Coins       int

	IsBusted   bool
	IsStanding bool
}

// NewSeat creates a seat with an empty hand and the given coin balance
func NewSeat(id string, name string, coins int) *Seat {
	return &Seat{
		ID:    id,
		Name:  name,
		Hand:  make(cards.Hand, 0, 5),
		Coins: coins,
	}
}

// ResetForNewRound clears the hand, wagers and per-round flags. Coins are kept.
func (s *Seat) ResetForNewRound() {
	s.Hand = s.Hand[:0:0]
	s.Bet = 0
	s.SideBetPair = 0
	s.SideBetBust = 0
	s.IsBusted = false
	s.IsStanding = false
}

// AddCard appends a dealt card to the hand
func (s *Seat) AddCard(card cards.Card) {
	s.Hand = append(s.Hand, card)
}

// HandValue returns the blackjack total of the current hand
func (s *Seat) HandValue() int {
	return s.Hand.Value()
}

// IsDone reports whether the seat can no longer act this round
func (s *Seat) IsDone() bool {
	return s.IsBusted || s.IsStanding
}

// wager moves amount from coins into the wager pointed to by into, but only when the
// remaining coins cover it. Reports whether the wager was taken.
func (s *Seat) wager(amount int, into *int) bool {
	if amount <= 0 || amount > s.Coins {
		return false
	}
	s.Coins -= amount
	*into += amount
	return true
}
