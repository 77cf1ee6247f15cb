package domain

import "github.com/lazharichir/blackjack/cards"

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomePush Outcome = "push"
	OutcomeBust Outcome = "bust"
)

// Payout is how one seat's wagers were resolved against the dealer. Main, Pair, Bust
// and Bonus are what the seat was credited; DealerDelta is the dealer's net change.
type Payout struct {
	SeatID      string
	Outcome     Outcome
	Main        int
	Pair        int
	Bust        int
	Bonus       int
	DealerDelta int
}

// Settlement summarises one round's resolution
type Settlement struct {
	RoundNumber int
	DealerID    string
	DealerValue int
	DealerBust  bool
	DealerDelta int
	Payouts     []Payout
}

// settleBets resolves every non-dealer seat with a main bet against the dealer's hand
// and moves the coins. Seats without a main bet are skipped, side bets included.
// The dealer's balance may go negative.
func (t *Table) settleBets() Settlement {
	dealer := t.Dealer()
	settlement := Settlement{RoundNumber: t.roundNumber}
	if dealer == nil {
		return settlement
	}

	dealerValue := dealer.HandValue()
	dealerBust := dealerValue > cards.Blackjack
	settlement.DealerID = dealer.ID
	settlement.DealerValue = dealerValue
	settlement.DealerBust = dealerBust

	for _, seat := range t.seats {
		if seat == dealer || seat.IsDealer || seat.Bet == 0 {
			continue
		}
		payout := settleSeat(seat, dealer, dealerValue, dealerBust)
		settlement.DealerDelta += payout.DealerDelta
		settlement.Payouts = append(settlement.Payouts, payout)
	}

	return settlement
}

// settleSeat resolves one seat. Player and dealer amounts are not mirror images: the
// wagers already left the seat's coins when they were placed, so the seat is credited
// gross returns while the dealer is charged only the net.
func settleSeat(seat *Seat, dealer *Seat, dealerValue int, dealerBust bool) Payout {
	bet := seat.Bet
	value := seat.HandValue()
	payout := Payout{SeatID: seat.ID}
	move := func(toSeat int, fromDealer int) int {
		seat.Coins += toSeat
		dealer.Coins -= fromDealer
		payout.DealerDelta -= fromDealer
		return toSeat
	}

	switch {
	case seat.IsBusted || value > cards.Blackjack:
		payout.Outcome = OutcomeBust
		move(0, -bet)
	case dealerBust, value > dealerValue:
		payout.Outcome = OutcomeWin
		payout.Main = move(2*bet, bet)
	case value == dealerValue:
		payout.Outcome = OutcomePush
		payout.Main = move(bet, 0)
	default:
		payout.Outcome = OutcomeLose
		move(0, -bet)
	}

	if seat.SideBetPair > 0 && seat.Hand.IsPair() {
		payout.Pair = move(11*seat.SideBetPair, 10*seat.SideBetPair)
	}

	if seat.SideBetBust > 0 {
		switch {
		case dealerBust && len(dealer.Hand) >= 5:
			payout.Bust = move(5*seat.SideBetBust, 4*seat.SideBetBust)
		case dealerBust:
			payout.Bust = move(2*seat.SideBetBust, seat.SideBetBust)
		default:
			move(0, -seat.SideBetBust)
		}
	}

	if seat.Hand.IsNatural() {
		bonus := bet / 2
		payout.Bonus = move(bonus, bonus)
	}

	return payout
}
