package domain

import (
	"time"

	"github.com/lazharichir/blackjack/cards"
	"github.com/lazharichir/blackjack/domain/events"
	"github.com/sirupsen/logrus"
)

// Hit routes a hit to the dealer path when seatID holds the dealer seat, otherwise to
// the player path.
func (t *Table) Hit(seatID string) {
	if dealer := t.Dealer(); dealer != nil && dealer.ID == seatID {
		t.DealerHit()
		return
	}
	t.PlayerHit(seatID)
}

// Stand routes a stand the same way Hit does
func (t *Table) Stand(seatID string) {
	if dealer := t.Dealer(); dealer != nil && dealer.ID == seatID {
		t.DealerStand()
		return
	}
	t.PlayerStand(seatID)
}

// PlayerHit deals one card to the seat. Going over 21 busts the seat and ends its turn.
func (t *Table) PlayerHit(seatID string) {
	seat := t.actingSeat(seatID, "hit")
	if seat == nil {
		return
	}
	t.closeBetting()

	t.dealTo(seat)
	if seat.HandValue() > cards.Blackjack {
		t.bust(seat)
		t.AdvanceTurn()
	}
}

// PlayerStand ends the seat's turn
func (t *Table) PlayerStand(seatID string) {
	seat := t.actingSeat(seatID, "stand")
	if seat == nil {
		return
	}
	t.closeBetting()

	seat.IsStanding = true
	t.emitEvent(events.PlayerStood{
		TableID:   t.ID,
		SeatID:    seat.ID,
		HandValue: seat.HandValue(),
		At:        time.Now(),
	})
	t.AdvanceTurn()
}

// PlayerDouble doubles the main bet, deals exactly one card and ends the turn. It needs
// coins at least equal to the current bet.
func (t *Table) PlayerDouble(seatID string) {
	seat := t.actingSeat(seatID, "double")
	if seat == nil {
		return
	}
	if seat.Coins < seat.Bet {
		t.log.WithField("seat", seatID).Debug("double ignored: not enough coins")
		return
	}
	t.closeBetting()

	seat.Coins -= seat.Bet
	seat.Bet *= 2
	t.emitEvent(events.PlayerDoubled{
		TableID: t.ID,
		SeatID:  seat.ID,
		Bet:     seat.Bet,
		At:      time.Now(),
	})

	t.dealTo(seat)
	if seat.HandValue() > cards.Blackjack {
		t.bust(seat)
	}
	seat.IsStanding = true
	t.AdvanceTurn()
}

// PlayerSurrender gives up the hand. Half the bet, rounded down, stays on the table as a
// loss; the rest goes back to the seat. The seat is settled as busted.
func (t *Table) PlayerSurrender(seatID string) {
	seat := t.actingSeat(seatID, "surrender")
	if seat == nil {
		return
	}
	t.closeBetting()

	forfeit := seat.Bet / 2
	refund := seat.Bet - forfeit
	seat.Coins += refund
	seat.Bet = forfeit
	seat.IsBusted = true

	t.log.WithFields(logrus.Fields{"seat": seatID, "refund": refund, "forfeit": forfeit}).Debug("player surrendered")
	t.emitEvent(events.PlayerSurrendered{
		TableID:  t.ID,
		SeatID:   seat.ID,
		Refunded: refund,
		Forfeit:  forfeit,
		At:       time.Now(),
	})
	t.AdvanceTurn()
}

// AdvanceTurn hands the turn to the next seat, in circular order after the current one,
// that is neither the dealer nor finished. The current seat itself is considered last.
// When no such seat is left the dealer plays.
func (t *Table) AdvanceTurn() {
	n := len(t.seats)
	if n == 0 || !t.roundInProgress() || t.dealerDone {
		return
	}
	t.closeBetting()

	start := t.currentTurnIndex
	for k := 1; k <= n; k++ {
		i := (start + k) % n
		seat := t.seats[i]
		if i == t.dealerIndex || seat.IsDealer || seat.IsDone() {
			continue
		}
		t.currentTurnIndex = i
		t.emitEvent(events.TurnStarted{
			TableID:     t.ID,
			RoundNumber: t.roundNumber,
			SeatID:      seat.ID,
			SeatIndex:   i,
			At:          time.Now(),
		})
		return
	}

	t.currentTurnIndex = t.dealerIndex
	t.dealerPlay()
}

// actingSeat returns the non-dealer seat allowed to take a decision now, or nil
func (t *Table) actingSeat(seatID string, action string) *Seat {
	log := t.log.WithFields(logrus.Fields{"seat": seatID, "action": action})

	if !t.roundInProgress() {
		log.Debug("action ignored: no round in progress")
		return nil
	}
	seat := t.FindSeatByID(seatID)
	if seat == nil || seat.IsDealer || seat.IsDone() {
		log.Debug("action ignored: seat cannot act")
		return nil
	}
	if t.Rules.StrictTurns {
		if t.phase == PhaseDealerTurn || t.dealerDone {
			log.Debug("action ignored: dealer is playing")
			return nil
		}
		if current := t.CurrentSeat(); current == nil || current.ID != seatID {
			log.Debug("action ignored: not this seat's turn")
			return nil
		}
	}
	return seat
}

func (t *Table) bust(seat *Seat) {
	seat.IsBusted = true
	t.emitEvent(events.PlayerBusted{
		TableID:   t.ID,
		SeatID:    seat.ID,
		HandValue: seat.HandValue(),
		At:        time.Now(),
	})
}

// closeBetting moves the table out of the betting phase on the first decision of a round
func (t *Table) closeBetting() {
	if t.phase == PhaseBetting {
		t.setPhase(PhasePlayerTurns)
	}
}

func (t *Table) roundInProgress() bool {
	return t.roundNumber > 0 && !t.settled
}
