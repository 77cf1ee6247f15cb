package domain

import (
	"time"

	"github.com/lazharichir/blackjack/cards"
	"github.com/lazharichir/blackjack/domain/events"
	"github.com/sirupsen/logrus"
)

// DealerStandsOn is the total at which the automatic dealer draw stops
const DealerStandsOn = 17

// dealerPlay runs the dealer's automatic draw. A dealer bust settles the round at once;
// otherwise the dealer seat gets to choose between DealerHit and DealerStand.
func (t *Table) dealerPlay() {
	dealer := t.Dealer()
	if dealer == nil {
		return
	}

	t.setPhase(PhaseDealerTurn)
	t.dealerDone = true
	t.emitEvent(events.DealerTurnStarted{
		TableID:     t.ID,
		RoundNumber: t.roundNumber,
		DealerID:    dealer.ID,
		At:          time.Now(),
	})

	for dealer.HandValue() < DealerStandsOn {
		t.dealTo(dealer)
	}

	if dealer.HandValue() > cards.Blackjack {
		t.finishRound(false)
		return
	}

	t.dealerMayAct = true
	t.emitEvent(events.DealerAwaitingDecision{
		TableID:   t.ID,
		DealerID:  dealer.ID,
		HandValue: dealer.HandValue(),
		At:        time.Now(),
	})
}

// DealerHit draws one more card for the dealer after the automatic draw. Only allowed
// while the dealer may act; a bust settles the round.
func (t *Table) DealerHit() {
	if !t.dealerMayAct {
		t.log.Debug("dealer hit ignored: dealer may not act")
		return
	}
	dealer := t.Dealer()
	t.dealTo(dealer)
	if dealer.HandValue() > cards.Blackjack {
		t.finishRound(false)
	}
}

// DealerStand ends the dealer's turn and settles the round
func (t *Table) DealerStand() {
	if !t.dealerMayAct {
		t.log.Debug("dealer stand ignored: dealer may not act")
		return
	}
	t.finishRound(false)
}

// finishRound settles the round and rotates the dealer. auto marks a round that was
// settled because the next one started before the dealer finished.
func (t *Table) finishRound(auto bool) {
	t.dealerMayAct = false

	settlement := t.settleBets()
	t.settled = true

	for _, p := range settlement.Payouts {
		t.emitEvent(events.SeatSettled{
			TableID:     t.ID,
			RoundNumber: settlement.RoundNumber,
			SeatID:      p.SeatID,
			Outcome:     string(p.Outcome),
			MainDelta:   p.Main,
			PairDelta:   p.Pair,
			BustDelta:   p.Bust,
			BonusDelta:  p.Bonus,
			DealerDelta: p.DealerDelta,
			At:          time.Now(),
		})
	}

	t.log.WithFields(logrus.Fields{
		"round":        settlement.RoundNumber,
		"dealer_value": settlement.DealerValue,
		"dealer_delta": settlement.DealerDelta,
		"auto":         auto,
	}).Info("round settled")
	t.emitEvent(events.RoundSettled{
		TableID:     t.ID,
		RoundNumber: settlement.RoundNumber,
		DealerID:    settlement.DealerID,
		DealerValue: settlement.DealerValue,
		DealerBust:  settlement.DealerBust,
		DealerDelta: settlement.DealerDelta,
		AutoSettled: auto,
		At:          time.Now(),
	})

	t.rotateDealer()
	t.setPhase(PhaseBetting)
}

// rotateDealer passes the dealer seat to the next seat every DealerRotationInterval
// rounds. The new dealer takes over at the next round start.
func (t *Table) rotateDealer() {
	n := len(t.seats)
	if n == 0 || t.roundNumber%DealerRotationInterval != 0 {
		return
	}

	previous := t.Dealer()
	t.dealerIndex = (t.dealerIndex + 1) % n
	next := t.seats[t.dealerIndex]

	t.log.WithFields(logrus.Fields{"round": t.roundNumber, "dealer": next.ID}).Info("dealer rotated")
	t.emitEvent(events.DealerRotated{
		TableID:          t.ID,
		RoundNumber:      t.roundNumber,
		PreviousDealerID: previous.ID,
		NextDealerID:     next.ID,
		At:               time.Now(),
	})
}
