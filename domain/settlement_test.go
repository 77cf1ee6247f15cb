package domain

import (
	"testing"

	"github.com/lazharichir/blackjack/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settleWith builds a table whose first seat is the dealer holding dealerHand, runs
// settlement once and returns the result.
func settleWith(t *testing.T, dealerHand []string, players ...*Seat) (*Table, Settlement) {
	t.Helper()
	tbl := newTestTable(t, DefaultTableRules(), "Dan")
	dealer := tbl.Seats()[0]
	dealer.IsDealer = true
	dealer.Hand = cards.MustCards(dealerHand...)
	tbl.seats = append(tbl.seats, players...)
	tbl.roundNumber = 1
	tbl.settled = false

	return tbl, tbl.settleBets()
}

func player(id string, bet int, hand ...string) *Seat {
	seat := NewSeat(id, id, 100-bet)
	seat.Bet = bet
	seat.Hand = cards.MustCards(hand...)
	return seat
}

func TestSettlementScenario(t *testing.T) {
	a := player("a", 10, "10h", "5c", "3d")
	b := player("b", 10, "Ah", "Ks")

	tbl, settlement := settleWith(t, []string{"Kh", "Qd"}, a, b)
	dealer := tbl.Seats()[0]

	assert.Equal(t, 20, settlement.DealerValue)
	assert.False(t, settlement.DealerBust)

	// A loses the bet, already taken at bet time
	assert.Equal(t, 90, a.Coins)
	// B wins 2x plus the natural bonus
	assert.Equal(t, 90+25, b.Coins)
	// +10 from A, -15 to B
	assert.Equal(t, 100+10-15, dealer.Coins)
	assert.Equal(t, -5, settlement.DealerDelta)

	require.Len(t, settlement.Payouts, 2)
	assert.Equal(t, OutcomeLose, settlement.Payouts[0].Outcome)
	assert.Equal(t, 10, settlement.Payouts[0].DealerDelta)
	assert.Equal(t, OutcomeWin, settlement.Payouts[1].Outcome)
	assert.Equal(t, 20, settlement.Payouts[1].Main)
	assert.Equal(t, 5, settlement.Payouts[1].Bonus)
	assert.Equal(t, -15, settlement.Payouts[1].DealerDelta)
}

func TestSettlementMainBet(t *testing.T) {
	tests := []struct {
		name        string
		dealerHand  []string
		playerHand  []string
		busted      bool
		bet         int
		outcome     Outcome
		wantPlayer  int
		wantDealer  int
		wantPayouts int
	}{
		{"player higher", []string{"10h", "7d"}, []string{"10c", "9s"}, false, 10, OutcomeWin, 110, 90, 1},
		{"player lower", []string{"10h", "9d"}, []string{"10c", "7s"}, false, 10, OutcomeLose, 90, 110, 1},
		{"push returns the stake", []string{"10h", "8d"}, []string{"10c", "8s"}, false, 10, OutcomePush, 100, 100, 1},
		{"dealer bust pays", []string{"10h", "6d", "9c"}, []string{"10c", "2s"}, false, 10, OutcomeWin, 110, 90, 1},
		{"player bust loses to dealer bust", []string{"10h", "6d", "9c"}, []string{"10c", "5s", "Ks"}, true, 10, OutcomeBust, 90, 110, 1},
		{"busted flag loses with a low hand", []string{"10h", "8d"}, []string{"10c", "9s"}, true, 4, OutcomeBust, 96, 104, 1},
		{"natural pushes with bonus", []string{"Ah", "Kd"}, []string{"As", "Qc"}, false, 10, OutcomePush, 90 + 10 + 5, 95, 1},
		{"odd bet bonus truncates", []string{"10h", "7d"}, []string{"As", "Qc"}, false, 5, OutcomeWin, 95 + 10 + 2, 100 - 5 - 2, 1},
		{"no bet no settlement", []string{"10h", "7d"}, []string{"10c", "9s"}, false, 0, "", 100, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seat := player("p", tt.bet, tt.playerHand...)
			seat.IsBusted = tt.busted

			tbl, settlement := settleWith(t, tt.dealerHand, seat)

			assert.Equal(t, tt.wantPlayer, seat.Coins)
			assert.Equal(t, tt.wantDealer, tbl.Seats()[0].Coins)
			require.Len(t, settlement.Payouts, tt.wantPayouts)
			if tt.wantPayouts > 0 {
				assert.Equal(t, tt.outcome, settlement.Payouts[0].Outcome)
			}
		})
	}
}

func TestSettlementPairSideBet(t *testing.T) {
	t.Run("pair in the first two cards", func(t *testing.T) {
		seat := player("p", 1, "8h", "8d", "5c")
		seat.SideBetPair = 4
		seat.Coins -= 4

		tbl, settlement := settleWith(t, []string{"10h", "Qd"}, seat)

		require.Len(t, settlement.Payouts, 1)
		assert.Equal(t, 44, settlement.Payouts[0].Pair)
		// main 21 beats 20: +2 for the player, -1 for the dealer
		assert.Equal(t, 95+2+44, seat.Coins)
		assert.Equal(t, 100-1-40, tbl.Seats()[0].Coins)
	})

	t.Run("later pair does not count", func(t *testing.T) {
		seat := player("p", 1, "8h", "3d", "8c")
		seat.SideBetPair = 4
		seat.Coins -= 4

		tbl, settlement := settleWith(t, []string{"10h", "Qd"}, seat)

		assert.Equal(t, 0, settlement.Payouts[0].Pair)
		// the losing stake stays forfeited, nothing moves to the dealer for it
		assert.Equal(t, 95, seat.Coins)
		assert.Equal(t, 101, tbl.Seats()[0].Coins)
	})
}

func TestSettlementBustSideBet(t *testing.T) {
	tests := []struct {
		name       string
		dealerHand []string
		wantBust   int
		wantPlayer int
		wantDealer int
	}{
		{"dealer busts with five cards", []string{"2h", "3d", "4c", "5s", "Kh"}, 15, 96 + 2 + 15, 100 - 1 - 12},
		{"dealer busts with four cards", []string{"2h", "4d", "6c", "Kh"}, 6, 96 + 2 + 6, 100 - 1 - 3},
		{"dealer stands", []string{"10h", "8d"}, 0, 96, 100 + 1 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seat := player("p", 1, "10c", "2s")
			seat.SideBetBust = 3
			seat.Coins -= 3

			tbl, settlement := settleWith(t, tt.dealerHand, seat)

			assert.Equal(t, tt.wantBust, settlement.Payouts[0].Bust)
			assert.Equal(t, tt.wantPlayer, seat.Coins)
			assert.Equal(t, tt.wantDealer, tbl.Seats()[0].Coins)
		})
	}
}

func TestSettlementSkipsSideBetsWithoutMainBet(t *testing.T) {
	seat := player("p", 0, "8h", "8d")
	seat.SideBetPair = 5
	seat.SideBetBust = 5
	seat.Coins -= 10

	tbl, settlement := settleWith(t, []string{"10h", "6d", "Kc"}, seat)

	assert.Empty(t, settlement.Payouts)
	assert.Equal(t, 90, seat.Coins)
	assert.Equal(t, 100, tbl.Seats()[0].Coins)
}
