package domain

import "github.com/lazharichir/blackjack/cards"

// TableView is the snapshot broadcast to every connection at a table after each action
type TableView struct {
	TableID            string     `json:"tableID"`
	Name               string     `json:"name"`
	Players            []SeatView `json:"players"`
	DealerIndex        int        `json:"dealerIndex"`
	CurrentPlayerIndex int        `json:"currentPlayerIndex"`
	RoundNumber        int        `json:"roundNumber"`
	ShowDealerHoleCard bool       `json:"showDealerHoleCard"`
	Phase              Phase      `json:"phase"`
	DealerMayAct       bool       `json:"dealerMayAct"`
	Settled            bool       `json:"settled"`
	MaxPlayers         int        `json:"maxPlayers"`
	ShoeRemaining      int        `json:"shoeRemaining"`
}

type SeatView struct {
	PlayerID      string          `json:"playerID"`
	Name          string          `json:"name"`
	IsDealer      bool            `json:"isDealer"`
	Hand          cards.HeldStack `json:"hand"`
	HandValue     int             `json:"handValue"`
	IsSoft        bool            `json:"isSoft"`
	Coins         int             `json:"coins"`
	Bet           int             `json:"bet"`
	SideBetPair   int             `json:"sideBetPair"`
	SideBetBust   int             `json:"sideBetBust"`
	IsBusted      bool            `json:"isBusted"`
	IsStanding    bool            `json:"isStanding"`
	IsCurrentTurn bool            `json:"isCurrentTurn"`
}

// BuildView projects the table into its public snapshot. Every card is included; the
// dealer's second card is flagged face down until the dealer's draws are finished.
func (t *Table) BuildView() TableView {
	view := TableView{
		TableID:            t.ID,
		Name:               t.Name,
		Players:            make([]SeatView, len(t.seats)),
		DealerIndex:        t.dealerIndex,
		CurrentPlayerIndex: t.currentTurnIndex,
		RoundNumber:        t.roundNumber,
		ShowDealerHoleCard: t.dealerDone,
		Phase:              t.phase,
		DealerMayAct:       t.dealerMayAct,
		Settled:            t.settled,
		MaxPlayers:         t.Rules.MaxPlayers,
		ShoeRemaining:      t.shoe.Remaining(),
	}

	for i, seat := range t.seats {
		hand := cards.NewFaceUpStack(seat.Hand)
		if seat.IsDealer && !t.dealerDone && len(hand) > 1 {
			hand[1].Hide()
		}

		view.Players[i] = SeatView{
			PlayerID:      seat.ID,
			Name:          seat.Name,
			IsDealer:      seat.IsDealer,
			Hand:          hand,
			HandValue:     seat.HandValue(),
			IsSoft:        seat.Hand.IsSoft(),
			Coins:         seat.Coins,
			Bet:           seat.Bet,
			SideBetPair:   seat.SideBetPair,
			SideBetBust:   seat.SideBetBust,
			IsBusted:      seat.IsBusted,
			IsStanding:    seat.IsStanding,
			IsCurrentTurn: i == t.currentTurnIndex && t.roundInProgress(),
		}
	}

	return view
}
