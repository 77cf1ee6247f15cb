package domain

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/blackjack/cards"
	"github.com/lazharichir/blackjack/domain/events"
	"github.com/sirupsen/logrus"
)

// DealerRotationInterval is the number of rounds a dealer keeps the seat
const DealerRotationInterval = 6

// TableRules defines the fixed parameters of a blackjack table
type TableRules struct {
	MaxPlayers    int
	NumDecks      int
	StartingCoins int
	// StrictTurns rejects player decisions from anyone but the seat whose turn it is,
	// and any player decision while the dealer is drawing.
	StrictTurns bool
}

// DefaultTableRules returns the house defaults: 6 seats, a 4-deck shoe and 100 coins per seat
func DefaultTableRules() TableRules {
	return TableRules{
		MaxPlayers:    6,
		NumDecks:      4,
		StartingCoins: 100,
	}
}

// Validate checks that a table can be built from these rules
func (r TableRules) Validate() error {
	if r.MaxPlayers < 1 || r.NumDecks < 1 || r.StartingCoins < 0 {
		return ErrInvalidRules
	}
	return nil
}

type Phase string

const (
	PhaseBetting     Phase = "BETTING"
	PhasePlayerTurns Phase = "PLAYER_TURNS"
	PhaseDealerTurn  Phase = "DEALER_TURN"
)

// Table is the round engine of one blackjack table. It is not safe for concurrent use;
// callers serialise access through a table.GameLoop.
type Table struct {
	ID    string
	Name  string
	Rules TableRules

	seats            []*Seat
	shoe             *cards.Shoe
	dealerIndex      int
	currentTurnIndex int
	roundNumber      int
	roundID          string
	phase            Phase
	dealerDone       bool
	dealerMayAct     bool
	settled          bool

	log           logrus.FieldLogger
	eventHandlers []events.EventHandler
}

// NewTable creates an empty table with a freshly built shoe. A nil logger falls back to
// the logrus standard logger.
func NewTable(name string, rules TableRules, log logrus.FieldLogger) *Table {
	return NewTableWithRand(name, rules, log, nil)
}

// NewTableWithRand is NewTable with the shoe driven by rng, for reproducible deals
func NewTableWithRand(name string, rules TableRules, log logrus.FieldLogger, rng *rand.Rand) *Table {
	return NewTableWithShoe(name, rules, log, cards.NewShoe(rules.NumDecks, rng))
}

// NewTableWithShoe is NewTable dealing from the given shoe
func NewTableWithShoe(name string, rules TableRules, log logrus.FieldLogger, shoe *cards.Shoe) *Table {
	if log == nil {
		log = logrus.StandardLogger()
	}
	id := uuid.NewString()
	return &Table{
		ID:            id,
		Name:          name,
		Rules:         rules,
		seats:         []*Seat{},
		shoe:          shoe,
		phase:         PhaseBetting,
		settled:       true,
		log:           log.WithFields(logrus.Fields{"table": id, "table_name": name}),
		eventHandlers: []events.EventHandler{},
	}
}

// AddSeat seats a new player with the table's starting coins
func (t *Table) AddSeat(id string, name string) (*Seat, error) {
	if t.FindSeatByID(id) != nil {
		return nil, ErrAlreadySeated
	}
	if len(t.seats) >= t.Rules.MaxPlayers {
		return nil, ErrTableFull
	}

	seat := NewSeat(id, name, t.Rules.StartingCoins)
	t.seats = append(t.seats, seat)

	t.log.WithFields(logrus.Fields{"seat": id, "name": name}).Info("player seated")
	t.emitEvent(events.PlayerJoinedTable{
		TableID:    t.ID,
		SeatID:     id,
		PlayerName: name,
		Coins:      seat.Coins,
		At:         time.Now(),
	})

	return seat, nil
}

// Rebind hands the first seat with the given name over to a new connection id.
// Everything else about the seat is preserved. Reports false when no seat has that name.
func (t *Table) Rebind(name string, newID string) (*Seat, bool) {
	seat := t.FindSeatByName(name)
	if seat == nil {
		return nil, false
	}

	previous := seat.ID
	seat.ID = newID

	t.log.WithFields(logrus.Fields{"seat": newID, "previous": previous, "name": name}).Info("player reconnected")
	t.emitEvent(events.PlayerReconnected{
		TableID:    t.ID,
		PreviousID: previous,
		SeatID:     newID,
		PlayerName: name,
		At:         time.Now(),
	})

	return seat, true
}

// Join rebinds the seat already holding this name, or seats a new player.
func (t *Table) Join(id string, name string) (seat *Seat, reconnected bool, err error) {
	if seat, ok := t.Rebind(name, id); ok {
		return seat, true, nil
	}
	seat, err = t.AddSeat(id, name)
	return seat, false, err
}

// StartNewRound settles a round that was left unsettled, then resets every seat, picks
// the dealer, rebuilds a short shoe and deals two cards to each seat.
func (t *Table) StartNewRound() error {
	if len(t.seats) == 0 {
		return ErrNoSeats
	}

	if !t.settled {
		t.finishRound(true)
	}

	t.roundNumber++
	t.roundID = uuid.NewString()
	t.dealerDone = false
	t.dealerMayAct = false

	for _, seat := range t.seats {
		seat.ResetForNewRound()
		seat.IsDealer = false
	}

	if t.dealerIndex < 0 || t.dealerIndex >= len(t.seats) {
		t.dealerIndex = 0
	}
	dealer := t.seats[t.dealerIndex]
	dealer.IsDealer = true

	if t.shoe.Remaining() < cards.ReshuffleThreshold {
		t.shoe.Build()
		t.emitEvent(events.ShoeRebuilt{
			TableID: t.ID,
			Decks:   t.shoe.Decks(),
			Cards:   t.shoe.Remaining(),
			At:      time.Now(),
		})
	}

	seatIDs := make([]string, len(t.seats))
	for i, seat := range t.seats {
		seatIDs[i] = seat.ID
	}

	t.log.WithFields(logrus.Fields{"round": t.roundNumber, "dealer": dealer.ID}).Info("round started")
	t.emitEvent(events.RoundStarted{
		TableID:     t.ID,
		RoundID:     t.roundID,
		RoundNumber: t.roundNumber,
		DealerID:    dealer.ID,
		SeatIDs:     seatIDs,
		At:          time.Now(),
	})

	for i := 0; i < 2; i++ {
		for _, seat := range t.seats {
			t.dealTo(seat)
		}
	}

	t.currentTurnIndex = (t.dealerIndex + 1) % len(t.seats)
	t.settled = false
	t.setPhase(PhaseBetting)

	t.emitEvent(events.TurnStarted{
		TableID:     t.ID,
		RoundNumber: t.roundNumber,
		SeatID:      t.seats[t.currentTurnIndex].ID,
		SeatIndex:   t.currentTurnIndex,
		At:          time.Now(),
	})

	return nil
}

// PlaceBet moves coins into the main bet and the two side bets. Each amount is taken
// independently, in main, bust, pair order, and only when the coins left at that point
// cover it. Nothing happens outside the betting phase, for the dealer, or for an
// unknown seat. Reports whether any coins were wagered.
func (t *Table) PlaceBet(seatID string, bet int, pair int, bust int) bool {
	if !t.BettingOpen() {
		t.log.WithField("seat", seatID).Debug("bet ignored: betting closed")
		return false
	}

	seat := t.FindSeatByID(seatID)
	if seat == nil || seat.IsDealer {
		return false
	}

	taken := seat.wager(bet, &seat.Bet)
	taken = seat.wager(bust, &seat.SideBetBust) || taken
	taken = seat.wager(pair, &seat.SideBetPair) || taken
	if !taken {
		return false
	}

	t.log.WithFields(logrus.Fields{"seat": seatID, "bet": seat.Bet, "pair": seat.SideBetPair, "bust": seat.SideBetBust}).Debug("bet placed")
	t.emitEvent(events.BetPlaced{
		TableID:     t.ID,
		SeatID:      seatID,
		Bet:         seat.Bet,
		SideBetPair: seat.SideBetPair,
		SideBetBust: seat.SideBetBust,
		CoinsLeft:   seat.Coins,
		At:          time.Now(),
	})

	return true
}

// BettingOpen reports whether wagers are currently accepted
func (t *Table) BettingOpen() bool {
	return t.phase == PhaseBetting && t.roundNumber > 0 && !t.settled
}

func (t *Table) dealTo(seat *Seat) cards.Card {
	card := t.shoe.Deal()
	seat.AddCard(card)
	t.emitEvent(events.CardDealt{
		TableID:  t.ID,
		SeatID:   seat.ID,
		Card:     card,
		HandSize: len(seat.Hand),
		At:       time.Now(),
	})
	return card
}

func (t *Table) setPhase(phase Phase) {
	if t.phase == phase {
		return
	}
	previous := t.phase
	t.phase = phase
	t.emitEvent(events.PhaseChanged{
		TableID:       t.ID,
		RoundNumber:   t.roundNumber,
		PreviousPhase: string(previous),
		NewPhase:      string(phase),
		At:            time.Now(),
	})
}

// Seats returns the seats in join order
func (t *Table) Seats() []*Seat {
	return t.seats
}

// FindSeatByID returns the seat currently bound to the connection id, or nil
func (t *Table) FindSeatByID(id string) *Seat {
	for _, seat := range t.seats {
		if seat.ID == id {
			return seat
		}
	}
	return nil
}

// FindSeatByName returns the first seat with the given name, or nil
func (t *Table) FindSeatByName(name string) *Seat {
	for _, seat := range t.seats {
		if seat.Name == name {
			return seat
		}
	}
	return nil
}

// Dealer returns the seat at the dealer index, or nil when the table is empty
func (t *Table) Dealer() *Seat {
	if len(t.seats) == 0 {
		return nil
	}
	if t.dealerIndex < 0 || t.dealerIndex >= len(t.seats) {
		return t.seats[0]
	}
	return t.seats[t.dealerIndex]
}

// CurrentSeat returns the seat whose turn it is, or nil when the table is empty
func (t *Table) CurrentSeat() *Seat {
	if t.currentTurnIndex < 0 || t.currentTurnIndex >= len(t.seats) {
		return nil
	}
	return t.seats[t.currentTurnIndex]
}

func (t *Table) DealerIndex() int      { return t.dealerIndex }
func (t *Table) CurrentTurnIndex() int { return t.currentTurnIndex }
func (t *Table) RoundNumber() int      { return t.roundNumber }
func (t *Table) RoundID() string       { return t.roundID }
func (t *Table) Phase() Phase          { return t.phase }
func (t *Table) DealerDone() bool      { return t.dealerDone }
func (t *Table) DealerMayAct() bool    { return t.dealerMayAct }
func (t *Table) Settled() bool         { return t.settled }
func (t *Table) IsFull() bool          { return len(t.seats) >= t.Rules.MaxPlayers }

// ShoeRemaining returns how many cards are left in the shoe
func (t *Table) ShoeRemaining() int {
	return t.shoe.Remaining()
}

// RegisterEventHandler registers a callback function that will be called when events occur
func (t *Table) RegisterEventHandler(handler events.EventHandler) {
	t.eventHandlers = append(t.eventHandlers, handler)
}

// emitEvent notifies all registered handlers of a new event
func (t *Table) emitEvent(event events.Event) {
	for _, handler := range t.eventHandlers {
		handler(event)
	}
}
