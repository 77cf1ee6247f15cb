package events

import (
	"time"

	"github.com/lazharichir/blackjack/cards"
)

type EventHandler func(event Event)

type Event interface {
	Name() string
}

// Seating events
type PlayerJoinedTable struct {
	TableID    string
	SeatID     string
	PlayerName string
	Coins      int
	At         time.Time
}

func (e PlayerJoinedTable) Name() string { return "PLAYER_JOINED_TABLE" }

type PlayerReconnected struct {
	TableID    string
	PreviousID string
	SeatID     string
	PlayerName string
	At         time.Time
}

func (e PlayerReconnected) Name() string { return "PLAYER_RECONNECTED" }

// Round structure events
type RoundStarted struct {
	TableID     string
	RoundID     string
	RoundNumber int
	DealerID    string
	SeatIDs     []string
	At          time.Time
}

func (e RoundStarted) Name() string { return "ROUND_STARTED" }

type ShoeRebuilt struct {
	TableID string
	Decks   int
	Cards   int
	At      time.Time
}

func (e ShoeRebuilt) Name() string { return "SHOE_REBUILT" }

type PhaseChanged struct {
	TableID       string
	RoundNumber   int
	PreviousPhase string
	NewPhase      string
	At            time.Time
}

func (e PhaseChanged) Name() string { return "PHASE_CHANGED" }

type TurnStarted struct {
	TableID     string
	RoundNumber int
	SeatID      string
	SeatIndex   int
	At          time.Time
}

func (e TurnStarted) Name() string { return "TURN_STARTED" }

// Wager events
type BetPlaced struct {
	TableID     string
	SeatID      string
	Bet         int
	SideBetPair int
	SideBetBust int
	CoinsLeft   int
	At          time.Time
}

func (e BetPlaced) Name() string { return "BET_PLACED" }

// Card and player action events
type CardDealt struct {
	TableID  string
	SeatID   string
	Card     cards.Card
	HandSize int
	At       time.Time
}

func (e CardDealt) Name() string { return "CARD_DEALT" }

type PlayerBusted struct {
	TableID   string
	SeatID    string
	HandValue int
	At        time.Time
}

func (e PlayerBusted) Name() string { return "PLAYER_BUSTED" }

type PlayerStood struct {
	TableID   string
	SeatID    string
	HandValue int
	At        time.Time
}

func (e PlayerStood) Name() string { return "PLAYER_STOOD" }

type PlayerDoubled struct {
	TableID string
	SeatID  string
	Bet     int
	At      time.Time
}

func (e PlayerDoubled) Name() string { return "PLAYER_DOUBLED" }

type PlayerSurrendered struct {
	TableID  string
	SeatID   string
	Refunded int
	Forfeit  int
	At       time.Time
}

func (e PlayerSurrendered) Name() string { return "PLAYER_SURRENDERED" }

// Dealer events
type DealerTurnStarted struct {
	TableID     string
	RoundNumber int
	DealerID    string
	At          time.Time
}

func (e DealerTurnStarted) Name() string { return "DEALER_TURN_STARTED" }

type DealerAwaitingDecision struct {
	TableID   string
	DealerID  string
	HandValue int
	At        time.Time
}

func (e DealerAwaitingDecision) Name() string { return "DEALER_AWAITING_DECISION" }

type DealerRotated struct {
	TableID          string
	RoundNumber      int
	PreviousDealerID string
	NextDealerID     string
	At               time.Time
}

func (e DealerRotated) Name() string { return "DEALER_ROTATED" }

// Settlement events
type SeatSettled struct {
	TableID     string
	RoundNumber int
	SeatID      string
	Outcome     string
	MainDelta   int
	PairDelta   int
	BustDelta   int
	BonusDelta  int
	DealerDelta int
	At          time.Time
}

func (e SeatSettled) Name() string { return "SEAT_SETTLED" }

type RoundSettled struct {
	TableID     string
	RoundNumber int
	DealerID    string
	DealerValue int
	DealerBust  bool
	DealerDelta int
	AutoSettled bool
	At          time.Time
}

func (e RoundSettled) Name() string { return "ROUND_SETTLED" }
