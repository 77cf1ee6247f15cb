package commands

// Command is an inbound table action. Name is the value of the "name" field on the wire.
type Command interface {
	Name() string
}

// Join seats the connection at a table, or rebinds the seat already holding PlayerName.
// An empty TableID means the lobby's default table.
type Join struct {
	TableID    string `json:"tableID,omitempty"`
	PlayerName string `json:"playerName"`
}

func (c Join) Name() string { return "join" }

type StartGame struct{}

func (c StartGame) Name() string { return "start_game" }

type PlaceBet struct {
	Bet         int `json:"bet"`
	SideBetPair int `json:"sideBetPair"`
	SideBetBust int `json:"sideBetBust"`
}

func (c PlaceBet) Name() string { return "place_bet" }

type Hit struct{}

func (c Hit) Name() string { return "hit" }

type Stand struct{}

func (c Stand) Name() string { return "stand" }

type Double struct{}

func (c Double) Name() string { return "double" }

type Surrender struct{}

func (c Surrender) Name() string { return "surrender" }

type NextTurn struct{}

func (c NextTurn) Name() string { return "next_turn" }
