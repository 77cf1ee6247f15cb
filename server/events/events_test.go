package events

import (
	"encoding/json"
	"testing"

	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/domain/events"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	toClient map[string][][]byte
	toTable  map[string][][]byte
}

func newRecordingSender() *recordingSender {
	return &recordingSender{
		toClient: map[string][][]byte{},
		toTable:  map[string][][]byte{},
	}
}

func (s *recordingSender) SendToClient(clientID string, message []byte) bool {
	s.toClient[clientID] = append(s.toClient[clientID], message)
	return true
}

func (s *recordingSender) SendToTable(tableID string, message []byte) int {
	s.toTable[tableID] = append(s.toTable[tableID], message)
	return 1
}

func decode(t *testing.T, data []byte, payload interface{}) string {
	t.Helper()
	var env EventEnvelope
	require.NoError(t, json.Unmarshal(data, &env))
	require.NoError(t, json.Unmarshal(env.Payload, payload))
	return env.Name
}

func newDispatcher() (*Dispatcher, *recordingSender) {
	logger, _ := test.NewNullLogger()
	sender := newRecordingSender()
	return NewDispatcher(sender, logger), sender
}

func TestHandleEventGoesToTheTable(t *testing.T) {
	d, sender := newDispatcher()

	d.HandleEvent(events.PlayerBusted{TableID: "t1", SeatID: "s1", HandValue: 24})

	require.Len(t, sender.toTable["t1"], 1)
	var busted events.PlayerBusted
	assert.Equal(t, "PLAYER_BUSTED", decode(t, sender.toTable["t1"][0], &busted))
	assert.Equal(t, 24, busted.HandValue)
}

func TestBroadcastState(t *testing.T) {
	d, sender := newDispatcher()
	tbl := domain.NewTable("Main", domain.DefaultTableRules(), nil)
	_, err := tbl.AddSeat("s1", "Ann")
	require.NoError(t, err)
	require.NoError(t, tbl.StartNewRound())

	d.BroadcastState(tbl.BuildView())

	require.Len(t, sender.toTable[tbl.ID], 1)
	var state map[string]interface{}
	assert.Equal(t, GameState, decode(t, sender.toTable[tbl.ID][0], &state))
	for _, key := range []string{"players", "dealerIndex", "currentPlayerIndex", "roundNumber", "showDealerHoleCard"} {
		assert.Contains(t, state, key)
	}
	players := state["players"].([]interface{})
	require.Len(t, players, 1)
	for _, key := range []string{"playerID", "name", "isDealer", "hand", "handValue", "coins", "bet", "sideBetPair", "sideBetBust", "isBusted", "isStanding"} {
		assert.Contains(t, players[0], key)
	}
}

func TestJoinResultAndErrorGoToTheSender(t *testing.T) {
	d, sender := newDispatcher()

	d.SendJoinResult("c1", JoinResultPayload{Success: false, Message: "table is full"})
	d.SendError("c1", "not now")

	require.Len(t, sender.toClient["c1"], 2)

	var result map[string]interface{}
	assert.Equal(t, JoinResult, decode(t, sender.toClient["c1"][0], &result))
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "table is full", result["message"])

	var errPayload ErrorPayload
	assert.Equal(t, ErrorMessage, decode(t, sender.toClient["c1"][1], &errPayload))
	assert.Equal(t, "not now", errPayload.Msg)
	assert.Empty(t, sender.toTable)
}
