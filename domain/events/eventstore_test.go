package events

import (
	"testing"

	"github.com/lazharichir/blackjack/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventStore(t *testing.T) {
	store := NewInMemoryEventStore(0)

	tableID := "table-123"
	seatID := "seat-456"

	t.Run("Append and load events", func(t *testing.T) {
		require.NoError(t, store.Append(RoundStarted{TableID: tableID, RoundNumber: 1, DealerID: seatID}))
		require.NoError(t, store.Append(BetPlaced{TableID: tableID, SeatID: seatID, Bet: 10}))
		require.NoError(t, store.Append(CardDealt{TableID: tableID, SeatID: seatID, Card: cards.NewCard(cards.Spades, cards.Ace)}))

		events, err := store.LoadEvents(tableID)
		require.NoError(t, err)
		require.Len(t, events, 3)

		assert.Equal(t, "ROUND_STARTED", events[0].Name())
		assert.Equal(t, "BET_PLACED", events[1].Name())
		assert.Equal(t, "CARD_DEALT", events[2].Name())
	})

	t.Run("Load events for non-existent table", func(t *testing.T) {
		events, err := store.LoadEvents("non-existent-table")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("Reject events without a table", func(t *testing.T) {
		err := store.Append(CardDealt{SeatID: seatID})
		assert.ErrorIs(t, err, ErrNoTableID)
	})

	t.Run("Loaded slice is a copy", func(t *testing.T) {
		events, err := store.LoadEvents(tableID)
		require.NoError(t, err)
		events[0] = nil

		again, err := store.LoadEvents(tableID)
		require.NoError(t, err)
		assert.NotNil(t, again[0])
	})
}

func TestInMemoryEventStoreLimit(t *testing.T) {
	store := NewInMemoryEventStore(2)

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Append(RoundStarted{TableID: "t", RoundNumber: i}))
	}

	events, err := store.LoadEvents("t")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0].(RoundStarted).RoundNumber)
	assert.Equal(t, 3, events[1].(RoundStarted).RoundNumber)
}
