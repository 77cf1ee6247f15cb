package domain

import (
	"math/rand"
	"testing"

	"github.com/lazharichir/blackjack/cards"
	"github.com/lazharichir/blackjack/domain/events"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// newTestTable seats one player per name, id "id-<name>", in order
func newTestTable(t *testing.T, rules TableRules, names ...string) *Table {
	t.Helper()
	logger, _ := test.NewNullLogger()
	tbl := NewTableWithRand("test table", rules, logger, rand.New(rand.NewSource(42)))
	for _, name := range names {
		_, err := tbl.AddSeat("id-"+name, name)
		require.NoError(t, err)
	}
	return tbl
}

// stackDeal arranges the shoe so that the next round deals hands[i] to seat i, followed
// by the extra cards in order.
func stackDeal(tbl *Table, hands [][]string, extra ...string) {
	top := make([]cards.Card, 0, 2*len(hands)+len(extra))
	for round := 0; round < 2; round++ {
		for _, hand := range hands {
			top = append(top, cards.MustCards(hand[round])...)
		}
	}
	top = append(top, cards.MustCards(extra...)...)
	tbl.shoe.PlaceOnTop(top...)
}

// recordEvents captures every event the table emits
func recordEvents(tbl *Table) *[]events.Event {
	recorded := &[]events.Event{}
	tbl.RegisterEventHandler(func(e events.Event) {
		*recorded = append(*recorded, e)
	})
	return recorded
}

func countEvents[T events.Event](recorded []events.Event) int {
	n := 0
	for _, e := range recorded {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}
