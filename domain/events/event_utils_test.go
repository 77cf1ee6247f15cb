package events_test

import (
	"testing"

	"github.com/lazharichir/blackjack/domain/events"
	"github.com/stretchr/testify/assert"
)

type noTableID struct {
	OtherField string
}

func (noTableID) Name() string { return "noTableID" }

func TestExtractTableID(t *testing.T) {
	t.Run("struct with TableID field", func(t *testing.T) {
		e := events.PlayerStood{TableID: "table123"}
		id := events.ExtractTableID(e)
		assert.Equal(t, "table123", id)
	})

	t.Run("pointer to struct with TableID field", func(t *testing.T) {
		e := &events.PlayerStood{TableID: "tablePointer"}
		id := events.ExtractTableID(e)
		assert.Equal(t, "tablePointer", id)
	})

	t.Run("struct without TableID field", func(t *testing.T) {
		e := noTableID{OtherField: "noID"}
		id := events.ExtractTableID(e)
		assert.Equal(t, "", id)
	})

	t.Run("pointer to struct without TableID field", func(t *testing.T) {
		e := &noTableID{OtherField: "stillNoID"}
		id := events.ExtractTableID(e)
		assert.Equal(t, "", id)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var e *events.RoundSettled
		assert.Equal(t, "", events.ExtractTableID(e))
	})
}
