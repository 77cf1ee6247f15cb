package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lazharichir/blackjack/domain/events"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	data    []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.sent = append(f.sent, published{channel: channel, data: message.([]byte)})
	cmd.SetVal(1)
	return cmd
}

func (f *fakePublisher) messages() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.sent...)
}

func TestRelayPublishesEvents(t *testing.T) {
	logger, _ := test.NewNullLogger()
	pub := &fakePublisher{}
	r := New(pub, "", logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	r.HandleEvent(events.PlayerStood{TableID: "table-1", SeatID: "seat-1", HandValue: 18, At: time.Now()})
	r.HandleEvent(events.RoundSettled{TableID: "table-1", RoundNumber: 3, DealerValue: 20})

	require.Eventually(t, func() bool { return len(pub.messages()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	sent := pub.messages()
	assert.Equal(t, DefaultChannel, sent[0].channel)

	var msg Message
	require.NoError(t, json.Unmarshal(sent[0].data, &msg))
	assert.Equal(t, "PLAYER_STOOD", msg.Name)
	assert.Equal(t, "table-1", msg.TableID)

	var stood events.PlayerStood
	require.NoError(t, json.Unmarshal(msg.Payload, &stood))
	assert.Equal(t, "seat-1", stood.SeatID)
	assert.Equal(t, 18, stood.HandValue)

	publishedCount, dropped := r.Stats()
	assert.Equal(t, int64(2), publishedCount)
	assert.Equal(t, int64(0), dropped)
}

func TestRelayCountsPublishFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	pub := &fakePublisher{err: errors.New("connection refused")}
	r := New(pub, "custom", logger)

	r.HandleEvent(events.PlayerStood{TableID: "table-1"})

	// drain synchronously: Run returns once the queue is empty and ctx is done
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Run(ctx)

	publishedCount, dropped := r.Stats()
	assert.Equal(t, int64(0), publishedCount)
	assert.Equal(t, int64(1), dropped)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "redis publish failed", hook.LastEntry().Message)
}

func TestRelayDropsWhenQueueIsFull(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := New(&fakePublisher{}, "", logger)

	for i := 0; i < queueSize+3; i++ {
		r.HandleEvent(events.PlayerStood{TableID: "table-1"})
	}

	_, dropped := r.Stats()
	assert.Equal(t, int64(3), dropped)
}

func TestRelayDoneAfterDraining(t *testing.T) {
	logger, _ := test.NewNullLogger()
	pub := &fakePublisher{}
	r := New(pub, "", logger)

	for i := 0; i < 50; i++ {
		r.HandleEvent(events.PlayerStood{TableID: "table-1", HandValue: i})
	}

	select {
	case <-r.Done():
		t.Fatal("done before Run started")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	go r.Run(ctx)

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not finish draining")
	}

	assert.Len(t, pub.messages(), 50)
	publishedCount, dropped := r.Stats()
	assert.Equal(t, int64(50), publishedCount)
	assert.Equal(t, int64(0), dropped)
}
