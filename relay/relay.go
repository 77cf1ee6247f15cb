package relay

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lazharichir/blackjack/domain/events"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	DefaultChannel = "blackjack:events"
	publishTimeout = 2 * time.Second
	queueSize      = 1024
)

// Publisher is the part of a redis client the relay needs
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Message is what gets published for every table event
type Message struct {
	Name    string          `json:"name"`
	TableID string          `json:"tableID"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

// Relay mirrors table events onto a redis pub/sub channel. Events are queued by
// HandleEvent and published from a separate goroutine, so table actions never wait
// on redis. Events arriving while the queue is full are dropped.
type Relay struct {
	pub     Publisher
	channel string
	queue   chan Message
	log     logrus.FieldLogger

	published atomic.Int64
	dropped   atomic.Int64

	done     chan struct{}
	doneOnce sync.Once
}

func New(pub Publisher, channel string, log logrus.FieldLogger) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Relay{
		pub:     pub,
		channel: channel,
		queue:   make(chan Message, queueSize),
		log:     log.WithField("channel", channel),
		done:    make(chan struct{}),
	}
}

// Dial connects to redis at addr and checks the connection with a ping
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// HandleEvent queues the event for publishing. It never blocks.
func (r *Relay) HandleEvent(event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.log.WithError(err).WithField("event", event.Name()).Warn("failed to marshal event")
		r.dropped.Add(1)
		return
	}

	msg := Message{
		Name:    event.Name(),
		TableID: events.ExtractTableID(event),
		At:      time.Now().UTC(),
		Payload: payload,
	}

	select {
	case r.queue <- msg:
	default:
		r.log.WithField("event", msg.Name).Warn("relay queue full, dropping event")
		r.dropped.Add(1)
	}
}

// Run publishes queued events until ctx is done, then drains what is left
func (r *Relay) Run(ctx context.Context) {
	defer r.doneOnce.Do(func() { close(r.done) })
	for {
		select {
		case msg := <-r.queue:
			r.publish(msg)
		case <-ctx.Done():
			for {
				select {
				case msg := <-r.queue:
					r.publish(msg)
				default:
					return
				}
			}
		}
	}
}

// Done is closed once Run has drained the queue and returned
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

func (r *Relay) publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.WithError(err).Warn("failed to marshal relay message")
		r.dropped.Add(1)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.pub.Publish(ctx, r.channel, data).Err(); err != nil {
		r.log.WithError(err).WithField("event", msg.Name).Warn("redis publish failed")
		r.dropped.Add(1)
		return
	}
	r.published.Add(1)
}

// Stats returns how many events were published and dropped so far
func (r *Relay) Stats() (published int64, dropped int64) {
	return r.published.Load(), r.dropped.Load()
}
