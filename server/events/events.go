package events

import (
	"encoding/json"

	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/domain/events"
	"github.com/lazharichir/blackjack/server/connection"
	"github.com/sirupsen/logrus"
)

// Names of the envelopes that are not domain events
const (
	GameState    = "game_state"
	JoinResult   = "join_result"
	ErrorMessage = "error_message"
)

// EventEnvelope wraps an event with its name for client consumption
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// JoinResultPayload answers a join request, to the joining connection only
type JoinResultPayload struct {
	Success     bool   `json:"success"`
	PlayerID    string `json:"playerID,omitempty"`
	Name        string `json:"name,omitempty"`
	TableID     string `json:"tableID,omitempty"`
	Reconnected bool   `json:"reconnected,omitempty"`
	Message     string `json:"message,omitempty"`
}

type ErrorPayload struct {
	Msg string `json:"msg"`
}

// Sender is the part of the connection manager the dispatcher writes through
type Sender interface {
	SendToClient(clientID string, message []byte) bool
	SendToTable(tableID string, message []byte) int
}

var _ Sender = (*connection.Manager)(nil)

// Dispatcher handles routing events to clients
type Dispatcher struct {
	connMgr Sender
	log     logrus.FieldLogger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(connMgr Sender, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		connMgr: connMgr,
		log:     log,
	}
}

// HandleEvent forwards a domain event to every connection at its table
func (d *Dispatcher) HandleEvent(event events.Event) {
	tableID := events.ExtractTableID(event)
	if tableID == "" {
		return
	}

	data, err := encode(event.Name(), event)
	if err != nil {
		d.log.WithError(err).WithField("event", event.Name()).Error("failed to encode event")
		return
	}
	d.connMgr.SendToTable(tableID, data)
}

// BroadcastState sends the table snapshot to every connection at the table
func (d *Dispatcher) BroadcastState(view domain.TableView) {
	data, err := encode(GameState, view)
	if err != nil {
		d.log.WithError(err).WithField("table", view.TableID).Error("failed to encode game state")
		return
	}
	sent := d.connMgr.SendToTable(view.TableID, data)
	d.log.WithFields(logrus.Fields{"table": view.TableID, "round": view.RoundNumber, "recipients": sent}).Debug("game state broadcast")
}

// SendJoinResult answers a join request
func (d *Dispatcher) SendJoinResult(clientID string, result JoinResultPayload) {
	d.sendTo(clientID, JoinResult, result)
}

// SendError reports a rejected request to its sender
func (d *Dispatcher) SendError(clientID string, msg string) {
	d.sendTo(clientID, ErrorMessage, ErrorPayload{Msg: msg})
}

func (d *Dispatcher) sendTo(clientID string, name string, payload interface{}) {
	data, err := encode(name, payload)
	if err != nil {
		d.log.WithError(err).WithField("envelope", name).Error("failed to encode envelope")
		return
	}
	d.connMgr.SendToClient(clientID, data)
}

func encode(name string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventEnvelope{Name: name, Payload: raw})
}
