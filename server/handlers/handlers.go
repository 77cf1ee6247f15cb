package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/domain/commands"
	"github.com/lazharichir/blackjack/server/connection"
	"github.com/lazharichir/blackjack/server/events"
	"github.com/lazharichir/blackjack/table"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNotSeated      = errors.New("connection has not joined a table")
)

const commandTimeout = 5 * time.Second

// CommandRouter routes incoming commands to the table loop of the sending connection
type CommandRouter struct {
	lobby      *domain.Lobby
	loops      *table.Loops
	connMgr    *connection.Manager
	dispatcher *events.Dispatcher
	log        logrus.FieldLogger
}

// NewCommandRouter creates a new command router
func NewCommandRouter(lobby *domain.Lobby, loops *table.Loops, connMgr *connection.Manager, dispatcher *events.Dispatcher, log logrus.FieldLogger) *CommandRouter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CommandRouter{
		lobby:      lobby,
		loops:      loops,
		connMgr:    connMgr,
		dispatcher: dispatcher,
		log:        log,
	}
}

// HandleCommand processes an incoming command message
func (r *CommandRouter) HandleCommand(ctx context.Context, client *connection.Client, message []byte) error {
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	log := r.log.WithFields(logrus.Fields{"conn": client.ID, "command": baseCmd.Name})
	log.Debug("command received")

	switch baseCmd.Name {
	case commands.Join{}.Name():
		var cmd commands.Join
		if err := json.Unmarshal(message, &cmd); err != nil {
			return fmt.Errorf("decode %s: %w", baseCmd.Name, err)
		}
		return r.handleJoin(ctx, client, cmd)

	case commands.StartGame{}.Name():
		return r.onTable(ctx, client, func(t *domain.Table) (bool, error) {
			if err := t.StartNewRound(); errors.Is(err, domain.ErrNoSeats) {
				log.Debug("start ignored: no seats")
				return false, nil
			} else if err != nil {
				return false, err
			}
			return true, nil
		})

	case commands.PlaceBet{}.Name():
		var cmd commands.PlaceBet
		if err := json.Unmarshal(message, &cmd); err != nil {
			return fmt.Errorf("decode %s: %w", baseCmd.Name, err)
		}
		return r.onTable(ctx, client, func(t *domain.Table) (bool, error) {
			if !t.BettingOpen() {
				r.dispatcher.SendError(client.ID, "Bets can only be placed during the betting phase")
				return false, nil
			}
			t.PlaceBet(client.ID, cmd.Bet, cmd.SideBetPair, cmd.SideBetBust)
			return true, nil
		})

	case commands.Hit{}.Name():
		return r.onTable(ctx, client, func(t *domain.Table) (bool, error) {
			t.Hit(client.ID)
			return true, nil
		})

	case commands.Stand{}.Name():
		return r.onTable(ctx, client, func(t *domain.Table) (bool, error) {
			t.Stand(client.ID)
			return true, nil
		})

	case commands.Double{}.Name():
		return r.onTable(ctx, client, func(t *domain.Table) (bool, error) {
			t.PlayerDouble(client.ID)
			return true, nil
		})

	case commands.Surrender{}.Name():
		return r.onTable(ctx, client, func(t *domain.Table) (bool, error) {
			seat := t.FindSeatByID(client.ID)
			if seat == nil || len(seat.Hand) != 2 {
				return false, nil
			}
			t.PlayerSurrender(client.ID)
			return true, nil
		})

	case commands.NextTurn{}.Name():
		return r.onTable(ctx, client, func(t *domain.Table) (bool, error) {
			t.AdvanceTurn()
			return true, nil
		})

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, baseCmd.Name)
	}
}

func (r *CommandRouter) handleJoin(ctx context.Context, client *connection.Client, cmd commands.Join) error {
	name := strings.TrimSpace(cmd.PlayerName)
	if name == "" {
		r.dispatcher.SendJoinResult(client.ID, events.JoinResultPayload{Success: false, Message: "player name is required"})
		return nil
	}

	tbl, err := r.resolveTable(cmd.TableID)
	if err != nil {
		r.dispatcher.SendJoinResult(client.ID, events.JoinResultPayload{Success: false, Message: err.Error()})
		return nil
	}

	var (
		seat        *domain.Seat
		reconnected bool
		view        domain.TableView
	)
	err = r.loops.For(tbl).Submit(ctx, func(t *domain.Table) error {
		var err error
		seat, reconnected, err = t.Join(client.ID, name)
		if err != nil {
			return err
		}
		view = t.BuildView()
		return nil
	})

	switch {
	case errors.Is(err, domain.ErrTableFull), errors.Is(err, domain.ErrAlreadySeated):
		r.dispatcher.SendJoinResult(client.ID, events.JoinResultPayload{Success: false, Message: err.Error()})
		return nil
	case err != nil:
		return fmt.Errorf("join table %s: %w", tbl.ID, err)
	}

	r.connMgr.JoinTable(client.ID, tbl.ID)
	r.dispatcher.SendJoinResult(client.ID, events.JoinResultPayload{
		Success:     true,
		PlayerID:    seat.ID,
		Name:        seat.Name,
		TableID:     tbl.ID,
		Reconnected: reconnected,
	})
	r.dispatcher.BroadcastState(view)
	return nil
}

func (r *CommandRouter) resolveTable(tableID string) (*domain.Table, error) {
	if tableID == "" {
		return r.lobby.DefaultTable()
	}
	return r.lobby.GetTable(tableID)
}

// onTable runs action on the loop of the client's table and broadcasts the resulting
// snapshot when the action reports it was accepted.
func (r *CommandRouter) onTable(ctx context.Context, client *connection.Client, action func(t *domain.Table) (bool, error)) error {
	tableID := r.connMgr.TableOf(client.ID)
	if tableID == "" {
		r.dispatcher.SendError(client.ID, "Join a table first")
		return ErrNotSeated
	}

	tbl, err := r.lobby.GetTable(tableID)
	if err != nil {
		return err
	}

	var (
		accepted bool
		view     domain.TableView
	)
	err = r.loops.For(tbl).Submit(ctx, func(t *domain.Table) error {
		var err error
		accepted, err = action(t)
		if accepted {
			view = t.BuildView()
		}
		return err
	})
	if err != nil {
		return err
	}

	if accepted {
		r.dispatcher.BroadcastState(view)
	}
	return nil
}
