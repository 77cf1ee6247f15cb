package table

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lazharichir/blackjack/domain"
	"github.com/sirupsen/logrus"
)

var ErrLoopStopped = errors.New("game loop stopped")

// Action is a unit of work run against the table on the loop goroutine
type Action func(t *domain.Table) error

type request struct {
	action Action
	done   chan error
}

// GameLoop serialises every action for one table onto a single goroutine, so the
// table itself needs no locking.
type GameLoop struct {
	table      *domain.Table
	actionChan chan request
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	startOnce  sync.Once
	log        logrus.FieldLogger
}

// NewGameLoop creates a loop for the table. It does nothing until Start is called.
func NewGameLoop(table *domain.Table, log logrus.FieldLogger) *GameLoop {
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &GameLoop{
		table:      table,
		actionChan: make(chan request, 100),
		ctx:        ctx,
		cancel:     cancel,
		log:        log.WithField("table", table.ID),
	}
}

// Start begins processing submitted actions. Calling it more than once has no effect.
func (g *GameLoop) Start() {
	g.startOnce.Do(func() {
		g.wg.Add(1)
		go func() {
			defer g.wg.Done()
			g.runLoop()
		}()
	})
}

// Stop stops the loop and waits for the running action to finish
func (g *GameLoop) Stop() {
	g.cancel()
	g.wg.Wait()
}

// TableID returns the id of the table this loop drives
func (g *GameLoop) TableID() string {
	return g.table.ID
}

// Submit queues the action and blocks until it ran, returning its error. It returns
// the context error when ctx ends first, and ErrLoopStopped once the loop is stopped.
func (g *GameLoop) Submit(ctx context.Context, action Action) error {
	req := request{action: action, done: make(chan error, 1)}

	select {
	case g.actionChan <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-g.ctx.Done():
		return ErrLoopStopped
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-g.ctx.Done():
		return ErrLoopStopped
	}
}

// View returns a snapshot of the table taken on the loop goroutine
func (g *GameLoop) View(ctx context.Context) (domain.TableView, error) {
	var view domain.TableView
	err := g.Submit(ctx, func(t *domain.Table) error {
		view = t.BuildView()
		return nil
	})
	return view, err
}

// runLoop is the main loop that executes submitted actions one at a time
func (g *GameLoop) runLoop() {
	for {
		select {
		case <-g.ctx.Done():
			return

		case req := <-g.actionChan:
			req.done <- g.run(req.action)
		}
	}
}

func (g *GameLoop) run(action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.log.WithField("panic", r).Error("table action panicked")
			err = fmt.Errorf("table action panicked: %v", r)
		}
	}()
	return action(g.table)
}

// Loops keeps one running GameLoop per table
type Loops struct {
	loops map[string]*GameLoop
	mu    sync.Mutex
	log   logrus.FieldLogger
}

func NewLoops(log logrus.FieldLogger) *Loops {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loops{
		loops: make(map[string]*GameLoop),
		log:   log,
	}
}

// For returns the running loop of the table, starting one on first use
func (l *Loops) For(table *domain.Table) *GameLoop {
	l.mu.Lock()
	defer l.mu.Unlock()

	if loop, ok := l.loops[table.ID]; ok {
		return loop
	}

	loop := NewGameLoop(table, l.log)
	loop.Start()
	l.loops[table.ID] = loop
	l.log.WithField("table", table.ID).Debug("game loop started")

	return loop
}

// StopAll stops every loop. Loops requested afterwards start fresh.
func (l *Loops) StopAll() {
	l.mu.Lock()
	loops := l.loops
	l.loops = make(map[string]*GameLoop)
	l.mu.Unlock()

	for _, loop := range loops {
		loop.Stop()
	}
}
