package domain

import (
	"sort"
	"strings"
	"sync"

	"github.com/lazharichir/blackjack/domain/events"
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
)

// Lobby is the registry of the tables hosted by one server
type Lobby struct {
	tables         map[string]*Table
	defaultTableID string
	log            *logrus.Logger
	mu             sync.RWMutex

	eventHandlers []events.EventHandler
}

// NewLobby creates an empty lobby. A nil logger falls back to the logrus standard logger.
func NewLobby(log *logrus.Logger) *Lobby {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Lobby{
		tables:        make(map[string]*Table),
		log:           log,
		eventHandlers: []events.EventHandler{},
	}
}

// CreateTable creates a new table in the lobby. The first table created becomes the
// default table that connections join when they do not name one.
func (l *Lobby) CreateTable(name string, rules TableRules) (*Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTableName
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	table := NewTable(name, rules, l.log)
	if err := l.AddTable(table); err != nil {
		return nil, err
	}
	return table, nil
}

// AddTable registers a table built elsewhere and forwards its events like any other
func (l *Lobby) AddTable(table *Table) error {
	if err := table.Rules.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	if _, exists := l.tables[table.ID]; exists {
		l.mu.Unlock()
		return ErrTableExists
	}
	l.tables[table.ID] = table
	if l.defaultTableID == "" {
		l.defaultTableID = table.ID
	}
	l.mu.Unlock()

	table.RegisterEventHandler(l.handleTableEvent)
	l.log.WithFields(logrus.Fields{"table": table.ID, "table_name": table.Name, "max_players": table.Rules.MaxPlayers}).Info("table created")

	return nil
}

func (l *Lobby) handleTableEvent(event events.Event) {
	if l.log.IsLevelEnabled(logrus.TraceLevel) {
		l.log.WithField("event", event.Name()).Trace(litter.Sdump(event))
	}

	l.mu.RLock()
	handlers := l.eventHandlers
	l.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// GetTable retrieves a table by ID
func (l *Lobby) GetTable(tableID string) (*Table, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	table, exists := l.tables[tableID]
	if !exists {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// DefaultTable returns the table used when a connection does not pick one
func (l *Lobby) DefaultTable() (*Table, error) {
	l.mu.RLock()
	id := l.defaultTableID
	l.mu.RUnlock()

	if id == "" {
		return nil, ErrTableNotFound
	}
	return l.GetTable(id)
}

// GetTables returns all tables in the lobby ordered by name
func (l *Lobby) GetTables() []*Table {
	l.mu.RLock()
	tables := make([]*Table, 0, len(l.tables))
	for _, table := range l.tables {
		tables = append(tables, table)
	}
	l.mu.RUnlock()

	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Name == tables[j].Name {
			return tables[i].ID < tables[j].ID
		}
		return tables[i].Name < tables[j].Name
	})
	return tables
}

// AddEventHandler adds a handler that receives the events of every table in the lobby
func (l *Lobby) AddEventHandler(handler events.EventHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.eventHandlers = append(l.eventHandlers, handler)
}
