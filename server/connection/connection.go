package connection

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client represents a connected websocket. ID doubles as the seat id of the
// connection at its table.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	tableID string
}

// NewClient creates a client with a buffered send queue
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// Manager handles all client connections
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
	log        logrus.FieldLogger

	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a new connection manager
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		log:        log,
		done:       make(chan struct{}),
	}
}

// Start processes registrations until ctx is done
func (m *Manager) Start(ctx context.Context) {
	defer m.stopOnce.Do(func() { close(m.done) })
	for {
		select {
		case client := <-m.Register:
			m.Add(client)
		case client := <-m.Unregister:
			m.Remove(client)
		case <-ctx.Done():
			return
		}
	}
}

// Add registers a client directly
func (m *Manager) Add(client *Client) {
	m.mutex.Lock()
	m.clients[client.ID] = client
	m.mutex.Unlock()
	m.log.WithField("conn", client.ID).Debug("client registered")
}

// Disconnect hands the client to the Start loop, or removes it directly once that loop
// has stopped
func (m *Manager) Disconnect(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
		m.Remove(client)
	}
}

// Remove unregisters a client and closes its send queue
func (m *Manager) Remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		close(client.Send)
		m.log.WithFields(logrus.Fields{"conn": client.ID, "table": client.tableID}).Debug("client unregistered")
	}
}

// SendToClient queues a message for one connection. Reports false when the client is
// unknown or its queue is full.
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	return m.enqueue(client, message)
}

// SendToTable queues a message for every connection seated at the table and returns
// how many accepted it
func (m *Manager) SendToTable(tableID string, message []byte) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sent := 0
	for _, client := range m.clients {
		if client.tableID == tableID && m.enqueue(client, message) {
			sent++
		}
	}
	return sent
}

func (m *Manager) enqueue(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		m.log.WithField("conn", client.ID).Warn("send queue full, dropping message")
		return false
	}
}

// JoinTable binds the client to a table so that it receives that table's broadcasts
func (m *Manager) JoinTable(clientID string, tableID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[clientID]; ok {
		client.tableID = tableID
		return true
	}
	return false
}

// TableOf returns the table the client joined, or an empty string
func (m *Manager) TableOf(clientID string) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return client.tableID
	}
	return ""
}

// CountAtTable returns how many live connections are bound to the table
func (m *Manager) CountAtTable(tableID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	n := 0
	for _, client := range m.clients {
		if client.tableID == tableID {
			n++
		}
	}
	return n
}
