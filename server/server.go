package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/blackjack/domain"
	domainevents "github.com/lazharichir/blackjack/domain/events"
	"github.com/lazharichir/blackjack/server/connection"
	"github.com/lazharichir/blackjack/server/events"
	"github.com/lazharichir/blackjack/server/handlers"
	"github.com/lazharichir/blackjack/table"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server is the websocket and HTTP front of the lobby
type Server struct {
	lobby      *domain.Lobby
	loops      *table.Loops
	history    domainevents.EventStore
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *events.Dispatcher
	log        logrus.FieldLogger
}

// TableResponse represents a table in API responses
type TableResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	NumDecks    int    `json:"numDecks"`
	RoundNumber int    `json:"roundNumber"`
	Phase       string `json:"phase"`
	Connections int    `json:"connections"`
}

// CreateTableRequest represents the request to create a new table. Zero values take
// the defaults of the lobby's default table.
type CreateTableRequest struct {
	Name          string `json:"name"`
	MaxPlayers    int    `json:"maxPlayers"`
	NumDecks      int    `json:"numDecks"`
	StartingCoins int    `json:"startingCoins"`
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// NewServer wires the connection manager, dispatcher and command router around the
// lobby. Table events reach connected clients through the lobby's event handlers.
func NewServer(lobby *domain.Lobby, loops *table.Loops, history domainevents.EventStore, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	connMgr := connection.NewManager(log)
	dispatcher := events.NewDispatcher(connMgr, log)
	cmdRouter := handlers.NewCommandRouter(lobby, loops, connMgr, dispatcher, log)

	lobby.AddEventHandler(dispatcher.HandleEvent)

	return &Server{
		lobby:      lobby,
		loops:      loops,
		history:    history,
		connMgr:    connMgr,
		cmdRouter:  cmdRouter,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/tables", corsMiddleware(s.handleGetTables))
	mux.HandleFunc("/api/tables/create", corsMiddleware(s.handleCreateTable))
	mux.HandleFunc("/api/tables/{id}/events", corsMiddleware(s.handleTableEvents))
	return mux
}

// Start serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.connMgr.Start(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := connection.NewClient(uuid.NewString(), conn)
	s.log.WithFields(logrus.Fields{"conn": client.ID, "remote": r.RemoteAddr}).Info("client connected")

	s.connMgr.Add(client)

	go s.writePump(client)
	go s.readPump(client)
}

// readPump reads messages from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	log := s.log.WithField("conn", client.ID)
	defer func() {
		s.connMgr.Disconnect(client)
		client.Conn.Close()
		log.Info("client disconnected")
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("websocket read failed")
			}
			return
		}

		err = s.cmdRouter.HandleCommand(context.Background(), client, message)
		switch {
		case err == nil, errors.Is(err, handlers.ErrNotSeated):
		case errors.Is(err, handlers.ErrUnknownCommand):
			s.dispatcher.SendError(client.ID, err.Error())
		default:
			log.WithError(err).Warn("command failed")
			s.dispatcher.SendError(client.ID, "command failed")
		}
	}
}

// writePump sends queued messages and keepalive pings to the WebSocket connection
func (s *Server) writePump(client *connection.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.log.WithError(err).WithField("conn", client.ID).Warn("websocket write failed")
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"tables": len(s.lobby.GetTables()),
	})
}

// handleGetTables returns a list of all tables
func (s *Server) handleGetTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tables := s.lobby.GetTables()
	tableResponses := make([]TableResponse, 0, len(tables))

	for _, tbl := range tables {
		view, err := s.loops.For(tbl).View(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		tableResponses = append(tableResponses, s.tableResponse(tbl, view))
	}

	writeJSON(w, http.StatusOK, tableResponses)
}

// handleCreateTable creates a new table
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var createReq CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rules := domain.DefaultTableRules()
	if def, err := s.lobby.DefaultTable(); err == nil {
		rules = def.Rules
	}
	if createReq.MaxPlayers > 0 {
		rules.MaxPlayers = createReq.MaxPlayers
	}
	if createReq.NumDecks > 0 {
		rules.NumDecks = createReq.NumDecks
	}
	if createReq.StartingCoins > 0 {
		rules.StartingCoins = createReq.StartingCoins
	}

	tbl, err := s.lobby.CreateTable(createReq.Name, rules)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := s.loops.For(tbl).View(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusCreated, s.tableResponse(tbl, view))
}

// handleTableEvents returns the recorded event history of one table
func (s *Server) handleTableEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tableID := r.PathValue("id")
	if _, err := s.lobby.GetTable(tableID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	history, err := s.history.LoadEvents(tableID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	envelopes := make([]events.EventEnvelope, 0, len(history))
	for _, event := range history {
		payload, err := json.Marshal(event)
		if err != nil {
			s.log.WithError(err).WithField("event", event.Name()).Warn("failed to encode event")
			continue
		}
		envelopes = append(envelopes, events.EventEnvelope{Name: event.Name(), Payload: payload})
	}

	writeJSON(w, http.StatusOK, envelopes)
}

func (s *Server) tableResponse(tbl *domain.Table, view domain.TableView) TableResponse {
	return TableResponse{
		ID:          tbl.ID,
		Name:        tbl.Name,
		PlayerCount: len(view.Players),
		MaxPlayers:  tbl.Rules.MaxPlayers,
		NumDecks:    tbl.Rules.NumDecks,
		RoundNumber: view.RoundNumber,
		Phase:       string(view.Phase),
		Connections: s.connMgr.CountAtTable(tbl.ID),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
