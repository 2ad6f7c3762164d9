package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/phrazzld/viral-scripts/internal/events"
)

// Message is the envelope written to clients.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Connection is one client attached to a session.
type Connection struct {
	SessionID string
	Send      chan []byte
}

type broadcastMessage struct {
	sessionID string
	data      []byte
}

// Hub fans messages out to the connections of each session.
type Hub struct {
	logger *slog.Logger

	// session id -> connections
	conns map[string]map[*Connection]struct{}
	mu    sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan broadcastMessage
	closeAll   chan string
	done       chan struct{}
	stopOnce   sync.Once
}

var _ events.EventHandler = (*Hub)(nil)

// NewHub creates a Hub. Call Run to start delivering messages.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger.With("component", "ws_hub"),
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan broadcastMessage, 256),
		closeAll:   make(chan string),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is done, then closes
// every connection.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SessionID][conn] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("client connected", "session_id", conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case id := <-h.closeAll:
			h.mu.Lock()
			for conn := range h.conns[id] {
				h.remove(conn)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns[msg.sessionID] {
				select {
				case conn.Send <- msg.data:
				default:
					h.logger.Warn("dropping message for slow client", "session_id", msg.sessionID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(conn *Connection) {
	set, ok := h.conns[conn.SessionID]
	if !ok {
		return
	}
	if _, ok := set[conn]; !ok {
		return
	}
	delete(set, conn)
	close(conn.Send)
	if len(set) == 0 {
		delete(h.conns, conn.SessionID)
	}
	h.logger.Debug("client disconnected", "session_id", conn.SessionID)
}

func (h *Hub) shutdown() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for _, set := range h.conns {
			for conn := range set {
				close(conn.Send)
			}
		}
		h.conns = make(map[string]map[*Connection]struct{})
		h.mu.Unlock()
	})
}

// Register attaches conn to its session. It returns false once the hub has
// stopped.
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Unregister detaches conn and closes its Send channel.
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Count returns the number of connections attached to sessionID.
func (h *Hub) Count(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// Broadcast queues msg for every connection of sessionID.
func (h *Hub) Broadcast(ctx context.Context, sessionID string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- broadcastMessage{sessionID: sessionID, data: data}:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleEvent forwards state changes to the session's clients and drops the
// connections of deleted sessions.
func (h *Hub) HandleEvent(ctx context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeStateChanged:
		return h.Broadcast(ctx, event.SessionID, Message{Type: event.Type, Payload: event.Payload})
	case events.TypeSessionDeleted:
		select {
		case h.closeAll <- event.SessionID:
		case <-h.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
