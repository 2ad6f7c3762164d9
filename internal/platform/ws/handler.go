package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Handler upgrades requests to websocket connections attached to a Hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a Handler. A nil checkOrigin accepts every origin.
func NewHandler(hub *Hub, checkOrigin func(r *http.Request) bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger.With("component", "ws_handler"),
	}
}

// Serve upgrades the request and attaches the connection to sessionID.
// initial, when non-nil, builds the first message sent to the client. It is
// called after the connection is registered, so every change it does not
// reflect is delivered afterwards. Authorization must already have happened.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, sessionID string, initial func() (*Message, error)) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Warn("websocket upgrade failed", "error", err, "session_id", sessionID)
		return
	}

	conn := &Connection{
		SessionID: sessionID,
		Send:      make(chan []byte, sendBuffer),
	}

	if !h.hub.Register(conn) {
		_ = wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = wsConn.Close()
		return
	}

	if initial != nil {
		if err := h.writeInitial(wsConn, initial); err != nil {
			h.logger.Warn("failed to send initial state", "error", err, "session_id", sessionID)
			h.hub.Unregister(conn)
			_ = wsConn.Close()
			return
		}
	}

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// writeInitial runs before the pumps start, so broadcasts queued meanwhile
// in conn.Send are written after it.
func (h *Handler) writeInitial(wsConn *websocket.Conn, initial func() (*Message, error)) error {
	msg, err := initial()
	if err != nil {
		return err
	}
	_ = wsConn.SetWriteDeadline(time.Now().Add(writeWait))
	return wsConn.WriteJSON(msg)
}

// readPump discards client messages and detects disconnects.
func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		_ = wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	_ = wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		return wsConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", "error", err, "session_id", conn.SessionID)
			}
			return
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			_ = wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
