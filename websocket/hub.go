package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cineforo/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// In production adjust CheckOrigin to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to the spectators of each session feed. It is
// purely push: clients send nothing but pings, and the debate state is
// mutated only through the HTTP endpoints.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*client]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[*client]bool)}
}

// Broadcast sends an event to every spectator of the session feed.
func (h *Hub) Broadcast(sessionID string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.sessions[sessionID] {
		select {
		case cl.send <- data:
		default:
			// Slow consumer; drop the frame rather than block the feed.
		}
	}
}

// Connected returns the number of spectators on the session feed.
func (h *Hub) Connected(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func (h *Hub) register(sessionID string, cl *client) {
	h.mu.Lock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*client]bool)
	}
	h.sessions[sessionID][cl] = true
	h.mu.Unlock()
	h.broadcastPresence(sessionID)
}

func (h *Hub) unregister(sessionID string, cl *client) {
	h.mu.Lock()
	if clients, ok := h.sessions[sessionID]; ok {
		if _, registered := clients[cl]; registered {
			delete(clients, cl)
			close(cl.send)
			if len(clients) == 0 {
				delete(h.sessions, sessionID)
			}
		}
	}
	h.mu.Unlock()
	h.broadcastPresence(sessionID)
}

func (h *Hub) broadcastPresence(sessionID string) {
	event, err := NewEvent(EventPresence, PresencePayload{Connected: h.Connected(sessionID)})
	if err != nil {
		return
	}
	h.Broadcast(sessionID, event)
}

// SessionFeedHandler upgrades the request to a WebSocket subscribed to
// one session's feed. The token travels as a query parameter because
// browsers cannot set headers on WebSocket dials.
func (h *Hub) SessionFeedHandler(verifier services.TokenVerifier, debates *services.DebateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}
		if _, err := verifier.Verify(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		sessionID := c.Param("id")
		if _, err := debates.GetSession(c.Request.Context(), sessionID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Debate not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		cl := &client{conn: conn, send: make(chan []byte, 64)}
		h.register(sessionID, cl)

		go h.writePump(cl)
		h.readPump(sessionID, cl)
	}
}

// readPump discards inbound frames and tears the client down when the
// connection drops.
func (h *Hub) readPump(sessionID string, cl *client) {
	defer func() {
		h.unregister(sessionID, cl)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
