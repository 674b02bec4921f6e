package serverapp

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"spaceclicker/internal/game"
	"spaceclicker/internal/telemetry"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

// Message is the envelope of every outbound frame.
type Message struct {
	Type    string           `json:"type"` // "snapshot", "event", "result", "error"
	Command string           `json:"command,omitempty"`
	State   *game.View       `json:"state,omitempty"`
	Event   *telemetry.Event `json:"event,omitempty"`
	Result  any              `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// Hub fans snapshots and events out to connected websocket clients and runs
// their commands against the engine.
type Hub struct {
	engine *game.Engine
	logger *log.Logger

	mu      sync.Mutex
	clients map[*client]bool

	perSecond float64
	burst     int
	upgrader  websocket.Upgrader
}

func NewHub(engine *game.Engine, logger *log.Logger, perSecond float64, burst int) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	if burst <= 0 {
		burst = 1
	}
	return &Hub{
		engine:    engine,
		logger:    logger,
		clients:   map[*client]bool{},
		perSecond: perSecond,
		burst:     burst,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	logJSON(h.logger, "info", "ws_connected", map[string]any{"clients": h.Clients()})
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// broadcast queues payload for every client. Clients whose buffer is full are
// dropped rather than allowed to stall the rest.
func (h *Hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) broadcastMessage(m Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		logJSON(h.logger, "error", "ws_marshal_failed", map[string]any{"err": err.Error()})
		return
	}
	h.broadcast(payload)
}

// BroadcastView sends a snapshot to every client. It matches the driver's
// OnSnapshot callback.
func (h *Hub) BroadcastView(v game.View) {
	h.broadcastMessage(Message{Type: "snapshot", State: &v})
}

// ForwardEvents relays telemetry events until ctx is done or events closes.
func (h *Hub) ForwardEvents(ctx context.Context, events <-chan telemetry.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.broadcastMessage(Message{Type: "event", Event: &ev})
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeWS upgrades the request and starts the client's pumps. The first frame
// is always the current snapshot.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logJSON(h.logger, "warn", "ws_upgrade_failed", map[string]any{"err": err.Error()})
		return
	}
	limit := rate.Inf
	if h.perSecond > 0 {
		limit = rate.Limit(h.perSecond)
	}
	c := &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(limit, h.burst),
	}
	h.register(c)

	v := h.engine.Snapshot()
	c.reply(Message{Type: "snapshot", State: &v})

	go c.writePump()
	go c.readPump()
}

// reply queues a frame for this client only.
func (c *client) reply(m Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logJSON(c.hub.logger, "warn", "ws_read_failed", map[string]any{"err": err.Error()})
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.reply(Message{Type: "error", Error: "invalid command"})
			continue
		}
		if !c.limiter.Allow() {
			c.reply(Message{Type: "error", Command: cmd.Type, Error: "rate limit exceeded"})
			continue
		}

		res, err := dispatch(context.Background(), c.hub.engine, cmd)
		if err != nil {
			c.reply(Message{Type: "error", Command: cmd.Type, Error: err.Error()})
			continue
		}
		c.reply(Message{Type: "result", Command: cmd.Type, Result: res})
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
