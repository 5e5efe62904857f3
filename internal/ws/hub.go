package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	diag "github.com/coreman2200/funtimes-rainbow/internal/diagnostics"
	"github.com/coreman2200/funtimes-rainbow/internal/telemetry"
)

const (
	writeWait   = 200 * time.Millisecond
	diagBacklog = 16
)

// Hub fans sampled records and diagnostics out to websocket clients.
type Hub struct {
	mu          sync.Mutex
	Driver      string
	startTime   time.Time
	records     uint64
	last        *telemetry.Payload
	diags       []diag.Diagnostic
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	upgrader    websocket.Upgrader
	logger      zerolog.Logger
	ticks       func() uint64
}

func NewHub(driver string, logger zerolog.Logger) *Hub {
	return &Hub{
		Driver:      driver,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:      logger,
	}
}

// Routes mounts the hub's handlers.
func (h *Hub) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/records", h.HandleRecordsWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

// SetTickSource makes /health report fn's count, typically animation.Driver.Ticks.
func (h *Hub) SetTickSource(fn func() uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ticks = fn
}

// Publish implements telemetry.Sink.
func (h *Hub) Publish(r telemetry.Record) {
	p := r.Payload()
	b, _ := json.Marshal(p)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.records++
	h.last = &p
	h.broadcast(h.clients, b)
}

// Push sends d to diag clients and keeps it for late joiners.
func (h *Hub) Push(d diag.Diagnostic) {
	b, _ := json.Marshal(d)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.diags = append(h.diags, d)
	if len(h.diags) > diagBacklog {
		h.diags = h.diags[len(h.diags)-diagBacklog:]
	}
	h.broadcast(h.diagClients, b)
}

// broadcast must be called with h.mu held.
func (h *Hub) broadcast(set map[*websocket.Conn]bool, b []byte) {
	for c := range set {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			h.logger.Debug().Err(err).Msg("websocket write")
		}
	}
}

func (h *Hub) HandleRecordsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	if h.last != nil {
		b, _ := json.Marshal(h.last)
		_ = conn.WriteMessage(websocket.TextMessage, b)
	}
	h.clients[conn] = true
	h.mu.Unlock()

	go h.drain(conn, h.clients)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	for _, d := range h.diags {
		b, _ := json.Marshal(d)
		_ = conn.WriteMessage(websocket.TextMessage, b)
	}
	h.diagClients[conn] = true
	h.mu.Unlock()

	go h.drain(conn, h.diagClients)
}

// drain discards client messages until the connection drops.
func (h *Hub) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		h.mu.Lock()
		delete(set, conn)
		h.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	resp := map[string]any{
		"records":  h.records,
		"ticks":    nil,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"driver":   h.Driver,
		"last":     h.last,
	}
	if h.ticks != nil {
		resp["ticks"] = h.ticks()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Clients returns the number of connected record and diag clients.
func (h *Hub) Clients() (records, diags int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients), len(h.diagClients)
}

// Close drops every client; their drain goroutines exit on the next read.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
	}
	for c := range h.diagClients {
		c.Close()
	}
}
