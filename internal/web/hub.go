package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hay-kot/toasty/internal/toaster"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxReadBytes = 512
	sendBuffer   = 8
)

type hubOption func(*Hub)

func withClientHooks(onConnect, onDisconnect func()) hubOption {
	return func(h *Hub) {
		if onConnect != nil {
			h.onConnect = onConnect
		}
		if onDisconnect != nil {
			h.onDisconnect = onDisconnect
		}
	}
}

// Hub pushes engine snapshots to websocket clients. Each client gets the
// current snapshot on connect and every newer one after that. A client that
// falls behind loses its oldest queued snapshots, never the newest.
type Hub struct {
	engine       toaster.Engine
	logger       zerolog.Logger
	upgrader     websocket.Upgrader
	onConnect    func()
	onDisconnect func()

	mu          sync.Mutex
	clients     map[uuid.UUID]*client
	closed      bool
	unsubscribe func()
}

func newHub(engine toaster.Engine, logger zerolog.Logger, opts ...hubOption) *Hub {
	h := &Hub{
		engine: engine,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		onConnect:    func() {},
		onDisconnect: func() {},
		clients:      make(map[uuid.UUID]*client),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.unsubscribe = engine.Subscribe(h.broadcast)
	return h
}

// ServeWS upgrades the request and streams snapshots until the client goes
// away or the hub is closed.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan outbound, sendBuffer),
		done: make(chan struct{}),
	}

	if !h.register(c) {
		c.close()
		return
	}
	defer h.unregister(c)

	snap := h.engine.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error().Err(err).Uint64("version", snap.Version).Msg("marshal snapshot")
		return
	}
	c.enqueue(outbound{version: snap.Version, data: data})

	go c.writePump(h.logger)
	c.readPump()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and stops listening to the engine.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.unsubscribe()
	for _, c := range h.clients {
		c.close()
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c.id] = c
	h.logger.Debug().Str("client_id", c.id.String()).Int("clients", len(h.clients)).Msg("client connected")
	h.onConnect()
	return true
}

func (h *Hub) unregister(c *client) {
	c.close()

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	h.logger.Debug().Str("client_id", c.id.String()).Int("clients", len(h.clients)).Msg("client disconnected")
	h.onDisconnect()
}

func (h *Hub) broadcast(snap toaster.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error().Err(err).Uint64("version", snap.Version).Msg("marshal snapshot")
		return
	}

	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	msg := outbound{version: snap.Version, data: data}
	for _, c := range clients {
		if dropped := c.enqueue(msg); dropped > 0 {
			h.logger.Debug().Str("client_id", c.id.String()).Int("dropped", dropped).Msg("slow client")
		}
	}
}

type outbound struct {
	version uint64
	data    []byte
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan outbound

	mu     sync.Mutex
	queued bool
	last   uint64

	done      chan struct{}
	closeOnce sync.Once
}

// enqueue queues msg unless a newer snapshot is already queued. When the
// buffer is full the oldest queued message is dropped. It returns how many
// messages were dropped.
func (c *client) enqueue(msg outbound) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queued && msg.version <= c.last {
		return 0
	}
	c.queued = true
	c.last = msg.version

	dropped := 0
	for {
		select {
		case c.send <- msg:
			return dropped
		default:
		}

		select {
		case <-c.send:
			dropped++
		default:
		}
	}
}

func (c *client) writePump(logger zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
				logger.Debug().Err(err).Str("client_id", c.id.String()).Msg("write failed")
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

// readPump discards client messages and returns when the connection fails.
func (c *client) readPump() {
	c.conn.SetReadLimit(maxReadBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		_ = c.conn.Close()
	})
}
