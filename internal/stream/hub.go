package stream

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"terrasim/internal/core"
	"terrasim/internal/render"
)

// HubConfig configures a Hub.
type HubConfig struct {
	Logger   *log.Logger
	Geometry core.Grid
	// SendBuffer is the number of frames queued per client before it is
	// dropped as too slow.
	SendBuffer int
}

// Hub is a render.Backend that fans frames out to websocket spectators.
type Hub struct {
	logger   *log.Logger
	geom     core.Grid
	buffer   int
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	cursor  render.Cursor
	seq     uint64
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	needKey bool
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// NewHub constructs a hub.
func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	buffer := cfg.SendBuffer
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{
		logger: logger,
		geom:   cfg.Geometry,
		buffer: buffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and streams frames until the spectator
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("spectator upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, h.buffer), needKey: true}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Printf("spectator %s connected (%d watching)", r.RemoteAddr, n)

	go h.writeLoop(c)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
	h.logger.Printf("spectator %s disconnected", r.RemoteAddr)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			h.drop(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// SubmitBatch implements render.Backend. New spectators and every
// spectator after a terrain rebuild receive a keyframe; the rest get the
// cells changed since the previous submission.
func (h *Hub) SubmitBatch(batch *render.TerrainBatch, effects []render.Primitive) {
	h.mu.Lock()
	defer h.mu.Unlock()

	changed, next, full := batch.ChangesSince(h.cursor)
	h.cursor = next
	if len(h.clients) == 0 {
		return
	}
	h.seq++

	var key, delta []byte
	for c := range h.clients {
		var msg []byte
		if full || c.needKey {
			if key == nil {
				var err error
				if key, err = encodeFrame(FrameKey, h.seq, h.geom, batch, nil, effects); err != nil {
					h.logger.Printf("encode keyframe: %v", err)
					return
				}
			}
			msg = key
		} else {
			if delta == nil {
				var err error
				if delta, err = encodeFrame(FrameDelta, h.seq, h.geom, batch, changed, effects); err != nil {
					h.logger.Printf("encode delta: %v", err)
					return
				}
			}
			msg = delta
		}
		select {
		case c.send <- msg:
			c.needKey = false
		default:
			delete(h.clients, c)
			c.close()
			h.logger.Printf("spectator dropped: send buffer full")
		}
	}
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
