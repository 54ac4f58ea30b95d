package bus

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"CoinDeck/pkg/logger"
	"CoinDeck/pkg/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub fans bus events out to connected websocket clients.
type Hub struct {
	bus      *Bus
	log      *logger.Logger
	recorder *metrics.Recorder
	upgrader websocket.Upgrader

	register   chan *wsClient
	unregister chan *wsClient
	clients    map[*wsClient]struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a websocket hub over the bus.
func NewHub(b *Bus, log *logger.Logger, recorder *metrics.Recorder) *Hub {
	return &Hub{
		bus:      b,
		log:      log,
		recorder: recorder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		clients:    make(map[*wsClient]struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop until Stop is called.
func (h *Hub) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	events, unsubscribe := h.bus.Subscribe()
	go func() {
		defer close(h.done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				for c := range h.clients {
					close(c.send)
					delete(h.clients, c)
				}
				return
			case c := <-h.register:
				h.clients[c] = struct{}{}
				if h.recorder != nil {
					h.recorder.WSClientConnected()
				}
			case c := <-h.unregister:
				if _, ok := h.clients[c]; ok {
					delete(h.clients, c)
					close(c.send)
					if h.recorder != nil {
						h.recorder.WSClientDisconnected()
					}
				}
			case evt, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(evt)
				if err != nil {
					continue
				}
				for c := range h.clients {
					select {
					case c.send <- data:
					default:
						// slow client, disconnect it
						delete(h.clients, c)
						close(c.send)
					}
				}
			}
		}
	}()
}

// Stop shuts the hub down.
func (h *Hub) Stop() {
	if h.cancel != nil {
		h.cancel()
		<-h.done
	}
}

// ServeHTTP upgrades the connection and attaches it to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, 32),
	}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return nil
	}

	go h.writePump(client)
	go h.readPump(client)
	return nil
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (h *Hub) readPump(c *wsClient) {
	defer func() {
		// the hub loop is gone after Stop, do not block on it
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && h.log != nil {
				h.log.Debug("ws: read error", logger.Error(err))
			}
			return
		}
	}
}
