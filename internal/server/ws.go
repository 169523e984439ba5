package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/danmuck/sidecarctl/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	pingInterval  = 30 * time.Second
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second

	clientSendBuffer = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Loopback control plane; origin policy is enforced by CORS config.
		return true
	},
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// handleEvents bridges the notification hub onto one websocket: replay
// history first, then live notifications as JSON frames.
func (s *Server) handleEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket_upgrade_failed")
		return
	}

	subID, notifications, replay := s.hub.Subscribe()
	client := &wsClient{conn: conn, send: make(chan []byte, clientSendBuffer)}

	for _, n := range replay {
		client.enqueue(n)
	}

	go client.writePump()
	go func() {
		// Closing send after the hub channel drains lets writePump finish
		// with a proper close frame.
		defer close(client.send)
		for n := range notifications {
			client.enqueue(n)
		}
	}()
	go client.readPump(func() {
		s.hub.Unsubscribe(subID)
	})
}

func (c *wsClient) enqueue(n notify.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		// Client buffer full, drop.
	}
}

// readPump consumes client frames solely to detect disconnect and keep
// pong handling alive.
func (c *wsClient) readPump(cleanup func()) {
	defer func() {
		cleanup()
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket_read_failed")
			}
			return
		}
	}
}

// writePump writes queued frames and periodic pings until the send
// channel closes or a write fails.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
