package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yukikurage/project-management-api/internal/notify"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 64
)

var (
	// ErrChannelClosed is returned when pushing to a connection that
	// has already been unregistered.
	ErrChannelClosed = errors.New("ws: channel closed")
	// ErrChannelStuck is returned when the client's send queue did not
	// drain within the delivery timeout.
	ErrChannelStuck = errors.New("ws: channel stuck")
)

// Client represents a single authenticated WebSocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uint64

	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewClient wraps an upgraded connection for the given user.
func NewClient(hub *Hub, conn *websocket.Conn, userID uint64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// UserID returns the authenticated user this connection belongs to.
func (c *Client) UserID() uint64 {
	return c.userID
}

// Send implements notify.Channel. A connection whose queue does not
// drain within the timeout is stuck: it is dropped from the registry
// and the event is lost rather than retried.
func (c *Client) Send(event notify.PushEvent, timeout time.Duration) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.done:
		return ErrChannelClosed
	case c.send <- data:
		return nil
	case <-timer.C:
		c.hub.Unregister(c)
		return ErrChannelStuck
	}
}

// shutdown marks the client dead. Idempotent; called from Unregister.
func (c *Client) shutdown() {
	c.once.Do(func() {
		close(c.done)
	})
}

// ReadPump consumes incoming frames until the peer disconnects. Clients
// only push notifications; inbound payloads are discarded, but the read
// loop drives pong handling and disconnect detection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error from user %d: %v", c.userID, err)
			}
			return
		}
	}
}

// WritePump flushes queued events to the connection and keeps it alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("ws: write error to user %d: %v", c.userID, err)
				c.hub.Unregister(c)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.Unregister(c)
				return
			}

		case <-c.done:
			return
		}
	}
}
