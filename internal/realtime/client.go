package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one websocket connection belonging to an authenticated user
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uint
	send   chan []byte
	rooms  map[string]bool
}

// clientMessage is the inbound frame format. Clients use it to manage room
// subscriptions and to relay typing indicators; chat messages themselves go
// through the REST API so they are persisted.
type clientMessage struct {
	Action      string `json:"action"`
	Room        string `json:"room,omitempty"`
	RecipientID uint   `json:"recipient_id,omitempty"`
}

// NewClient wraps an upgraded connection and registers it with the hub
func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	c := &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		rooms:  make(map[string]bool),
	}
	hub.register(c)
	return c
}

// Serve runs the write pump in a goroutine and the read pump on the calling
// goroutine; it returns when the connection is closed.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("websocket read error", zap.Uint("user_id", c.userID), zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.log.Debug("ignoring malformed websocket frame", zap.Uint("user_id", c.userID))
			continue
		}

		switch msg.Action {
		case "subscribe":
			if msg.Room != "" {
				c.hub.subscribe(c, msg.Room)
			}
		case "unsubscribe":
			if msg.Room != "" {
				c.hub.unsubscribe(c, msg.Room)
			}
		case "typing":
			// Relayed, never persisted
			event := Event{Event: "typing", Payload: map[string]interface{}{
				"sender_id": c.userID,
				"room":      msg.Room,
			}}
			if msg.Room != "" {
				c.hub.Broadcast(msg.Room, event)
			} else if msg.RecipientID != 0 {
				c.hub.SendToUser(msg.RecipientID, event)
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
