package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is a middleman between one websocket connection and the hub. It is
// created anonymous; the gateway fills in the identity fields once the
// authenticate event succeeds.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn

	// Identity, set under the hub lock by Register.
	UserID        uint
	Username      string
	authenticated bool

	// Buffered channel of outbound messages.
	Send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// readPump pumps inbound frames from the websocket into the gateway.
func (c *Client) readPump(gateway *Gateway) {
	defer func() {
		gateway.HandleDisconnect(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				gateway.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"conn_id": c.ID,
					"error":   err.Error(),
				})
			}
			break
		}
		gateway.Dispatch(c, raw)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs wires a freshly upgraded connection into the hub and gateway and
// blocks until the connection drops.
func ServeWs(gateway *Gateway, conn *websocket.Conn) {
	client := NewClient(gateway.hub, conn)
	gateway.hub.Track(client)

	go client.writePump()
	client.readPump(gateway)
}
