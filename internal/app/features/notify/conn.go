package notify

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write an outbound frame.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong; pings go out at pingPeriod.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Outbound frames buffered per connection before sends start failing.
	sendBuffer = 32
)

var errSendBufferFull = errors.New("connection send buffer full, frame dropped")

// conn pairs one websocket with its hub registration. Reads and writes
// run on separate pumps; the send channel is the only path to the wire,
// so writes are serialized.
type conn struct {
	id  string
	ws  *websocket.Conn
	hub *Hub
	log *zap.Logger

	send chan Envelope
	done chan struct{}
}

func newConn(id string, ws *websocket.Conn, hub *Hub, logger *zap.Logger) *conn {
	return &conn{
		id:   id,
		ws:   ws,
		hub:  hub,
		log:  logger,
		send: make(chan Envelope, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues an outbound envelope. A slow consumer whose buffer is full
// loses the frame rather than stalling the broadcast loop.
func (c *conn) Send(env Envelope) error {
	select {
	case c.send <- env:
		return nil
	case <-c.done:
		return errors.New("connection closed")
	default:
		return errSendBufferFull
	}
}

// joinData is the payload of the inbound join event.
type joinData struct {
	Email string `json:"email"`
}

// readPump consumes inbound frames until the socket closes, then
// deregisters the connection. Runs on the handler goroutine.
func (c *conn) readPump() {
	defer func() {
		c.hub.Disconnect(c.id)
		close(c.done)
		_ = c.ws.Close()
	}()

	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := c.ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("socket read failed", zap.String("conn_id", c.id), zap.Error(err))
			}
			return
		}

		switch EventKind(env.Event) {
		case EventJoin:
			var jd joinData
			if err := json.Unmarshal(env.Data, &jd); err != nil || jd.Email == "" {
				c.log.Warn("join with unusable payload", zap.String("conn_id", c.id))
				continue
			}
			// The socket has no request deadline of its own; bound the
			// role lookup like any other short read.
			c.hub.JoinWithTimeout(c.id, jd.Email, c)

		case EventNewRating, EventNewComment, EventNewBook, EventNewBorrow:
			c.hub.Broadcast(EventKind(env.Event), c.id, env.Data)

		default:
			c.log.Warn("unknown socket event", zap.String("conn_id", c.id), zap.String("event", env.Event))
		}
	}
}

// writePump drains the send channel onto the wire and keeps the
// connection alive with pings.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case env := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
