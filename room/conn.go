package room

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tien-Cheng/leetcode-99-sub000/metrics"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// writeTimeout bounds every outbound websocket write (grounded on
// wsnet2's Peer.writeMessage write-deadline idiom, game/peer.go:223-227).
const writeTimeout = 3 * time.Second

// sendBufSize is the per-connection outbound queue depth before a slow
// reader gets disconnected, mirroring wsnet2's bounded msgCh/evbuf
// sizing rather than an unbounded channel that could OOM the Room.
const sendBufSize = 64

// Conn is a duplex connection handle bound to a Room and, once JOIN_ROOM
// succeeds, to a PlayerID. It plays the role wsnet2's Peer plays for
// Client: a read goroutine posting inbound messages into the Room's single
// queue, and a write goroutine draining outbound frames (game/peer.go's
// MsgLoop / SendEvents split, adapted from a binary frame + msgCh to a JSON
// envelope + inbox).
type Conn struct {
	id   string
	ws   *websocket.Conn
	room *Room

	mu       sync.Mutex
	playerID string
	closed   bool

	sendCh chan []byte
	done   chan struct{}
}

// NewConn wraps an accepted websocket connection and starts its read/write
// goroutines. The connection is not yet bound to a player until JOIN_ROOM.
func NewConn(id string, ws *websocket.Conn, r *Room) *Conn {
	c := &Conn{
		id:     id,
		ws:     ws,
		room:   r,
		sendCh: make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
	go c.writeLoop()
	go c.readLoop()
	return c
}

// PlayerID returns the bound player, or "" before JOIN_ROOM succeeds.
func (c *Conn) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// bind attaches this connection to a resolved player (called by the Room's
// dispatch goroutine only, after JOIN_ROOM authenticates).
func (c *Conn) bind(playerID string) {
	c.mu.Lock()
	c.playerID = playerID
	c.mu.Unlock()
}

// Send enqueues one outbound envelope. Non-blocking: a connection whose
// send queue is full is closed rather than allowed to back-pressure the
// Room (spec §5: "network send to a connection may fail silently; failures
// do not roll back state").
func (c *Conn) Send(t wire.EventType, requestID string, payload interface{}) {
	data, err := wire.Outbound(t, requestID, payload)
	if err != nil {
		c.room.logger.Errorf("conn %s: encode %s: %+v", c.id, t, err)
		return
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	select {
	case c.sendCh <- data:
	default:
		c.room.logger.Warnf("conn %s: send queue full, closing", c.id)
		c.Close("send queue full")
	}
}

// SendError sends a single ERROR envelope (spec §4.1: "validation failure
// responds with a single ERROR").
func (c *Conn) SendError(requestID string, e *wire.Error) {
	c.Send(wire.EvError, requestID, e)
}

// Close closes the underlying websocket; idempotent.
func (c *Conn) Close(reason string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	c.ws.Close()
	close(c.done)
}

func (c *Conn) writeLoop() {
	for {
		select {
		case data, ok := <-c.sendCh:
			if !ok {
				return
			}
			metrics.MessageSent.Add(1)
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.room.logger.Warnf("conn %s: write error: %+v", c.id, err)
				c.Close(err.Error())
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) readLoop() {
	defer func() {
		c.room.postDisconnect(c)
	}()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		metrics.MessageRecv.Add(1)
		if len(data) > wire.MaxPayloadBytes {
			c.SendError("", wire.NewError(wire.ErrPayloadTooLarge, "message too large"))
			continue
		}
		in, err := wire.ParseInbound(data)
		if err != nil {
			c.SendError("", wire.NewError(wire.ErrBadRequest, "malformed envelope"))
			continue
		}
		c.room.postCommand(c, in)
	}
}
