package ws

import (
	"sync"
	"time"

	"github.com/playverse/room-service/internal/broadcast"

	"github.com/gorilla/websocket"
)

type wsConn struct {
	conn   *websocket.Conn
	roomID string
	userID int64
	sendMu chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

var _ broadcast.Conn = (*wsConn)(nil)

func newWsConn(c *websocket.Conn, roomID string, userID int64) *wsConn {
	return &wsConn{
		conn:   c,
		roomID: roomID,
		userID: userID,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg broadcast.Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return c.conn.Close()
}

func (c *wsConn) Open() bool {
	select {
	case <-c.closed:
		return false
	default:
		return true
	}
}

func (c *wsConn) UserID() int64  { return c.userID }
func (c *wsConn) RoomID() string { return c.roomID }
