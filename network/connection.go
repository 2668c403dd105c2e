// network/connection.go
package network

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/timebomb/event"
)

// Frame is the wire envelope: the event name plus its payload.
type Frame struct {
	Event string      `json:"event"`
	Data  event.Event `json:"data"`
}

type Connection interface {
	WriteEvent(ev event.Event) error
	Ping() error
	Close() error
	RemoteAddr() net.Addr
}

const writeTimeout = 10 * time.Second

// WSConnection wraps a websocket connection with a write mutex so event
// pumps and ping tickers can share it.
type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) WriteEvent(ev event.Event) error {
	data, err := json.Marshal(Frame{Event: ev.Name(), Data: ev})
	if err != nil {
		return err
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *WSConnection) Ping() error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
