package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/timebomb/network"
)

// stream bundles one live event stream: the wrapped connection, a ping
// loop, and a single stop channel that fires on client disconnect, process
// shutdown, or pump completion. A connection pump suspends only on its
// mailbox receiver and this stop channel, never while holding a room lock.
type stream struct {
	ws       *network.WSConnection
	stop     chan struct{}
	pumpDone chan struct{}
	shutdown <-chan struct{}
	once     sync.Once
}

func (s *GameServer) newStream(conn *websocket.Conn) *stream {
	st := &stream{
		ws:       network.NewWSConnection(conn),
		stop:     make(chan struct{}),
		pumpDone: make(chan struct{}),
		shutdown: s.shutdownChan,
	}

	// The client never sends data frames, but the connection must still be
	// read so close and pong frames are processed.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer close(st.stop)
		select {
		case <-st.shutdown:
		case <-readerDone:
		case <-st.pumpDone:
		}
	}()

	go func() {
		ticker := time.NewTicker(s.cfg.Server.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if st.ws.Ping() != nil {
					return
				}
			case <-st.stop:
				return
			}
		}
	}()

	return st
}

// end tears the stream down. Safe to call from any exit path.
func (st *stream) end() {
	st.once.Do(func() {
		close(st.pumpDone)
	})
	_ = st.ws.Close()
}

// serverClosed reports whether the process-wide shutdown signal fired.
// The shutdown race is allowed to win at any point, including mid-stream.
func (st *stream) serverClosed() bool {
	select {
	case <-st.shutdown:
		return true
	default:
		return false
	}
}
