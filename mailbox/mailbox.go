// Package mailbox implements the per-player outbound queue. Sends never
// block and never fail for a live player; consumption is restricted to at
// most one attached reader at a time.
package mailbox

import (
	"errors"
	"sync"

	"github.com/wfunc/timebomb/event"
)

var ErrAlreadyAttached = errors.New("mailbox is already attached")

// Mailbox is an unbounded event queue with a single-consumer attachment
// slot. While detached, events still accumulate; attaching discards that
// backlog, because catch-up is done with a fresh snapshot, never by
// replaying stale events.
type Mailbox struct {
	mu       sync.Mutex
	queue    []event.Event
	attached bool
	notify   chan struct{}
}

func New() *Mailbox {
	return &Mailbox{
		notify: make(chan struct{}, 1),
	}
}

// Send enqueues an event. Safe to call from any goroutine, whether or not
// a reader is attached.
func (m *Mailbox) Send(ev event.Event) {
	m.mu.Lock()
	m.queue = append(m.queue, ev)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Attach claims the read end. Fails if a reader already holds it. Any
// backlog accumulated while detached is dropped.
func (m *Mailbox) Attach() (*Receiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attached {
		return nil, ErrAlreadyAttached
	}
	m.attached = true
	m.queue = nil

	// Drain a stale wakeup left over from a previous attachment.
	select {
	case <-m.notify:
	default:
	}

	return &Receiver{mailbox: m}, nil
}

// Detach returns the read end to the slot. Must run on every exit path of
// a consumer, regardless of how the stream ended.
func (m *Mailbox) Detach(r *Receiver) {
	if r == nil || r.mailbox != m {
		return
	}
	m.mu.Lock()
	m.attached = false
	r.mailbox = nil
	m.mu.Unlock()
}

// Attached reports whether a live reader currently holds the read end.
func (m *Mailbox) Attached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attached
}

// Receiver is the single read end of a Mailbox.
type Receiver struct {
	mailbox *Mailbox
}

// Recv returns the next queued event, blocking until one arrives or the
// stop channel fires. The second result is false when stopped.
func (r *Receiver) Recv(stop <-chan struct{}) (event.Event, bool) {
	for {
		r.mailbox.mu.Lock()
		if len(r.mailbox.queue) > 0 {
			ev := r.mailbox.queue[0]
			r.mailbox.queue = r.mailbox.queue[1:]
			r.mailbox.mu.Unlock()
			return ev, true
		}
		r.mailbox.mu.Unlock()

		select {
		case <-r.mailbox.notify:
		case <-stop:
			return nil, false
		}
	}
}
