package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/timebomb/event"
)

func recvWithTimeout(t *testing.T, rx *Receiver) event.Event {
	t.Helper()
	stop := make(chan struct{})
	timer := time.AfterFunc(time.Second, func() { close(stop) })
	defer timer.Stop()

	ev, ok := rx.Recv(stop)
	require.True(t, ok, "expected an event before the timeout")
	return ev
}

func TestSendThenRecv(t *testing.T) {
	m := New()
	rx, err := m.Attach()
	require.NoError(t, err)

	m.Send(event.Ready{Player: 1, State: true})
	m.Send(event.Leave{Player: 2})

	assert.Equal(t, event.Ready{Player: 1, State: true}, recvWithTimeout(t, rx))
	assert.Equal(t, event.Leave{Player: 2}, recvWithTimeout(t, rx))
}

func TestSendNeverBlocksWhileDetached(t *testing.T) {
	m := New()
	for i := 0; i < 10000; i++ {
		m.Send(event.Cut{Player: uint32(i), Cable: "safe"})
	}
}

func TestAttachDiscardsBacklog(t *testing.T) {
	m := New()

	// Events accumulated while detached are stale; after a reattach the
	// consumer only sees what arrives afterwards.
	m.Send(event.Leave{Player: 1})
	m.Send(event.Leave{Player: 2})

	rx, err := m.Attach()
	require.NoError(t, err)

	m.Send(event.Connect{Player: 3})
	assert.Equal(t, event.Connect{Player: 3}, recvWithTimeout(t, rx))
}

func TestSecondAttachFails(t *testing.T) {
	m := New()
	rx, err := m.Attach()
	require.NoError(t, err)

	_, err = m.Attach()
	assert.ErrorIs(t, err, ErrAlreadyAttached)
	assert.True(t, m.Attached())

	m.Detach(rx)
	assert.False(t, m.Attached())

	_, err = m.Attach()
	assert.NoError(t, err)
}

func TestDetachReattachCycle(t *testing.T) {
	m := New()

	rx, err := m.Attach()
	require.NoError(t, err)
	m.Send(event.Connect{Player: 1})
	assert.Equal(t, event.Connect{Player: 1}, recvWithTimeout(t, rx))
	m.Detach(rx)

	// Queued while detached, dropped at the next attach.
	m.Send(event.Disconnect{Player: 1})

	rx2, err := m.Attach()
	require.NoError(t, err)
	m.Send(event.Connect{Player: 2})
	assert.Equal(t, event.Connect{Player: 2}, recvWithTimeout(t, rx2))
}

func TestRecvStops(t *testing.T) {
	m := New()
	rx, err := m.Attach()
	require.NoError(t, err)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := rx.Recv(stop)
		assert.False(t, ok)
	}()

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Recv did not observe the stop signal")
	}
}

func TestConcurrentSenders(t *testing.T) {
	m := New()
	rx, err := m.Attach()
	require.NoError(t, err)

	const senders, perSender = 8, 100
	for i := 0; i < senders; i++ {
		go func() {
			for j := 0; j < perSender; j++ {
				m.Send(event.Cut{Cable: "safe"})
			}
		}()
	}

	for i := 0; i < senders*perSender; i++ {
		recvWithTimeout(t, rx)
	}
}
