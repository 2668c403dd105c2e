package broadcast

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/timebomb/event"
	"github.com/wfunc/timebomb/game"
	"github.com/wfunc/timebomb/mailbox"
	"github.com/wfunc/timebomb/monitor"
)

// One monitor for the whole binary; the prometheus default registry
// rejects duplicate collectors.
var testMonitor = monitor.NewMonitor("timebomb_broadcast_test")

func recvWithTimeout(t *testing.T, rx *mailbox.Receiver) event.Event {
	t.Helper()
	stop := make(chan struct{})
	timer := time.AfterFunc(time.Second, func() { close(stop) })
	defer timer.Stop()

	ev, ok := rx.Recv(stop)
	require.True(t, ok, "expected an event before the timeout")
	return ev
}

func testLobby(t *testing.T, n int) *game.Lobby {
	t.Helper()
	l := game.NewLobby("CAST")
	for i := 0; i < n; i++ {
		p := game.NewLobbyPlayer(uint32(i+1), fmt.Sprintf("player-%d", i+1))
		require.NoError(t, l.Join(p))
		l.SetReady(p.ID, true)
	}
	return l
}

func TestToLobbyFanOut(t *testing.T) {
	b := NewRoomBroadcaster(testMonitor)
	l := testLobby(t, 4)

	receivers := make(map[uint32]*mailbox.Receiver)
	for _, p := range l.Players() {
		rx, err := p.Mailbox().Attach()
		require.NoError(t, err)
		receivers[p.ID] = rx
	}

	b.ToLobby(l, event.Ready{Player: 2, State: true})

	for id, rx := range receivers {
		ev := recvWithTimeout(t, rx)
		assert.Equal(t, event.Ready{Player: 2, State: true}, ev, "player %d", id)
	}
}

func TestToLobbyDetachedPlayersMissNothing(t *testing.T) {
	b := NewRoomBroadcaster(testMonitor)
	l := testLobby(t, 4)

	players := l.Players()
	rx, err := players[0].Mailbox().Attach()
	require.NoError(t, err)

	// The other three are detached; delivery to them queues silently and
	// the attached player still gets the event.
	b.ToLobby(l, event.Leave{Player: 99})
	assert.Equal(t, event.Leave{Player: 99}, recvWithTimeout(t, rx))
}

func TestToGameFanOut(t *testing.T) {
	b := NewRoomBroadcaster(testMonitor)
	l := testLobby(t, 4)
	g := l.Start()

	receivers := make([]*mailbox.Receiver, 0, 4)
	for _, p := range g.Players() {
		rx, err := p.Mailbox().Attach()
		require.NoError(t, err)
		receivers = append(receivers, rx)
	}

	b.ToGame(g, event.Cut{Player: 1, Cable: "safe"})

	for _, rx := range receivers {
		assert.Equal(t, event.Cut{Player: 1, Cable: "safe"}, recvWithTimeout(t, rx))
	}
}

func TestRoundStartDeliversOwnHand(t *testing.T) {
	b := NewRoomBroadcaster(testMonitor)
	l := testLobby(t, 4)
	g := l.Start()

	type sub struct {
		player *game.GamePlayer
		rx     *mailbox.Receiver
	}
	subs := make([]sub, 0, 4)
	for _, p := range g.Players() {
		rx, err := p.Mailbox().Attach()
		require.NoError(t, err)
		subs = append(subs, sub{player: p, rx: rx})
	}

	b.RoundStart(g)

	for _, s := range subs {
		ev := recvWithTimeout(t, s.rx)
		rs, ok := ev.(event.RoundStart)
		require.True(t, ok, "expected a round_start event, got %T", ev)

		g.Lock()
		want := game.CableNames(s.player.Cables())
		g.Unlock()
		assert.Equal(t, want, rs.Cables, "each player sees exactly their own hand")
	}
}
