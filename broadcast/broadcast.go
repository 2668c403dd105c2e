// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/timebomb/event"
	"github.com/wfunc/timebomb/game"
	"github.com/wfunc/timebomb/monitor"
)

// Broadcaster fans events out through player mailboxes. Methods acquire
// the room guard themselves; callers must not hold it.
type Broadcaster interface {
	ToLobby(l *game.Lobby, ev event.Event)
	ToGame(g *game.Game, ev event.Event)
	RoundStart(g *game.Game)
}

// RoomBroadcaster 基于邮箱的房间广播器
type RoomBroadcaster struct {
	monitor *monitor.Monitor
}

func NewRoomBroadcaster(monitor *monitor.Monitor) *RoomBroadcaster {
	return &RoomBroadcaster{monitor: monitor}
}

func (b *RoomBroadcaster) ToLobby(l *game.Lobby, ev event.Event) {
	l.Lock()
	players := l.Players()
	l.Unlock()

	for _, p := range players {
		p.Mailbox().Send(ev)
		b.monitor.IncEventsSent()
	}
}

func (b *RoomBroadcaster) ToGame(g *game.Game, ev event.Event) {
	g.Lock()
	players := g.Players()
	g.Unlock()

	for _, p := range players {
		p.Mailbox().Send(ev)
		b.monitor.IncEventsSent()
	}
}

// RoundStart delivers each player their own hand. Payloads differ per
// recipient, so this is never a shared broadcast.
func (b *RoomBroadcaster) RoundStart(g *game.Game) {
	g.Lock()
	players := g.Players()
	hands := make([][]game.Cable, len(players))
	for i, p := range players {
		hands[i] = p.Cables()
	}
	g.Unlock()

	for i, p := range players {
		p.Mailbox().Send(event.RoundStart{Cables: game.CableNames(hands[i])})
		b.monitor.IncEventsSent()
	}
}
