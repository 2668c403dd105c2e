package game

import (
	"math/rand"

	"github.com/wfunc/timebomb/mailbox"
)

// LobbyPlayer 大厅玩家：身份 + 准备标记 + 邮箱
// Identity fields are immutable after creation; only the ready flag moves.
type LobbyPlayer struct {
	ID    uint32
	Name  string
	Ready bool

	mailbox *mailbox.Mailbox
}

func NewLobbyPlayer(id uint32, name string) *LobbyPlayer {
	return &LobbyPlayer{
		ID:      id,
		Name:    name,
		mailbox: mailbox.New(),
	}
}

func (p *LobbyPlayer) Mailbox() *mailbox.Mailbox {
	return p.mailbox
}

// GamePlayer 游戏玩家：队伍、手牌、已剪线缆历史
// The mailbox is carried over from the lobby phase so a player keeps a
// single logical session across the transition.
type GamePlayer struct {
	ID   uint32
	Name string
	Team Team

	cables   []Cable
	revealed []Cable

	mailbox *mailbox.Mailbox
}

func newGamePlayer(p *LobbyPlayer, team Team) *GamePlayer {
	return &GamePlayer{
		ID:      p.ID,
		Name:    p.Name,
		Team:    team,
		mailbox: p.mailbox,
	}
}

func (p *GamePlayer) Mailbox() *mailbox.Mailbox {
	return p.mailbox
}

// Attached mirrors the mailbox attachment state.
func (p *GamePlayer) Attached() bool {
	return p.mailbox.Attached()
}

// Cables returns a copy of the player's current hand.
func (p *GamePlayer) Cables() []Cable {
	out := make([]Cable, len(p.cables))
	copy(out, p.cables)
	return out
}

// Revealed returns a copy of the cables this player has had cut.
func (p *GamePlayer) Revealed() []Cable {
	out := make([]Cable, len(p.revealed))
	copy(out, p.revealed)
	return out
}

func (p *GamePlayer) setCables(cables []Cable) {
	p.cables = cables
}

// cutCable removes one cable uniformly at random from the hand and records
// it in the revealed history. The cutter never chooses which wire comes
// out; the hand is shuffled first and the last cable popped.
func (p *GamePlayer) cutCable() Cable {
	if len(p.cables) == 0 {
		// Broken invariant: every player is cut at most once per round and
		// hands are refilled before they can empty.
		panic("game: cut on an empty hand")
	}

	rand.Shuffle(len(p.cables), func(i, j int) {
		p.cables[i], p.cables[j] = p.cables[j], p.cables[i]
	})

	cut := p.cables[len(p.cables)-1]
	p.cables = p.cables[:len(p.cables)-1]
	p.revealed = append(p.revealed, cut)
	return cut
}
