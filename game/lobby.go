package game

import "sync"

// MaxPlayers 每个房间的最大人数
const MaxPlayers = 8

// MinPlayers is the minimum player count required to start.
const MinPlayers = 4

// Lobby is the waiting phase of a room. The embedded mutex is the room
// guard: callers hold it for the whole of every check-and-mutate sequence
// (notably MayStart followed by Start). Registry locks are leaves and are
// never taken with any other lock already held by the registry itself, so
// acquiring them while the room guard is held cannot deadlock.
type Lobby struct {
	sync.Mutex

	code    string
	players map[uint32]*LobbyPlayer
	started bool
}

func NewLobby(code string) *Lobby {
	return &Lobby{
		code:    code,
		players: make(map[uint32]*LobbyPlayer),
	}
}

func (l *Lobby) Code() string {
	return l.code
}

// Join inserts a fresh player. The caller broadcasts the Join event. A
// consumed lobby rejects joins: its player map lives on in the game and
// its mailboxes are drained by game streams, so a late insert would leak
// lobby events onto them.
func (l *Lobby) Join(p *LobbyPlayer) error {
	if l.started {
		return ErrAlreadyStarted
	}
	if len(l.players) >= MaxPlayers {
		return ErrLobbyFull
	}
	if _, exists := l.players[p.ID]; exists {
		return ErrAlreadyPresent
	}
	l.players[p.ID] = p
	return nil
}

// SetReady flips the ready flag. Returns false if the player is absent or
// the lobby has already been consumed.
func (l *Lobby) SetReady(id uint32, ready bool) bool {
	if l.started {
		return false
	}
	p, exists := l.players[id]
	if !exists {
		return false
	}
	p.Ready = ready
	return true
}

// Leave removes the player unconditionally.
func (l *Lobby) Leave(id uint32) {
	delete(l.players, id)
}

func (l *Lobby) Player(id uint32) (*LobbyPlayer, bool) {
	p, exists := l.players[id]
	return p, exists
}

// Players returns a snapshot slice of the current players.
func (l *Lobby) Players() []*LobbyPlayer {
	out := make([]*LobbyPlayer, 0, len(l.players))
	for _, p := range l.players {
		out = append(out, p)
	}
	return out
}

func (l *Lobby) Empty() bool {
	return len(l.players) == 0
}

// Started reports whether this lobby has already been consumed by Start.
func (l *Lobby) Started() bool {
	return l.started
}

// MayStart is the sole start precondition. It is not re-validated inside
// Start; callers check and act under the same held room guard.
func (l *Lobby) MayStart() bool {
	if l.started || len(l.players) < MinPlayers {
		return false
	}
	for _, p := range l.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// Start consumes the lobby and builds the game under the same code. The
// caller removes the lobby from its registry and inserts the game into
// the game registry as part of the same critical section.
func (l *Lobby) Start() *Game {
	l.started = true
	return newGame(l.code, l.players)
}
