package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledLobby(t *testing.T, code string, n int) *Lobby {
	t.Helper()
	l := NewLobby(code)
	for i := 0; i < n; i++ {
		p := NewLobbyPlayer(uint32(i+1), fmt.Sprintf("player-%d", i+1))
		require.NoError(t, l.Join(p))
	}
	return l
}

func TestLobbyJoin(t *testing.T) {
	l := NewLobby("AAAA")

	require.NoError(t, l.Join(NewLobbyPlayer(1, "alice")))
	require.NoError(t, l.Join(NewLobbyPlayer(2, "bob")))

	p, exists := l.Player(1)
	require.True(t, exists)
	assert.Equal(t, "alice", p.Name)
	assert.False(t, p.Ready)
}

func TestLobbyJoinDuplicateID(t *testing.T) {
	l := NewLobby("AAAA")

	require.NoError(t, l.Join(NewLobbyPlayer(1, "alice")))
	err := l.Join(NewLobbyPlayer(1, "impostor"))
	assert.ErrorIs(t, err, ErrAlreadyPresent)
}

func TestLobbyJoinFull(t *testing.T) {
	l := filledLobby(t, "AAAA", MaxPlayers)

	err := l.Join(NewLobbyPlayer(99, "latecomer"))
	assert.ErrorIs(t, err, ErrLobbyFull)
}

func TestLobbySetReady(t *testing.T) {
	l := filledLobby(t, "AAAA", 2)

	assert.True(t, l.SetReady(1, true))
	p, _ := l.Player(1)
	assert.True(t, p.Ready)

	assert.True(t, l.SetReady(1, false))
	assert.False(t, p.Ready)

	// Absent players are a no-op.
	assert.False(t, l.SetReady(42, true))
}

func TestLobbyLeave(t *testing.T) {
	l := filledLobby(t, "AAAA", 2)

	l.Leave(1)
	_, exists := l.Player(1)
	assert.False(t, exists)
	assert.False(t, l.Empty())

	l.Leave(2)
	assert.True(t, l.Empty())

	// Leaving twice is harmless.
	l.Leave(2)
}

func TestLobbyMayStart(t *testing.T) {
	l := filledLobby(t, "AAAA", 3)
	for _, p := range l.Players() {
		l.SetReady(p.ID, true)
	}
	assert.False(t, l.MayStart(), "three players are not enough")

	require.NoError(t, l.Join(NewLobbyPlayer(4, "dave")))
	assert.False(t, l.MayStart(), "the fourth player is not ready yet")

	l.SetReady(4, true)
	assert.True(t, l.MayStart())

	l.SetReady(2, false)
	assert.False(t, l.MayStart())
}

func TestLobbyStartConsumes(t *testing.T) {
	l := filledLobby(t, "AAAA", 4)
	for _, p := range l.Players() {
		l.SetReady(p.ID, true)
	}
	require.True(t, l.MayStart())

	g := l.Start()
	require.NotNil(t, g)
	assert.Equal(t, "AAAA", g.Code())

	assert.True(t, l.Started())
	assert.False(t, l.MayStart(), "a consumed lobby can never start again")
}

func TestLobbyConsumedRejectsJoinAndReady(t *testing.T) {
	l := filledLobby(t, "AAAA", 4)
	for _, p := range l.Players() {
		l.SetReady(p.ID, true)
	}
	require.NotNil(t, l.Start())

	// The player map lives on in the game; a late join through a stale
	// handle must bounce instead of inserting alongside the game players.
	err := l.Join(NewLobbyPlayer(99, "latecomer"))
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	_, exists := l.Player(99)
	assert.False(t, exists)

	assert.False(t, l.SetReady(1, false), "a consumed lobby accepts no ready toggles")
	p, _ := l.Player(1)
	assert.True(t, p.Ready, "the flag stays untouched")
}

func TestLobbyStartScenario(t *testing.T) {
	// Four ready players: the game comes up with every player assigned,
	// both teams present, and the wire cutter held by one of the four.
	l := filledLobby(t, "AAAA", 4)
	for _, p := range l.Players() {
		l.SetReady(p.ID, true)
	}
	g := l.Start()

	players := g.Players()
	require.Len(t, players, 4)

	investigators := len(g.TeamMembers(TeamInvestigators))
	saboteurs := len(g.TeamMembers(TeamSaboteurs))
	assert.Equal(t, 4, investigators+saboteurs)
	assert.NotZero(t, investigators)
	assert.NotZero(t, saboteurs)

	_, holderPresent := g.Player(g.WireCutters())
	assert.True(t, holderPresent, "wire cutter holder must be a player")

	// The lobby players carry their mailboxes into the game.
	for _, p := range players {
		assert.NotNil(t, p.Mailbox())
	}
}
