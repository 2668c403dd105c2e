// Package event defines the typed domain events fanned out to player
// mailboxes. Field shapes and event names are the wire contract consumed
// by the web client; serialization itself happens at the network layer.
package event

// Event is a single tagged state-change notification.
type Event interface {
	Name() string
}

// LobbyPlayerData is the lobby-phase view of a player.
type LobbyPlayerData struct {
	ID    uint32 `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// GamePlayerData is the game-phase view of a player. Hands are never
// included here; each player learns only their own hand via RoundStart.
type GamePlayerData struct {
	ID             uint32   `json:"id"`
	Name           string   `json:"name"`
	RevealedCables []string `json:"revealed_cables"`
	Connected      bool     `json:"connected"`
}

// Error is reported to a single player, never broadcast.
type Error struct {
	Reason string `json:"reason"`
}

func (Error) Name() string { return "error" }

// LobbyInit is the snapshot sent to a player attaching to a lobby stream.
type LobbyInit struct {
	Lobby   string            `json:"lobby"`
	Players []LobbyPlayerData `json:"players"`
}

func (LobbyInit) Name() string { return "init" }

type Join struct {
	Player LobbyPlayerData `json:"player"`
}

func (Join) Name() string { return "join" }

type Leave struct {
	Player uint32 `json:"player"`
}

func (Leave) Name() string { return "leave" }

type Ready struct {
	Player uint32 `json:"player"`
	State  bool   `json:"state"`
}

func (Ready) Name() string { return "ready" }

// Start tells lobby streams to close and reconnect on the game endpoint.
type Start struct{}

func (Start) Name() string { return "start" }

// GameInit is the snapshot sent to a player attaching to a game stream.
// Team is the recipient's own team; other allegiances stay hidden.
type GameInit struct {
	Lobby       string           `json:"lobby"`
	Players     []GamePlayerData `json:"players"`
	Team        string           `json:"team"`
	WireCutters uint32           `json:"wire_cutters"`
}

func (GameInit) Name() string { return "init" }

type Connect struct {
	Player uint32 `json:"player"`
}

func (Connect) Name() string { return "connect" }

type Disconnect struct {
	Player uint32 `json:"player"`
}

func (Disconnect) Name() string { return "disconnect" }

// RoundStart carries the recipient's own hand. It is built per player and
// must never be delivered as a shared broadcast.
type RoundStart struct {
	Cables []string `json:"cables"`
}

func (RoundStart) Name() string { return "round_start" }

type Cut struct {
	Player uint32 `json:"player"`
	Cable  string `json:"cable"`
}

func (Cut) Name() string { return "cut" }

type Win struct {
	Team    string   `json:"team"`
	Players []uint32 `json:"players"`
}

func (Win) Name() string { return "win" }

// SelfLeave is an in-process signal telling a player's own lobby stream to
// terminate. It never reaches the wire.
type SelfLeave struct{}

func (SelfLeave) Name() string { return "self_leave" }
