package game

import (
	"math/rand"
	"sync"
)

// CablesPerPlayer 游戏开始时每名玩家的线缆数
const CablesPerPlayer = 5

// Outcome classifies the result of a single cut.
type Outcome int

const (
	OutcomeNothing Outcome = iota
	OutcomeRoundEnd
	OutcomeInvestigatorsWin
	OutcomeSaboteursWin
)

// Winner returns the winning team for terminal outcomes.
func (o Outcome) Winner() (Team, bool) {
	switch o {
	case OutcomeInvestigatorsWin:
		return TeamInvestigators, true
	case OutcomeSaboteursWin:
		return TeamSaboteurs, true
	default:
		return 0, false
	}
}

// Game is the playing phase of a room. Like Lobby, the embedded mutex is
// the room guard and every method below assumes the caller holds it.
type Game struct {
	sync.Mutex

	code              string
	players           map[uint32]*GamePlayer
	wireCutters       uint32
	defusingRemaining int
	cutThisRound      int
	finished          bool
}

// cableCounts returns the pool composition for a player count: one bomb,
// one defusing cable per player, safe cables filling up to five per head.
func cableCounts(playerCount int) (safe, defusing, bomb int) {
	defusing = playerCount
	bomb = 1
	safe = playerCount*CablesPerPlayer - defusing - bomb
	return safe, defusing, bomb
}

// teamSizes is the fixed team table by player count.
func teamSizes(playerCount int) (investigators, saboteurs int) {
	switch {
	case playerCount <= 5:
		return 3, 2
	case playerCount == 6:
		return 4, 2
	default:
		return 5, 3
	}
}

func newGame(code string, waiting map[uint32]*LobbyPlayer) *Game {
	investigators, saboteurs := teamSizes(len(waiting))
	teams := make([]Team, 0, investigators+saboteurs)
	for i := 0; i < investigators; i++ {
		teams = append(teams, TeamInvestigators)
	}
	for i := 0; i < saboteurs; i++ {
		teams = append(teams, TeamSaboteurs)
	}
	rand.Shuffle(len(teams), func(i, j int) {
		teams[i], teams[j] = teams[j], teams[i]
	})

	players := make(map[uint32]*GamePlayer, len(waiting))
	ids := make([]uint32, 0, len(waiting))
	i := 0
	for id, p := range waiting {
		players[id] = newGamePlayer(p, teams[i])
		ids = append(ids, id)
		i++
	}

	safe, defusing, bomb := cableCounts(len(players))
	cables := make([]Cable, 0, safe+defusing+bomb)
	for i := 0; i < safe; i++ {
		cables = append(cables, CableSafe)
	}
	for i := 0; i < defusing; i++ {
		cables = append(cables, CableDefusing)
	}
	for i := 0; i < bomb; i++ {
		cables = append(cables, CableBomb)
	}

	g := &Game{
		code:              code,
		players:           players,
		wireCutters:       ids[rand.Intn(len(ids))],
		defusingRemaining: defusing,
	}
	g.distributeCables(cables)

	return g
}

// distributeCables shuffles the pool and splits it into equal contiguous
// chunks, one per player. The pool size is always an exact multiple of
// the player count.
func (g *Game) distributeCables(cables []Cable) {
	rand.Shuffle(len(cables), func(i, j int) {
		cables[i], cables[j] = cables[j], cables[i]
	})

	perPlayer := len(cables) / len(g.players)
	for _, p := range g.players {
		cut := len(cables) - perPlayer
		p.setCables(cables[cut:])
		cables = cables[:cut]
	}
}

func (g *Game) Code() string {
	return g.code
}

// WireCutters returns the id of the current wire-cutter holder.
func (g *Game) WireCutters() uint32 {
	return g.wireCutters
}

func (g *Game) Player(id uint32) (*GamePlayer, bool) {
	p, exists := g.players[id]
	return p, exists
}

// Players returns a snapshot slice of the current players.
func (g *Game) Players() []*GamePlayer {
	out := make([]*GamePlayer, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, p)
	}
	return out
}

// TeamMembers returns the ids of every player on the given team.
func (g *Game) TeamMembers(team Team) []uint32 {
	out := make([]uint32, 0, len(g.players))
	for id, p := range g.players {
		if p.Team == team {
			out = append(out, id)
		}
	}
	return out
}

// Finish marks the game terminal. Raised before the Win broadcast so a
// stream attaching afterwards can tell a won game from a live one even
// though the Win event itself landed in its discarded backlog.
func (g *Game) Finish() {
	g.finished = true
}

func (g *Game) Finished() bool {
	return g.finished
}

// AnyAttached reports whether any player currently has a live stream.
func (g *Game) AnyAttached() bool {
	for _, p := range g.players {
		if p.Attached() {
			return true
		}
	}
	return false
}

// Cut removes one random cable from the target's hand and hands the wire
// cutter over to them. All counter mutation happens before the outcome is
// computed; a bomb short-circuits without touching the round counter.
func (g *Game) Cut(cutter, target uint32) (Cable, Outcome, error) {
	if cutter != g.wireCutters {
		return 0, OutcomeNothing, ErrDontHaveWireCutter
	}
	if target == cutter {
		return 0, OutcomeNothing, ErrCannotSelfCut
	}
	p, exists := g.players[target]
	if !exists {
		return 0, OutcomeNothing, ErrUnknownPlayer
	}

	cable := p.cutCable()
	g.wireCutters = target

	switch cable {
	case CableSafe:
		g.cutThisRound++
	case CableDefusing:
		g.defusingRemaining--
		g.cutThisRound++
	case CableBomb:
		return cable, OutcomeSaboteursWin, nil
	}

	if g.defusingRemaining == 0 {
		return cable, OutcomeInvestigatorsWin, nil
	}
	if g.cutThisRound == len(g.players) {
		return cable, OutcomeRoundEnd, nil
	}
	return cable, OutcomeNothing, nil
}

// NextRound pools the remaining hands and redistributes them evenly. It
// returns true when each player holds exactly one cable, i.e. there is
// nothing left to redistribute; the caller resolves that as a win for the
// saboteurs.
func (g *Game) NextRound() bool {
	g.cutThisRound = 0

	cables := make([]Cable, 0, len(g.players))
	for _, p := range g.players {
		cables = append(cables, p.cables...)
	}

	if len(cables) == len(g.players) {
		return true
	}

	g.distributeCables(cables)
	return false
}
