package server

import (
	"net/http"
	"strconv"

	"github.com/wfunc/timebomb/event"
	"github.com/wfunc/timebomb/game"
	"github.com/wfunc/timebomb/logger"
	"github.com/wfunc/timebomb/room"
)

func gamePlayerData(p *game.GamePlayer) event.GamePlayerData {
	return event.GamePlayerData{
		ID:             p.ID,
		Name:           p.Name,
		RevealedCables: game.CableNames(p.Revealed()),
		Connected:      p.Attached(),
	}
}

// handleGameEvents attaches a player's stream to their game mailbox. Any
// backlog from a previous attachment is discarded; catch-up is the fresh
// Initialize snapshot plus the personal RoundStart.
func (s *GameServer) handleGameEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	st := s.newStream(conn)
	defer st.end()

	sess, ok := s.sessionFrom(r)
	if !ok {
		_ = st.ws.WriteEvent(event.Error{Reason: "You are not in a game"})
		return
	}
	g, exists := s.games.Get(sess.RoomCode)
	if !exists {
		_ = st.ws.WriteEvent(event.Error{Reason: "You are not in a game"})
		return
	}

	g.Lock()
	player, present := g.Player(sess.PlayerID)
	g.Unlock()
	if !present {
		_ = st.ws.WriteEvent(event.Error{Reason: "You are not part of this game"})
		return
	}

	rx, attachErr := player.Mailbox().Attach()
	if attachErr != nil {
		_ = st.ws.WriteEvent(event.Error{Reason: "You are already connected to this game"})
		return
	}

	// A win that fired between the registry lookup and the attach left its
	// Win event in the discarded backlog; re-check so the pump never waits
	// on a mailbox nothing will write to again.
	g.Lock()
	finished := g.Finished()
	g.Unlock()
	if finished {
		player.Mailbox().Detach(rx)
		_ = st.ws.WriteEvent(event.Error{Reason: "You are not in a game"})
		return
	}

	s.monitor.IncConnectedPlayers()
	defer s.monitor.DecConnectedPlayers()

	g.Lock()
	players := make([]event.GamePlayerData, 0, len(g.Players()))
	for _, p := range g.Players() {
		players = append(players, gamePlayerData(p))
	}
	init := event.GameInit{
		Lobby:       sess.RoomCode,
		Players:     players,
		Team:        player.Team.String(),
		WireCutters: g.WireCutters(),
	}
	hand := player.Cables()
	g.Unlock()

	_ = st.ws.WriteEvent(init)
	_ = st.ws.WriteEvent(event.RoundStart{Cables: game.CableNames(hand)})
	s.broadcaster.ToGame(g, event.Connect{Player: sess.PlayerID})
	logger.Log.Infof("Player %d attached to game %s", sess.PlayerID, sess.RoomCode)

	for {
		ev, alive := rx.Recv(st.stop)
		if !alive {
			if st.serverClosed() {
				_ = st.ws.WriteEvent(event.Error{Reason: "Server closed"})
			}
			break
		}
		if err := st.ws.WriteEvent(ev); err != nil {
			break
		}
		if _, won := ev.(event.Win); won {
			break
		}
	}

	// Disconnect is broadcast before the read end goes back, mirroring the
	// attach path where Connect follows the snapshot.
	s.broadcaster.ToGame(g, event.Disconnect{Player: sess.PlayerID})
	player.Mailbox().Detach(rx)
	logger.Log.Infof("Player %d detached from game %s", sess.PlayerID, sess.RoomCode)

	g.Lock()
	lastOut := !g.AnyAttached()
	g.Unlock()

	if lastOut {
		s.timers.AddTimer(s.cfg.Rooms.AbandonedGameGrace, 0, func() {
			s.sweepAbandonedGame(sess.RoomCode)
		})
	}
}

func (s *GameServer) handleCut(w http.ResponseWriter, r *http.Request) {
	target, err := strconv.ParseUint(r.URL.Query().Get("player"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	sess, ok := s.sessionFrom(r)
	if !ok {
		writeError(w, http.StatusNotFound, "you are not in a game")
		return
	}
	g, exists := s.games.Get(sess.RoomCode)
	if !exists {
		writeError(w, http.StatusNotFound, room.ErrUnknownRoom.Error())
		return
	}

	cable, outcome, cutErr := s.runCut(g, sess.PlayerID, uint32(target))
	if cutErr != nil {
		writeError(w, statusFor(cutErr), cutErr.Error())
		return
	}

	s.monitor.IncCuts()
	logger.Log.Infof("Game %s: player %d cut %s on player %d",
		sess.RoomCode, sess.PlayerID, cable, target)

	s.broadcaster.ToGame(g, event.Cut{Player: uint32(target), Cable: cable.String()})

	switch outcome {
	case game.OutcomeNothing:
	case game.OutcomeRoundEnd:
		g.Lock()
		exhausted := g.NextRound()
		g.Unlock()
		if exhausted {
			// Down to one cable per player with nothing left to deal: the
			// saboteurs take it.
			s.gameWon(g, game.TeamSaboteurs)
		} else {
			s.broadcaster.RoundStart(g)
		}
	default:
		team, _ := outcome.Winner()
		s.gameWon(g, team)
	}

	writeJSON(w, http.StatusOK, map[string]string{"cable": cable.String()})
}

// runCut resolves one cut under the room guard. The guard is released by
// defer so a broken-invariant panic inside the engine surfaces as a failed
// request instead of leaving the room permanently locked.
func (s *GameServer) runCut(g *game.Game, cutter, target uint32) (game.Cable, game.Outcome, error) {
	g.Lock()
	defer g.Unlock()

	if _, present := g.Player(cutter); !present {
		return 0, game.OutcomeNothing, game.ErrUnknownPlayer
	}
	return g.Cut(cutter, target)
}

// gameWon broadcasts the terminal Win event and tears the room down. The
// Win event closes every attached stream. The finished flag goes up before
// the broadcast: a stream attaching later either sees the flag or gets the
// Win delivered post-attach, never neither.
func (s *GameServer) gameWon(g *game.Game, team game.Team) {
	g.Lock()
	g.Finish()
	winners := g.TeamMembers(team)
	g.Unlock()

	s.broadcaster.ToGame(g, event.Win{Team: team.String(), Players: winners})

	code := g.Code()
	s.games.Remove(code)
	s.sessions.RemoveByRoom(code)
	s.monitor.SetActiveGames(s.games.Len())
	s.monitor.GameFinished(team.String())
	logger.Log.Infof("Game %s won by %s", code, team)
}

// sweepAbandonedGame re-checks attachment state at fire time through the
// registry, never through a retained handle, so a game revived by a
// reconnect is left alone and a sweep never keeps a dead game alive.
func (s *GameServer) sweepAbandonedGame(code string) {
	g, exists := s.games.Get(code)
	if !exists {
		return
	}

	g.Lock()
	abandoned := !g.AnyAttached()
	g.Unlock()

	if abandoned {
		s.games.Remove(code)
		s.sessions.RemoveByRoom(code)
		s.monitor.SetActiveGames(s.games.Len())
		logger.Log.Infof("Game %s swept (fully detached past grace window)", code)
	}
}
