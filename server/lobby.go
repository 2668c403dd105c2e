package server

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/wfunc/timebomb/event"
	"github.com/wfunc/timebomb/game"
	"github.com/wfunc/timebomb/logger"
	"github.com/wfunc/timebomb/room"
)

func lobbyPlayerData(p *game.LobbyPlayer) event.LobbyPlayerData {
	return event.LobbyPlayerData{
		ID:    p.ID,
		Name:  p.Name,
		Ready: p.Ready,
	}
}

// handleCreateLobby generates a collision-free code, registers an empty
// lobby, schedules the never-joined sweep and then behaves as a join.
func (s *GameServer) handleCreateLobby(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing player name")
		return
	}

	var code string
	for {
		code = room.GenerateCode(s.cfg.Rooms.CodeLength, func(c string) bool {
			return s.lobbies.Contains(c) || s.games.Contains(c)
		})
		if s.games.Contains(code) {
			continue
		}
		if s.lobbies.Insert(code, game.NewLobby(code)) {
			break
		}
	}
	s.monitor.SetActiveLobbies(s.lobbies.Len())
	logger.Log.Infof("Lobby %s created", code)

	// A lobby nobody ever joined is removed after a short grace window.
	s.timers.AddTimer(s.cfg.Rooms.EmptyLobbyGrace, 0, func() {
		s.sweepEmptyLobby(code)
	})

	s.joinLobby(w, code, name)
}

func (s *GameServer) handleJoinLobby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := strings.ToUpper(query.Get("lobby"))
	name := query.Get("name")
	if code == "" || name == "" {
		writeError(w, http.StatusBadRequest, "missing lobby code or player name")
		return
	}

	s.joinLobby(w, code, name)
}

// joinLobby allocates a player id unique within the room and binds it to a
// fresh session. The player object itself is created when the event stream
// attaches.
func (s *GameServer) joinLobby(w http.ResponseWriter, code, name string) {
	l, exists := s.lobbies.Get(code)
	if !exists {
		writeError(w, http.StatusNotFound, room.ErrUnknownRoom.Error())
		return
	}

	l.Lock()
	id := rand.Uint32()
	for {
		if _, taken := l.Player(id); !taken {
			break
		}
		id = rand.Uint32()
	}
	l.Unlock()

	sess := s.newSession(w, code, id, name)
	logger.Log.Infof("Player %d (%s) joined lobby %s, session %s", id, name, code, sess.ID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lobby":  code,
		"player": id,
	})
}

func (s *GameServer) handleReady(w http.ResponseWriter, r *http.Request) {
	state, err := strconv.ParseBool(r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ready state")
		return
	}

	sess, ok := s.sessionFrom(r)
	if !ok {
		writeError(w, http.StatusNotFound, "you are not in a lobby")
		return
	}
	l, exists := s.lobbies.Get(sess.RoomCode)
	if !exists {
		writeError(w, http.StatusNotFound, room.ErrUnknownRoom.Error())
		return
	}

	l.Lock()
	changed := l.SetReady(sess.PlayerID, state)
	l.Unlock()

	if changed {
		s.broadcaster.ToLobby(l, event.Ready{Player: sess.PlayerID, State: state})
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ready": state})
}

// handleLeaveLobby signals the player's own stream to terminate; the
// stream's cleanup path does the removal and the Leave broadcast.
func (s *GameServer) handleLeaveLobby(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(r)
	if ok {
		if l, exists := s.lobbies.Get(sess.RoomCode); exists {
			l.Lock()
			p, present := l.Player(sess.PlayerID)
			started := l.Started()
			l.Unlock()
			// A lobby consumed inside this window has its mailboxes on
			// game streams; the self-leave signal must not reach them.
			if present && !started {
				p.Mailbox().Send(event.SelfLeave{})
			}
		}
		s.sessions.Remove(sess.ID)
	}

	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"left": true})
}

// handleStartLobby runs the lobby→game transition. The precondition check,
// the team and cable deal, and the registry move all happen under the one
// held room guard, so two concurrent starts can never both pass.
func (s *GameServer) handleStartLobby(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(r)
	if !ok {
		writeError(w, http.StatusNotFound, "you are not in a lobby")
		return
	}
	code := sess.RoomCode

	l, exists := s.lobbies.Get(code)
	if !exists {
		writeError(w, http.StatusNotFound, room.ErrUnknownRoom.Error())
		return
	}

	l.Lock()
	if !l.MayStart() {
		l.Unlock()
		writeError(w, statusFor(game.ErrNotReady), game.ErrNotReady.Error())
		return
	}
	g := l.Start()
	s.lobbies.Remove(code)
	s.games.Insert(code, g)
	l.Unlock()

	s.monitor.SetActiveLobbies(s.lobbies.Len())
	s.monitor.SetActiveGames(s.games.Len())
	logger.Log.Infof("Lobby %s started with %d players", code, len(g.Players()))

	s.broadcaster.ToLobby(l, event.Start{})

	// If nobody shows up on the game endpoint, the game is swept.
	s.timers.AddTimer(s.cfg.Rooms.PostStartGrace, 0, func() {
		s.sweepAbandonedGame(code)
	})

	writeJSON(w, http.StatusOK, map[string]string{"game": code})
}

// handleLobbyEvents is the lobby-phase stream: it creates the player,
// joins the room, snapshots, and pumps the mailbox until the stream ends.
func (s *GameServer) handleLobbyEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	st := s.newStream(conn)
	defer st.end()

	sess, ok := s.sessionFrom(r)
	if !ok {
		_ = st.ws.WriteEvent(event.Error{Reason: "You are not in a lobby"})
		return
	}
	l, exists := s.lobbies.Get(sess.RoomCode)
	if !exists {
		_ = st.ws.WriteEvent(event.Error{Reason: "You are not in a lobby"})
		return
	}

	player := game.NewLobbyPlayer(sess.PlayerID, sess.PlayerName)

	l.Lock()
	joinErr := l.Join(player)
	var snapshot []event.LobbyPlayerData
	if joinErr == nil {
		for _, p := range l.Players() {
			snapshot = append(snapshot, lobbyPlayerData(p))
		}
	}
	l.Unlock()

	if joinErr != nil {
		_ = st.ws.WriteEvent(event.Error{Reason: joinErr.Error()})
		return
	}

	rx, attachErr := player.Mailbox().Attach()
	if attachErr != nil {
		_ = st.ws.WriteEvent(event.Error{Reason: attachErr.Error()})
		return
	}

	s.monitor.IncConnectedPlayers()
	defer s.monitor.DecConnectedPlayers()

	_ = st.ws.WriteEvent(event.LobbyInit{Lobby: sess.RoomCode, Players: snapshot})
	s.broadcaster.ToLobby(l, event.Join{Player: lobbyPlayerData(player)})

	startedGame := false
	for {
		ev, alive := rx.Recv(st.stop)
		if !alive {
			if st.serverClosed() {
				_ = st.ws.WriteEvent(event.Error{Reason: "Server closed"})
			}
			break
		}
		if _, leave := ev.(event.SelfLeave); leave {
			break
		}
		if err := st.ws.WriteEvent(ev); err != nil {
			break
		}
		if _, started := ev.(event.Start); started {
			startedGame = true
			break
		}
	}

	// Detach before any cleanup so a game-phase attach on the same mailbox
	// can succeed immediately after Start.
	player.Mailbox().Detach(rx)

	if startedGame {
		logger.Log.Infof("Player %d moved to game %s", sess.PlayerID, sess.RoomCode)
		return
	}

	l.Lock()
	started := l.Started()
	l.Unlock()
	if started {
		// The lobby was consumed while this stream was closing; the player
		// lives on in the game, so no Leave is broadcast.
		return
	}

	s.broadcaster.ToLobby(l, event.Leave{Player: sess.PlayerID})

	l.Lock()
	l.Leave(sess.PlayerID)
	empty := l.Empty()
	l.Unlock()

	logger.Log.Infof("Player %d left lobby %s", sess.PlayerID, sess.RoomCode)

	if empty {
		s.lobbies.Remove(sess.RoomCode)
		s.monitor.SetActiveLobbies(s.lobbies.Len())
		logger.Log.Infof("Lobby %s emptied and removed", sess.RoomCode)
	}
}

// sweepEmptyLobby removes a lobby that nobody joined within the grace
// window. It resolves the code through the registry at fire time so a
// lobby that filled up (or already started) is left alone.
func (s *GameServer) sweepEmptyLobby(code string) {
	l, exists := s.lobbies.Get(code)
	if !exists {
		return
	}

	l.Lock()
	abandoned := l.Empty() && !l.Started()
	l.Unlock()

	if abandoned {
		s.lobbies.Remove(code)
		s.monitor.SetActiveLobbies(s.lobbies.Len())
		logger.Log.Infof("Lobby %s swept (never joined)", code)
	}
}
