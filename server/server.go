package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/wfunc/timebomb/broadcast"
	"github.com/wfunc/timebomb/config"
	"github.com/wfunc/timebomb/game"
	"github.com/wfunc/timebomb/logger"
	"github.com/wfunc/timebomb/mailbox"
	"github.com/wfunc/timebomb/monitor"
	"github.com/wfunc/timebomb/room"
	"github.com/wfunc/timebomb/session"
	"github.com/wfunc/timebomb/timer"
)

const sessionCookie = "session"

type GameServer struct {
	cfg      *config.Config
	upgrader websocket.Upgrader

	lobbies  *room.Registry[*game.Lobby]
	games    *room.Registry[*game.Game]
	sessions *session.Manager

	broadcaster broadcast.Broadcaster
	timers      *timer.Manager
	monitor     *monitor.Monitor

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

func NewGameServer(cfg *config.Config, mon *monitor.Monitor, timers *timer.Manager) *GameServer {
	s := &GameServer{
		cfg:          cfg,
		lobbies:      room.NewRegistry[*game.Lobby](),
		games:        room.NewRegistry[*game.Game](),
		sessions:     session.NewManager(),
		broadcaster:  broadcast.NewRoomBroadcaster(mon),
		timers:       timers,
		monitor:      mon,
		shutdownChan: make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/lobby/create", s.handleCreateLobby).Methods(http.MethodGet)
	r.HandleFunc("/lobby/join", s.handleJoinLobby).Methods(http.MethodGet)
	r.HandleFunc("/lobby/events", s.handleLobbyEvents).Methods(http.MethodGet)
	r.HandleFunc("/lobby/ready", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/lobby/leave", s.handleLeaveLobby).Methods(http.MethodGet)
	r.HandleFunc("/lobby/start", s.handleStartLobby).Methods(http.MethodGet)
	r.HandleFunc("/game/events", s.handleGameEvents).Methods(http.MethodGet)
	r.HandleFunc("/game/cut", s.handleCut).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:    cfg.Server.HTTPAddress,
		Handler: r,
	}

	// Keep the room gauges honest even after sweeps fire.
	timers.AddTimer(10*time.Second, 10*time.Second, func() {
		mon.SetActiveLobbies(s.lobbies.Len())
		mon.SetActiveGames(s.games.Len())
	})

	return s
}

func (s *GameServer) Start() error {
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown broadcasts the stop signal to every connection pump and closes
// the HTTP listener. Each pump emits one final "Server closed" event.
func (s *GameServer) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)
	})
	return s.httpServer.Shutdown(ctx)
}

// --- 请求辅助 ---

func (s *GameServer) sessionFrom(r *http.Request) (*session.Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(cookie.Value)
}

func (s *GameServer) newSession(w http.ResponseWriter, code string, playerID uint32, name string) *session.Session {
	sess := session.New(code, playerID, name)
	s.sessions.Add(sess)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
	})
	return sess
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}

// statusFor maps the recoverable error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrUnknownRoom),
		errors.Is(err, game.ErrUnknownPlayer),
		errors.Is(err, game.ErrAlreadyStarted):
		return http.StatusNotFound
	case errors.Is(err, game.ErrLobbyFull),
		errors.Is(err, game.ErrAlreadyPresent),
		errors.Is(err, mailbox.ErrAlreadyAttached):
		return http.StatusConflict
	case errors.Is(err, game.ErrNotReady):
		return http.StatusPreconditionRequired
	case errors.Is(err, game.ErrDontHaveWireCutter), errors.Is(err, game.ErrCannotSelfCut):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
