// Package session maps opaque cookie ids to a player's room binding. It
// replaces the original's signed-cookie triple (room, id, name) with a
// server-side record keyed by a random session id.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID         string
	RoomCode   string
	PlayerID   uint32
	PlayerName string
	CreatedAt  time.Time
}

func New(roomCode string, playerID uint32, playerName string) *Session {
	return &Session{
		ID:         uuid.New().String(),
		RoomCode:   roomCode,
		PlayerID:   playerID,
		PlayerName: playerName,
		CreatedAt:  time.Now(),
	}
}

// Manager 会话管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(s *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[s.ID] = s
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	s, exists := m.sessions[sessionID]
	return s, exists
}

// RemoveByRoom drops every session bound to the given room code. Used
// when a room is torn down after a win.
func (m *Manager) RemoveByRoom(roomCode string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for id, s := range m.sessions {
		if s.RoomCode == roomCode {
			delete(m.sessions, id)
		}
	}
}
