// Package room holds the code-keyed registries that map short public room
// codes to shared room handles. Lobby-phase and game-phase rooms live in
// separate registries; a start moves a room from one to the other under
// the same code.
package room

import (
	"errors"
	"sync"
)

var ErrUnknownRoom = errors.New("unknown room")

// Registry 房间注册表：code -> 共享房间句柄
// The mutex guards the map only. It is a leaf lock: no registry operation
// touches room-internal state, so it is held strictly shorter than any
// room guard and can never deadlock against one.
type Registry[R any] struct {
	mu    sync.Mutex
	rooms map[string]R
}

func NewRegistry[R any]() *Registry[R] {
	return &Registry[R]{
		rooms: make(map[string]R),
	}
}

// Insert registers a room. Returns false if the code is already taken.
func (r *Registry[R]) Insert(code string, room R) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[code]; exists {
		return false
	}
	r.rooms[code] = room
	return true
}

func (r *Registry[R]) Get(code string) (R, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[code]
	return room, exists
}

// Remove drops the entry. The room itself dies when the last handle that
// resolved it goes away.
func (r *Registry[R]) Remove(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[code]; !exists {
		return false
	}
	delete(r.rooms, code)
	return true
}

func (r *Registry[R]) Contains(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.rooms[code]
	return exists
}

func (r *Registry[R]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rooms)
}
