package session

import (
	"testing"
)

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sess := New("AAAAAA", 42, "alice")

	if sess.ID == "" {
		t.Fatal("New should assign a session id")
	}

	manager.Add(sess)
	got, exists := manager.Get(sess.ID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if got.RoomCode != "AAAAAA" || got.PlayerID != 42 || got.PlayerName != "alice" {
		t.Errorf("Session binding mismatch: %+v", got)
	}

	manager.Remove(sess.ID)
	if _, exists := manager.Get(sess.ID); exists {
		t.Error("Get should not find a removed session")
	}
}

func TestManager_RemoveByRoom(t *testing.T) {
	manager := NewManager()

	a1 := New("AAAAAA", 1, "alice")
	a2 := New("AAAAAA", 2, "bob")
	b1 := New("BBBBBB", 3, "carol")
	manager.Add(a1)
	manager.Add(a2)
	manager.Add(b1)

	manager.RemoveByRoom("AAAAAA")

	if _, exists := manager.Get(a1.ID); exists {
		t.Error("sessions for the removed room should be gone")
	}
	if _, exists := manager.Get(a2.ID); exists {
		t.Error("sessions for the removed room should be gone")
	}
	if _, exists := manager.Get(b1.ID); !exists {
		t.Error("sessions for other rooms should survive")
	}
}
