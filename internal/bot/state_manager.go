package bot

import (
	"sync"

	"github.com/UnknownOlympus/equipbot/internal/models"
)

// SearchSession remembers the last result window shown to a user so the
// "more" button can fetch the next one.
type SearchSession struct {
	Filter    models.SearchFilter
	Offset    int
	Header    string
	ExcludeID int64 // record hidden from "similar" listings, 0 for none
}

// StateManager manages the search sessions of all users.
type StateManager struct {
	mu       sync.Mutex
	sessions map[int64]SearchSession
}

func NewStateManager() *StateManager {
	return &StateManager{sessions: make(map[int64]SearchSession)}
}

// Set replaces the session of the user.
func (sm *StateManager) Set(userID int64, session SearchSession) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[userID] = session
}

// Get returns the session of the user, if any.
func (sm *StateManager) Get(userID int64) (SearchSession, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[userID]
	return session, ok
}

// Clear forgets the session of the user.
func (sm *StateManager) Clear(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, userID)
}
