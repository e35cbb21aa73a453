package memory

import (
	"context"
	"sync"

	"starsbot/internal/domain"
)

// StateRepo keeps conversation state in process memory.
// State is lost on restart and users fall back to idle.
type StateRepo struct {
	states map[int64]domain.UserState
	mu     sync.RWMutex
}

// NewStateRepo creates an empty in-memory state store
func NewStateRepo() *StateRepo {
	return &StateRepo{states: make(map[int64]domain.UserState)}
}

// Get returns user's current state
func (r *StateRepo) Get(_ context.Context, userID int64) (domain.UserState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.states[userID]
	if !exists {
		return domain.StateIdle, nil
	}
	return state, nil
}

// Set sets user's state
func (r *StateRepo) Set(ctx context.Context, userID int64, state domain.UserState) error {
	if state == domain.StateIdle {
		return r.Reset(ctx, userID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[userID] = state
	return nil
}

// Reset resets user to idle state
func (r *StateRepo) Reset(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, userID)
	return nil
}

// Len returns the number of users in a non-idle state
func (r *StateRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}
