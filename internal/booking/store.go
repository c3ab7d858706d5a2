package booking

import (
	"context"
	"sync"
	"time"
)

// StateStore is keyed storage for per-conversation slot-filling state.
//
// Mutations must be visible to the immediately following read. Callers are
// expected to hold the per-conversation lock (see keyMutex) across a full
// read-modify-write turn; the store itself only guarantees safety of
// individual operations.
type StateStore interface {
	// Get returns the state for a conversation, or ErrStateNotFound.
	Get(ctx context.Context, conversationID string) (*State, error)
	// Create makes a fresh state. Idempotent: an existing state is returned
	// untouched, never silently discarded.
	Create(ctx context.Context, conversationID string) (*State, error)
	// SetField records a validated value. Fields are write-once; a second
	// write to the same field returns ErrFieldAlreadySet.
	SetField(ctx context.Context, conversationID string, field Field, value string) (*State, error)
	// Clear retires the conversation state.
	Clear(ctx context.Context, conversationID string) error
}

// InMemoryStateStore keeps states in a process-local map. Suitable for a
// single instance; multi-instance deployments should use RedisStateStore.
type InMemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]*State
}

// NewInMemoryStateStore creates an empty in-memory store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{states: make(map[string]*State)}
}

var _ StateStore = (*InMemoryStateStore)(nil)

// Get returns a copy of the stored state.
func (s *InMemoryStateStore) Get(ctx context.Context, conversationID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[conversationID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return state.clone(), nil
}

// Create makes a new state or returns the existing one.
func (s *InMemoryStateStore) Create(ctx context.Context, conversationID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.states[conversationID]; ok {
		return existing.clone(), nil
	}
	state := newState(conversationID)
	s.states[conversationID] = state
	return state.clone(), nil
}

// SetField stores a validated value, write-once.
func (s *InMemoryStateStore) SetField(ctx context.Context, conversationID string, field Field, value string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[conversationID]
	if !ok {
		return nil, ErrStateNotFound
	}
	if _, exists := state.Collected[field]; exists {
		return nil, ErrFieldAlreadySet
	}
	state.Collected[field] = value
	state.UpdatedAt = time.Now().UTC()
	return state.clone(), nil
}

// Clear removes the conversation state. Clearing an absent state is a no-op.
func (s *InMemoryStateStore) Clear(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, conversationID)
	return nil
}
