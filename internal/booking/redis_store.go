package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultStateTTL = 24 * time.Hour

// RedisStateStore persists conversation state in Redis so multiple API
// instances can share it. Read-modify-write safety still relies on the
// caller holding the per-conversation lock for the duration of the turn.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateStore creates a store with the given TTL; zero means the
// default of 24 hours.
func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	if client == nil {
		panic("booking: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &RedisStateStore{client: client, ttl: ttl}
}

var _ StateStore = (*RedisStateStore)(nil)

func stateKey(conversationID string) string {
	return fmt.Sprintf("booking_state:%s", conversationID)
}

// Get loads the state for a conversation.
func (s *RedisStateStore) Get(ctx context.Context, conversationID string) (*State, error) {
	data, err := s.client.Get(ctx, stateKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("booking: failed to load state: %w", err)
	}
	return decodeState(data)
}

// Create makes a new state unless one already exists.
func (s *RedisStateStore) Create(ctx context.Context, conversationID string) (*State, error) {
	existing, err := s.Get(ctx, conversationID)
	if err == nil {
		return existing, nil
	}
	if err != ErrStateNotFound {
		return nil, err
	}

	state := newState(conversationID)
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SetField stores a validated value, write-once.
func (s *RedisStateStore) SetField(ctx context.Context, conversationID string, field Field, value string) (*State, error) {
	state, err := s.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if _, exists := state.Collected[field]; exists {
		return nil, ErrFieldAlreadySet
	}
	state.Collected[field] = value
	state.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Clear retires the conversation state.
func (s *RedisStateStore) Clear(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, stateKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("booking: failed to clear state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) save(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("booking: failed to marshal state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey(state.ConversationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("booking: failed to persist state: %w", err)
	}
	return nil
}

func decodeState(data []byte) (*State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("booking: failed to decode state: %w", err)
	}
	if state.Collected == nil {
		state.Collected = make(map[Field]string)
	}
	return &state, nil
}
