package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartdocs-ai/assistant/internal/nlu"
)

const defaultHistoryWindow = 6

// HistoryStore keeps the rolling message window for a conversation.
type HistoryStore interface {
	// Append adds a message to the conversation, evicting beyond the window.
	Append(ctx context.Context, conversationID string, msg nlu.ChatMessage) error
	// Recent returns up to window messages in chronological order.
	Recent(ctx context.Context, conversationID string) ([]nlu.ChatMessage, error)
}

// RedisHistoryStore keeps a capped list per conversation. Messages are
// stored newest-first and read back oldest-first.
type RedisHistoryStore struct {
	redis  *redis.Client
	window int
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisHistoryStore creates a history store backed by Redis.
func NewRedisHistoryStore(client *redis.Client, window int, ttl time.Duration) *RedisHistoryStore {
	if client == nil {
		panic("chat: redis client cannot be nil")
	}
	if window <= 0 {
		window = defaultHistoryWindow
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisHistoryStore{
		redis:  client,
		window: window,
		ttl:    ttl,
		tracer: otel.Tracer("smartdocs.internal.chat.history"),
	}
}

var _ HistoryStore = (*RedisHistoryStore)(nil)

func historyKey(conversationID string) string {
	return fmt.Sprintf("chat:%s:messages", conversationID)
}

// Append pushes the message to the head of the list and trims to the window.
func (s *RedisHistoryStore) Append(ctx context.Context, conversationID string, msg nlu.ChatMessage) error {
	ctx, span := s.tracer.Start(ctx, "chat.append_message")
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to marshal message: %w", err)
	}

	key := historyKey(conversationID)
	pipe := s.redis.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.window-1))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to persist message: %w", err)
	}
	return nil
}

// Recent returns the window of messages, oldest first. An unknown
// conversation yields an empty history, not an error.
func (s *RedisHistoryStore) Recent(ctx context.Context, conversationID string) ([]nlu.ChatMessage, error) {
	ctx, span := s.tracer.Start(ctx, "chat.load_history")
	defer span.End()

	items, err := s.redis.LRange(ctx, historyKey(conversationID), 0, int64(s.window-1)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chat: failed to load history: %w", err)
	}

	messages := make([]nlu.ChatMessage, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		var msg nlu.ChatMessage
		if err := json.Unmarshal([]byte(items[i]), &msg); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("chat: failed to decode message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// InMemoryHistoryStore is a map-backed HistoryStore for development and tests.
type InMemoryHistoryStore struct {
	mu       sync.RWMutex
	window   int
	messages map[string][]nlu.ChatMessage
}

// NewInMemoryHistoryStore creates an in-memory history store.
func NewInMemoryHistoryStore(window int) *InMemoryHistoryStore {
	if window <= 0 {
		window = defaultHistoryWindow
	}
	return &InMemoryHistoryStore{
		window:   window,
		messages: make(map[string][]nlu.ChatMessage),
	}
}

var _ HistoryStore = (*InMemoryHistoryStore)(nil)

// Append adds a message, evicting the oldest beyond the window.
func (s *InMemoryHistoryStore) Append(ctx context.Context, conversationID string, msg nlu.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.messages[conversationID], msg)
	if len(msgs) > s.window {
		msgs = msgs[len(msgs)-s.window:]
	}
	s.messages[conversationID] = msgs
	return nil
}

// Recent returns the window of messages, oldest first.
func (s *InMemoryHistoryStore) Recent(ctx context.Context, conversationID string) ([]nlu.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationID]
	out := make([]nlu.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}
