package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdocs-ai/assistant/internal/nlu"
)

func newTestRedisStore(t *testing.T, window int) (*RedisHistoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisHistoryStore(client, window, time.Hour), mr
}

func TestRedisHistoryStore_AppendAndRecent(t *testing.T) {
	store, _ := newTestRedisStore(t, 6)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "c1", nlu.ChatMessage{Role: nlu.ChatRoleUser, Content: "hello"}))
	require.NoError(t, store.Append(ctx, "c1", nlu.ChatMessage{Role: nlu.ChatRoleAssistant, Content: "hi there"}))

	messages, err := store.Recent(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, nlu.ChatRoleUser, messages[0].Role)
	assert.Equal(t, "hi there", messages[1].Content)
}

func TestRedisHistoryStore_WindowEvictsOldest(t *testing.T) {
	store, _ := newTestRedisStore(t, 3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.Append(ctx, "c1", nlu.ChatMessage{
			Role:    nlu.ChatRoleUser,
			Content: fmt.Sprintf("msg %d", i),
		}))
	}

	messages, err := store.Recent(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "msg 3", messages[0].Content)
	assert.Equal(t, "msg 5", messages[2].Content)
}

func TestRedisHistoryStore_UnknownConversationIsEmpty(t *testing.T) {
	store, _ := newTestRedisStore(t, 6)

	messages, err := store.Recent(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestRedisHistoryStore_SetsTTL(t *testing.T) {
	store, mr := newTestRedisStore(t, 6)

	require.NoError(t, store.Append(context.Background(), "c1", nlu.ChatMessage{
		Role:    nlu.ChatRoleUser,
		Content: "hello",
	}))
	assert.Greater(t, mr.TTL(historyKey("c1")), time.Duration(0))
}

func TestInMemoryHistoryStore_WindowEvictsOldest(t *testing.T) {
	store := NewInMemoryHistoryStore(2)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, store.Append(ctx, "c1", nlu.ChatMessage{
			Role:    nlu.ChatRoleUser,
			Content: fmt.Sprintf("msg %d", i),
		}))
	}

	messages, err := store.Recent(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "msg 3", messages[0].Content)
	assert.Equal(t, "msg 4", messages[1].Content)
}
