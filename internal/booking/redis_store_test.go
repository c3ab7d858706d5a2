package booking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStateStore(t *testing.T) (*RedisStateStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStateStore(client, time.Hour), mr
}

func TestRedisStateStore_CreateAndGet(t *testing.T) {
	store, _ := newTestRedisStateStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", created.ConversationID)

	got, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", got.ConversationID)
	assert.Empty(t, got.Collected)
}

func TestRedisStateStore_GetUnknown(t *testing.T) {
	store, _ := newTestRedisStateStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStateStore_CreateIsIdempotent(t *testing.T) {
	store, _ := newTestRedisStateStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "conv-1")
	require.NoError(t, err)
	_, err = store.SetField(ctx, "conv-1", FieldName, "Asha")
	require.NoError(t, err)

	again, err := store.Create(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", again.Value(FieldName))
}

func TestRedisStateStore_SetFieldWriteOnce(t *testing.T) {
	store, _ := newTestRedisStateStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "conv-1")
	require.NoError(t, err)

	updated, err := store.SetField(ctx, "conv-1", FieldPhone, "9812345678")
	require.NoError(t, err)
	assert.Equal(t, "9812345678", updated.Value(FieldPhone))

	_, err = store.SetField(ctx, "conv-1", FieldPhone, "1111111111")
	assert.ErrorIs(t, err, ErrFieldAlreadySet)
}

func TestRedisStateStore_Clear(t *testing.T) {
	store, _ := newTestRedisStateStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "conv-1")
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, "conv-1"))

	_, err = store.Get(ctx, "conv-1")
	assert.ErrorIs(t, err, ErrStateNotFound)
	assert.NoError(t, store.Clear(ctx, "conv-1"))
}

func TestRedisStateStore_SetsTTL(t *testing.T) {
	store, mr := newTestRedisStateStore(t)

	_, err := store.Create(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Greater(t, mr.TTL("booking_state:conv-1"), time.Duration(0))
}

func TestRedisStateStore_SurvivesRoundTrip(t *testing.T) {
	store, _ := newTestRedisStateStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "conv-1")
	require.NoError(t, err)
	for field, value := range map[Field]string{
		FieldName:     "Asha Sharma",
		FieldEmail:    "asha@example.com",
		FieldPhone:    "9812345678",
		FieldDateTime: "2025-03-14T15:00:00",
	} {
		_, err = store.SetField(ctx, "conv-1", field, value)
		require.NoError(t, err)
	}

	state, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.True(t, state.Complete())
	assert.Equal(t, "Asha Sharma", state.Value(FieldName))
	assert.Equal(t, "2025-03-14T15:00:00", state.Value(FieldDateTime))
}
