package web

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client backed by miniredis
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisFlashStorePushPop(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisFlashStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "s1", Success("Venue The Musical Hop was successfully updated!")))
	require.NoError(t, store.Push(ctx, "s1", Failure("second")))
	assert.True(t, mr.Exists("flash:s1"))
	assert.Equal(t, time.Minute, mr.TTL("flash:s1"))

	flashes, err := store.Pop(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []Flash{
		{Category: FlashSuccess, Message: "Venue The Musical Hop was successfully updated!"},
		{Category: FlashError, Message: "second"},
	}, flashes)

	// popped flashes are gone
	flashes, err = store.Pop(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, flashes)
	assert.False(t, mr.Exists("flash:s1"))
}

func TestRedisFlashStoreExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisFlashStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "s2", Success("hello")))
	mr.FastForward(2 * time.Minute)

	flashes, err := store.Pop(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, flashes)
}

func TestRedisFlashStoreUnavailable(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisFlashStore(client, time.Minute)
	mr.Close()

	assert.Error(t, store.Push(context.Background(), "s3", Success("x")))
}

func TestMemoryFlashStore(t *testing.T) {
	store := NewMemoryFlashStore()
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "a", Success("one")))
	require.NoError(t, store.Push(ctx, "b", Success("other")))
	require.NoError(t, store.Push(ctx, "a"))

	flashes, err := store.Pop(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []Flash{Success("one")}, flashes)

	flashes, _ = store.Pop(ctx, "a")
	assert.Empty(t, flashes)

	flashes, _ = store.Pop(ctx, "b")
	assert.Len(t, flashes, 1)
}
