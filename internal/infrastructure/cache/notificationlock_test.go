package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piprapay/ppgateway/internal/shared/logger"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestNotificationLock_Exclusive(t *testing.T) {
	_, client := setupTestRedis(t)
	lock := NewNotificationLock(client, time.Minute, logger.NewDiscardLogger())
	ctx := context.Background()

	release, ok, err := lock.Acquire(ctx, "PP-1")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.Acquire(ctx, "PP-1")
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	otherRelease, ok, err := lock.Acquire(ctx, "PP-2")
	require.NoError(t, err)
	assert.True(t, ok, "different pp_id is independent")
	otherRelease()

	release()

	release, ok, err = lock.Acquire(ctx, "PP-1")
	require.NoError(t, err)
	assert.True(t, ok, "lock is free after release")
	release()
}

func TestNotificationLock_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	lock := NewNotificationLock(client, time.Second, logger.NewDiscardLogger())
	ctx := context.Background()

	staleRelease, ok, err := lock.Acquire(ctx, "PP-1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	release, ok, err := lock.Acquire(ctx, "PP-1")
	require.NoError(t, err)
	require.True(t, ok)

	// the stale holder must not free the new holder's lock
	staleRelease()
	_, ok, err = lock.Acquire(ctx, "PP-1")
	require.NoError(t, err)
	assert.False(t, ok)

	release()
}

func TestNotificationLock_RedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	lock := NewNotificationLock(client, time.Minute, logger.NewDiscardLogger())
	mr.Close()

	_, ok, err := lock.Acquire(context.Background(), "PP-1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNotificationLock_EmptyPPID(t *testing.T) {
	_, client := setupTestRedis(t)
	lock := NewNotificationLock(client, time.Minute, logger.NewDiscardLogger())

	_, _, err := lock.Acquire(context.Background(), "")
	assert.Error(t, err)
}
