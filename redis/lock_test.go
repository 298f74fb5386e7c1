package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewClient(ctx, addr, os.Getenv("REDIS_PASSWORD"))
	require.NoError(t, err)
	defer client.Close()

	locker := NewSlotLocker(client, 2*time.Second)
	key := "test:" + uuid.NewString()

	err = locker.WithSlotLock(ctx, key, func(ctx context.Context) error {
		inner := locker.WithSlotLock(ctx, key, func(context.Context) error { return nil })
		assert.ErrorIs(t, inner, ErrLockNotAcquired)

		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	ran := false
	require.NoError(t, locker.WithSlotLock(ctx, key, func(context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)
}
