package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/adapters/redis"
)

func TestLocker_AcquireAndRelease(t *testing.T) {
	client := newTestClient(t)
	locker := redis.NewLocker(client, "specloom:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "session-a", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, unlock)

	// A second acquisition must block until release.
	blockedCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blockedCtx, "session-a", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "session-a", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}
