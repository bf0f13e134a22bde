package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

func TestRedisCacheRepo_Basics(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := testutil.SetupTestRedis(t)
	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		key := "geocode:123 main st"
		require.NoError(t, repo.Set(ctx, key, []byte(`{"found":false}`), time.Minute))

		got, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"found":false}`, string(got))

		ttl := client.TTL(ctx, key).Val()
		assert.True(t, ttl > 0 && ttl <= time.Minute)

		deleted, err := repo.Delete(ctx, key)
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err = repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("exists and set ttl", func(t *testing.T) {
		key := "test:exists"
		ok, err := repo.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)

		updated, err := repo.SetTTL(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.False(t, updated)

		require.NoError(t, repo.Set(ctx, key, []byte("v"), 0))
		updated, err = repo.SetTTL(ctx, key, 30*time.Second)
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("set if not exists only once", func(t *testing.T) {
		key := "dispatch:lock:job-1"
		first, err := repo.SetIfNotExists(ctx, key, []byte("a"), time.Minute)
		require.NoError(t, err)
		assert.True(t, first)

		second, err := repo.SetIfNotExists(ctx, key, []byte("b"), time.Minute)
		require.NoError(t, err)
		assert.False(t, second)

		got, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), got)
	})

	t.Run("compare and delete respects owner", func(t *testing.T) {
		key := "dispatch:lock:job-2"
		require.NoError(t, repo.Set(ctx, key, []byte("owner"), time.Minute))

		deleted, err := repo.CompareAndDelete(ctx, key, []byte("intruder"))
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = repo.CompareAndDelete(ctx, key, []byte("owner"))
		require.NoError(t, err)
		assert.True(t, deleted)

		ok, err := repo.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("key lock round trip", func(t *testing.T) {
		lock := core.NewKeyLock(repo, "dispatch:", time.Minute)
		release, err := lock.Acquire(ctx, "job-3")
		require.NoError(t, err)

		_, err = lock.Acquire(ctx, "job-3")
		require.ErrorIs(t, err, core.ErrLockHeld)

		require.NoError(t, release(ctx))
		release2, err := lock.Acquire(ctx, "job-3")
		require.NoError(t, err)
		require.NoError(t, release2(ctx))
	})

	t.Run("health", func(t *testing.T) {
		require.NoError(t, repo.Health(ctx))
	})
}

func TestRedisCacheRepo_EmptyKey(t *testing.T) {
	// No client is needed: validation happens before any Redis call.
	repo := NewRedisCacheRepo(nil)
	ctx := context.Background()

	require.ErrorIs(t, repo.Set(ctx, "", nil, 0), errEmptyKey)
	_, err := repo.Get(ctx, "")
	require.ErrorIs(t, err, errEmptyKey)
	_, err = repo.Delete(ctx, "")
	require.ErrorIs(t, err, errEmptyKey)
	_, err = repo.Exists(ctx, "")
	require.ErrorIs(t, err, errEmptyKey)
	_, err = repo.SetTTL(ctx, "", time.Second)
	require.ErrorIs(t, err, errEmptyKey)
	_, err = repo.SetIfNotExists(ctx, "", nil, time.Second)
	require.ErrorIs(t, err, errEmptyKey)
	_, err = repo.CompareAndDelete(ctx, "", nil)
	require.ErrorIs(t, err, errEmptyKey)
}
