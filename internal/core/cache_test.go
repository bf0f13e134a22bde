package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

type stubGeocoder struct {
	calls  int
	result *model.GeoResult
	err    error
}

func (s *stubGeocoder) Name() string { return "stub" }

func (s *stubGeocoder) Geocode(context.Context, string) (*model.GeoResult, error) {
	s.calls++
	return s.result, s.err
}

func TestKeyLock_Acquire(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(*testing.T, *MockCacheRepository)
		wantErr error
		release bool
	}{
		{
			name: "acquired and released with the same token",
			setup: func(t *testing.T, cache *MockCacheRepository) {
				var token []byte
				cache.EXPECT().
					SetIfNotExists(gomock.Any(), "dispatch:lock:job-1", gomock.Any(), 5*time.Minute).
					DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) (bool, error) {
						token = value
						return true, nil
					})
				cache.EXPECT().CompareAndDelete(gomock.Any(), "dispatch:lock:job-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value []byte) (bool, error) {
						assert.Equal(t, token, value)
						return true, nil
					})
			},
			release: true,
		},
		{
			name: "held by another caller",
			setup: func(_ *testing.T, cache *MockCacheRepository) {
				cache.EXPECT().
					SetIfNotExists(gomock.Any(), "dispatch:lock:job-1", gomock.Any(), 5*time.Minute).
					Return(false, nil)
			},
			wantErr: ErrLockHeld,
		},
		{
			name: "cache error",
			setup: func(_ *testing.T, cache *MockCacheRepository) {
				cache.EXPECT().
					SetIfNotExists(gomock.Any(), "dispatch:lock:job-1", gomock.Any(), 5*time.Minute).
					Return(false, errors.New("redis down"))
			},
			wantErr: errors.New("redis down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			cache := NewMockCacheRepository(ctrl)
			tt.setup(t, cache)

			lock := NewKeyLock(cache, "dispatch:lock:", 5*time.Minute)
			release, err := lock.Acquire(context.Background(), "job-1")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				assert.Nil(t, release)
				return
			}
			require.NoError(t, err)
			if tt.release {
				require.NoError(t, release(context.Background()))
			}
		})
	}
}

func TestCachedGeocoder_HitSkipsProvider(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	cache := NewMockCacheRepository(ctrl)

	want := &model.GeoResult{City: "Austin", State: "TX", Provider: "nominatim"}
	raw, err := json.Marshal(cachedGeo{Found: true, Result: want})
	require.NoError(t, err)
	cache.EXPECT().Get(gomock.Any(), "geocode:123 main st, austin, tx").Return(raw, nil)

	next := &stubGeocoder{}
	g := NewCachedGeocoder(CachedGeocoderOptions{Next: next, Cache: cache, TTL: time.Hour})

	got, err := g.Geocode(context.Background(), "  123 Main St,   Austin, TX ")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Zero(t, next.calls)
}

func TestCachedGeocoder_MissStoresResult(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	cache := NewMockCacheRepository(ctrl)

	want := &model.GeoResult{City: "Austin", State: "TX"}
	cache.EXPECT().Get(gomock.Any(), "geocode:123 main st").Return(nil, nil)
	cache.EXPECT().Set(gomock.Any(), "geocode:123 main st", gomock.Any(), time.Hour).
		DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) error {
			var entry cachedGeo
			require.NoError(t, json.Unmarshal(value, &entry))
			assert.True(t, entry.Found)
			assert.Equal(t, "Austin", entry.Result.City)
			return nil
		})

	next := &stubGeocoder{result: want}
	g := NewCachedGeocoder(CachedGeocoderOptions{Next: next, Cache: cache, TTL: time.Hour})

	got, err := g.Geocode(context.Background(), "123 Main St")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, next.calls)
}

func TestCachedGeocoder_CacheErrorsDegrade(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	cache := NewMockCacheRepository(ctrl)

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	next := &stubGeocoder{}
	g := NewCachedGeocoder(CachedGeocoderOptions{Next: next, Cache: cache, TTL: time.Hour})

	got, err := g.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, next.calls)
}

func TestCachedGeocoder_ProviderErrorNotCached(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	cache := NewMockCacheRepository(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)

	g := NewCachedGeocoder(CachedGeocoderOptions{
		Next:  &stubGeocoder{err: errors.New("boom")},
		Cache: cache,
	})
	_, err := g.Geocode(context.Background(), "x")
	require.Error(t, err)

	got, err := g.Geocode(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}
