// Package core defines the ports of the dispatch service and the small
// services that only compose ports.
package core

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

//go:generate mockgen -source=cache.go -destination=cache_mock.go -package=core

// CacheRepository defines the interface for caching operations.
// This follows the hexagonal architecture pattern where the core defines interfaces
// and the data layer provides implementations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// SetTTL updates the TTL for an existing key.
	// Returns true if the key exists and TTL was updated.
	SetTTL(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// SetIfNotExists atomically sets a key only if it doesn't already exist.
	// Returns true if the key was set, false if it already existed.
	SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// CompareAndDelete removes key only while it still holds value.
	// Returns true if the key was deleted.
	CompareAndDelete(ctx context.Context, key string, value []byte) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// ErrLockHeld is returned when another caller holds the lock.
var ErrLockHeld = errors.New("lock held by another caller")

// KeyLock is a TTL-bounded mutual exclusion lock backed by the cache.
type KeyLock struct {
	cache  CacheRepository
	prefix string
	ttl    time.Duration
}

// NewKeyLock creates a lock namespace. Keys are stored as prefix+key.
func NewKeyLock(cache CacheRepository, prefix string, ttl time.Duration) *KeyLock {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &KeyLock{cache: cache, prefix: prefix, ttl: ttl}
}

// Acquire takes the lock for key. Release only deletes the lock while this
// caller still owns it, so an expired lock re-taken by someone else survives.
func (l *KeyLock) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	full := l.prefix + key
	token := []byte(uuid.NewString())
	ok, err := l.cache.SetIfNotExists(ctx, full, token, l.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func(ctx context.Context) error {
		_, delErr := l.cache.CompareAndDelete(ctx, full, token)
		return delErr
	}, nil
}

// CachedGeocoder serves geocode results from the cache before asking next.
// Misses are cached too so repeated unknown addresses do not hit providers.
type CachedGeocoder struct {
	next   Geocoder
	cache  CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// CachedGeocoderOptions bundles dependencies for NewCachedGeocoder.
type CachedGeocoderOptions struct {
	Next   Geocoder
	Cache  CacheRepository
	TTL    time.Duration
	Logger *slog.Logger
}

// NewCachedGeocoder creates a CachedGeocoder.
func NewCachedGeocoder(opts CachedGeocoderOptions) *CachedGeocoder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedGeocoder{
		next:   opts.Next,
		cache:  opts.Cache,
		ttl:    opts.TTL,
		logger: logger.With("component", "geocode_cache"),
	}
}

// Name returns the wrapped geocoder's name.
func (g *CachedGeocoder) Name() string { return g.next.Name() }

type cachedGeo struct {
	Found  bool             `json:"found"`
	Result *model.GeoResult `json:"result,omitempty"`
}

// Geocode resolves address, consulting the cache first. Cache failures degrade to a direct lookup.
func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (*model.GeoResult, error) {
	key := geocodeKey(address)
	if key == "" {
		return nil, nil
	}

	if raw, err := g.cache.Get(ctx, key); err != nil {
		g.logger.WarnContext(ctx, "geocode cache read failed", "error", err)
	} else if len(raw) > 0 {
		var entry cachedGeo
		if jsonErr := json.Unmarshal(raw, &entry); jsonErr == nil {
			return entry.Result, nil
		}
	}

	res, err := g.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedGeo{Found: res != nil, Result: res})
	if err == nil {
		if setErr := g.cache.Set(ctx, key, payload, g.ttl); setErr != nil {
			g.logger.WarnContext(ctx, "geocode cache write failed", "error", setErr)
		}
	}
	return res, nil
}

func geocodeKey(address string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(address), " "))
	if norm == "" {
		return ""
	}
	return "geocode:" + norm
}
