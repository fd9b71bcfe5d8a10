package gate

import (
	"context"
	"sync"
	"time"
)

// CachedResolver wraps a ProfileResolver with TTL-based caching so an
// authorization check does not hit the backing store on every request.
type CachedResolver struct {
	inner ProfileResolver
	cache map[string]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
}

type cacheEntry struct {
	profile   Profile
	expiresAt time.Time
}

// NewCachedResolver wraps a resolver; ttl is how long profiles stay cached.
func NewCachedResolver(inner ProfileResolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{inner: inner, cache: make(map[string]*cacheEntry), ttl: ttl}
}

// Resolve returns the identity's profile, using the cache when fresh.
func (r *CachedResolver) Resolve(ctx context.Context, identity string) (Profile, error) {
	r.mu.RLock()
	entry, ok := r.cache[identity]
	r.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return entry.profile, nil
	}

	profile, err := r.inner.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[identity] = &cacheEntry{profile: profile, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()

	return profile, nil
}

// Invalidate removes an identity from the cache. Call it when the identity's
// profile assignment changes.
func (r *CachedResolver) Invalidate(identity string) {
	r.mu.Lock()
	delete(r.cache, identity)
	r.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (r *CachedResolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]*cacheEntry)
	r.mu.Unlock()
}
