// internal/cache/user_cache.go
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"

	"finledger/internal/domain"
)

// UserCache keeps recently looked-up users keyed by ID. Users never change
// after creation, so the only invalidation needed is on delete.
//
// A delete leaves a tombstone for one TTL. Set ignores tombstoned IDs, so a
// lookup that read the row before the delete committed cannot put it back.
type UserCache struct {
	cache *ristretto.Cache
	ttl   time.Duration

	mu         sync.RWMutex
	tombstones map[int64]time.Time // ID -> expiry
	now        func() time.Time
}

// NewUserCache creates a cache holding up to maxCost users for ttl each.
func NewUserCache(maxCost int64, ttl time.Duration) (*UserCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10, // keys to track frequency of
		MaxCost:     maxCost,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user cache: %w", err)
	}
	return &UserCache{
		cache:      c,
		ttl:        ttl,
		tombstones: make(map[int64]time.Time),
		now:        time.Now,
	}, nil
}

// Get returns a copy of the cached user, if any.
func (c *UserCache) Get(id int64) (*domain.User, bool) {
	c.mu.RLock()
	deleted := c.tombstoned(id)
	c.mu.RUnlock()
	if deleted {
		return nil, false
	}

	value, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	user, ok := value.(domain.User)
	if !ok {
		return nil, false
	}
	return &user, true
}

// Set stores a copy of user unless the ID was deleted within the last TTL.
// Writes are buffered; call Wait to flush them.
func (c *UserCache) Set(user *domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tombstoned(user.ID) {
		return
	}
	c.cache.SetWithTTL(user.ID, *user, 1, c.ttl)
}

// Delete evicts the user with the given ID and tombstones it.
func (c *UserCache) Delete(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for tid, expiry := range c.tombstones {
		if !now.Before(expiry) {
			delete(c.tombstones, tid)
		}
	}
	c.tombstones[id] = now.Add(c.ttl)
	c.cache.Del(id)
}

// tombstoned must be called with mu held.
func (c *UserCache) tombstoned(id int64) bool {
	expiry, ok := c.tombstones[id]
	return ok && c.now().Before(expiry)
}

// Wait blocks until buffered writes have been applied.
func (c *UserCache) Wait() {
	c.cache.Wait()
}

// Close stops the cache's background goroutines.
func (c *UserCache) Close() {
	c.cache.Close()
}
