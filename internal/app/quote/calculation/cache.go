package calculation

import (
	"sync"
	"time"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// cacheKey identifies one resolution: the package version and the inputs the resolver reads.
type cacheKey struct {
	packageID string
	version   int64
	people    int
	nights    int
	arrival   string
}

func newCacheKey(pkg *domain.Package, params domain.Params) cacheKey {
	return cacheKey{
		packageID: pkg.ID,
		version:   pkg.Version,
		people:    params.NumberOfPeople,
		nights:    params.NumberOfNights,
		arrival:   params.ArrivalDate.UTC().Format(domain.DateLayout),
	}
}

type packageSnapshot struct {
	pkg       *domain.Package
	fetchedAt time.Time
}

// resultCache holds package snapshots and resolutions, keyed by package version.
// Resolutions of a package are purged as soon as a different version of it is seen.
type resultCache struct {
	mu          sync.RWMutex
	snapshots   map[string]packageSnapshot
	resolutions map[cacheKey]domain.Resolution
}

func newResultCache() *resultCache {
	return &resultCache{
		snapshots:   make(map[string]packageSnapshot),
		resolutions: make(map[cacheKey]domain.Resolution),
	}
}

// snapshot returns the in-memory package if it was fetched less than ttl ago.
func (c *resultCache) snapshot(packageID string, now time.Time, ttl time.Duration) (*domain.Package, bool) {
	if ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.snapshots[packageID]
	if !ok || now.Sub(snap.fetchedAt) >= ttl {
		return nil, false
	}
	return snap.pkg, true
}

// remember stores a freshly fetched package and returns how many resolutions were purged.
func (c *resultCache) remember(pkg *domain.Package, now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	purged := 0
	if prev, ok := c.snapshots[pkg.ID]; ok && prev.pkg.Version != pkg.Version {
		for key := range c.resolutions {
			if key.packageID == pkg.ID && key.version != pkg.Version {
				delete(c.resolutions, key)
				purged++
			}
		}
	}

	c.snapshots[pkg.ID] = packageSnapshot{pkg: pkg, fetchedAt: now}
	return purged
}

// lookup returns a copy of the cached resolution for key.
func (c *resultCache) lookup(key cacheKey) (*domain.Resolution, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.resolutions[key]
	if !ok {
		return nil, false
	}
	return &res, true
}

func (c *resultCache) store(key cacheKey, res *domain.Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolutions[key] = *res
}

func (c *resultCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.resolutions)
}
