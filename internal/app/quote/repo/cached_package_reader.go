package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

const packageCachePrefix = "pricing:package:"

// errCacheMiss is returned by a snapshotStore for an absent key.
var errCacheMiss = errors.New("package cache miss")

// snapshotStore is the key/value surface the cache needs from Redis.
type snapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisStore struct {
	client *redis.Client
}

func (s redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	return b, err
}

func (s redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// CachedPackageReader fronts a PackageReader with a shared Redis snapshot cache.
//
// When the underlying reader can report versions, snapshots are keyed by package version
// and every read first checks the current version, so an edited, archived or deleted
// package is never served from the cache. Otherwise entries are keyed by id alone and
// live for ttl. Redis failures fall through to the underlying reader.
type CachedPackageReader struct {
	next     contracts.PackageReader
	versions contracts.PackageVersionReader
	store    snapshotStore
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCachedPackageReader wraps next with a Redis cache holding packages for ttl.
func NewCachedPackageReader(next contracts.PackageReader, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedPackageReader {
	return newCachedPackageReader(next, redisStore{client: client}, ttl, logger)
}

func newCachedPackageReader(next contracts.PackageReader, store snapshotStore, ttl time.Duration, logger *zap.Logger) *CachedPackageReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	versions, _ := next.(contracts.PackageVersionReader)
	return &CachedPackageReader{next: next, versions: versions, store: store, ttl: ttl, logger: logger}
}

func packageKey(packageID string) string {
	return packageCachePrefix + packageID
}

func versionedPackageKey(packageID string, version int64) string {
	return fmt.Sprintf("%s%s:v%d", packageCachePrefix, packageID, version)
}

// GetPackage returns the cached snapshot of the current version when present, otherwise
// reads through and stores it.
func (c *CachedPackageReader) GetPackage(ctx context.Context, packageID string) (*domain.Package, error) {
	key := packageKey(packageID)
	version := int64(-1)

	if c.versions != nil {
		v, err := c.versions.PackageVersion(ctx, packageID)
		switch {
		case errors.Is(err, domain.ErrPackageNotFound):
			return nil, err
		case err != nil:
			c.logger.Warn("package version check failed, bypassing cache",
				zap.String("package_id", packageID), zap.Error(err))
			return c.next.GetPackage(ctx, packageID)
		}
		version = v
		key = versionedPackageKey(packageID, v)
	}

	if pkg, ok := c.cached(ctx, key, version); ok {
		return pkg, nil
	}

	pkg, err := c.next.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	if c.versions != nil {
		key = versionedPackageKey(packageID, pkg.Version)
	}
	if b, err := json.Marshal(pkg); err == nil {
		if err := c.store.Set(ctx, key, b, c.ttl); err != nil {
			c.logger.Warn("package cache write failed", zap.String("package_id", packageID), zap.Error(err))
		}
	}

	return pkg, nil
}

// cached reads a snapshot, rejecting one whose version differs from want (unless want is -1).
func (c *CachedPackageReader) cached(ctx context.Context, key string, want int64) (*domain.Package, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, errCacheMiss) {
			c.logger.Warn("package cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var pkg domain.Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		c.logger.Warn("discarding unreadable cached package", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if want >= 0 && pkg.Version != want {
		return nil, false
	}
	return &pkg, true
}
