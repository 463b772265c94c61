// Package cache stores rendered analysis reports keyed by query hash
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/casematch/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey hashes an arbitrary identity string into a namespaced key
func CacheKey(identity string) string {
	hash := sha256.Sum256([]byte(identity))
	return "casematch:v1:" + hex.EncodeToString(hash[:])
}

// QueryKey is the cache key of a query. The query ID is excluded and the
// description is whitespace-collapsed, so resubmitting the same case hits
// the cache. TopK is normalized through Limit.
func QueryKey(q model.QueryContext) string {
	desc := strings.Join(strings.Fields(q.CaseDescription), " ")
	return CacheKey(fmt.Sprintf("%s\x00%s\x00%d\x00%s", q.Act, strings.TrimSpace(q.Section), q.Limit(), desc))
}

// New builds the cache described by cfg: memory only when Dir is empty,
// memory in front of disk otherwise. Returns nil when caching is disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, cfg.CleanupInterval)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.CleanupInterval, cfg.Dir, cfg.DiskTTL)
}
