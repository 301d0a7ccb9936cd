// Package cache stores probe verdicts and analysis results between requests.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

const keyPrefix = "credence:v1:"

// memoryCleanupInterval is how often expired in-memory entries are purged
const memoryCleanupInterval = 10 * time.Minute

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key. Parts are normalised (trimmed, lowercased)
// and hashed so claims differing only in case or surrounding whitespace share an entry.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{0})
	}
	return keyPrefix + namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache described by cfg. It returns nil when caching is disabled.
// A configured directory adds a disk layer below the memory cache.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}

	memory := NewMemoryCache(cfg.TTL, memoryCleanupInterval)
	if cfg.Dir == "" {
		return memory
	}

	return NewLayeredCache(memory, NewDiskCache(filepath.Clean(cfg.Dir), cfg.TTL))
}
