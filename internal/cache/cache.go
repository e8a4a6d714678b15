// Package cache implements the key-value memoization layer for the pipeline.
package cache

import (
	"strconv"
	"strings"
	"time"
)

// Cache is the memoization contract shared by the pipeline. Values are
// derived deterministically from their keys, so last-writer-wins under
// concurrent access is acceptable.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key of the form "{kind}:{joined parts}"
func Key(kind string, parts ...string) string {
	if len(parts) == 0 {
		return kind
	}
	return kind + ":" + strings.Join(parts, ":")
}

// HashText computes a stable, order- and case-sensitive hash of claim text.
// A polynomial rolling hash is sufficient: keys only need to be
// deterministic, not cryptographic.
func HashText(text string) string {
	var h uint64
	for _, r := range text {
		h = h*31 + uint64(r)
	}
	return strconv.FormatUint(h, 36)
}

// ClaimKey builds the cache key for a claim-derived value
func ClaimKey(kind, claimText string, extra ...string) string {
	parts := append([]string{HashText(claimText)}, extra...)
	return Key(kind, parts...)
}
