package uma

import (
	"sync"
	"time"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
)

// NonceCache is an interface for a cache of nonces used in signatures. This is used to prevent replay attacks.
//
// Implementations of this interface should be thread-safe.
type NonceCache interface {
	// CheckAndSaveNonce checks if a nonce has been used before, and if not, saves it and returns nil.
	// If the nonce has been used before, or if timestamp is too old, returns an error.
	CheckAndSaveNonce(nonce string, timestamp time.Time) error

	// PurgeNoncesOlderThan removes all nonces older than the given timestamp. This allows the cache to be
	// pruned without opening a replay window: any message with a timestamp before the new limit is
	// rejected outright, seen or not.
	PurgeNoncesOlderThan(timestamp time.Time) error
}

// InMemoryNonceCache is an in-memory NonceCache. It is suitable for a single
// server instance; multi-node deployments should back the interface with a
// shared store instead.
type InMemoryNonceCache struct {
	mutex              sync.Mutex
	cache              map[string]time.Time
	oldestValidNonceAt time.Time
}

func NewInMemoryNonceCache(oldestValidNonceAt time.Time) *InMemoryNonceCache {
	return &InMemoryNonceCache{
		cache:              make(map[string]time.Time),
		oldestValidNonceAt: oldestValidNonceAt,
	}
}

func (c *InMemoryNonceCache) CheckAndSaveNonce(nonce string, timestamp time.Time) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if timestamp.Before(c.oldestValidNonceAt) {
		return &errors.UmaError{
			Reason:    "timestamp too old",
			ErrorCode: generated.InvalidNonce,
		}
	}
	if _, seen := c.cache[nonce]; seen {
		return &errors.UmaError{
			Reason:    "nonce already used",
			ErrorCode: generated.InvalidNonce,
		}
	}
	c.cache[nonce] = timestamp
	return nil
}

func (c *InMemoryNonceCache) PurgeNoncesOlderThan(timestamp time.Time) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for nonce, nonceTimestamp := range c.cache {
		if nonceTimestamp.Before(timestamp) {
			delete(c.cache, nonce)
		}
	}
	if timestamp.After(c.oldestValidNonceAt) {
		c.oldestValidNonceAt = timestamp
	}
	return nil
}
