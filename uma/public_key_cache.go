package uma

import (
	"sync"
	"time"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/protocol"
)

// PublicKeyCache is an interface for a cache of public keys for other VASPs.
//
// Implementations of this interface should be thread-safe.
type PublicKeyCache interface {
	// FetchPublicKeyForVasp fetches the public key entry for a VASP if in the cache, otherwise returns nil.
	FetchPublicKeyForVasp(vaspDomain string) *protocol.PubKeyResponse

	// AddPublicKeyForVasp adds a public key entry for a VASP to the cache.
	AddPublicKeyForVasp(vaspDomain string, pubKey *protocol.PubKeyResponse)

	// RemovePublicKeyForVasp removes the public key entry for a VASP from the cache.
	RemovePublicKeyForVasp(vaspDomain string)

	// Clear clears the cache.
	Clear()
}

// InMemoryPublicKeyCache caches key responses until their advertised
// expiration. Expired entries are evicted on read, and an already-expired
// response is never stored.
type InMemoryPublicKeyCache struct {
	mutex sync.Mutex
	cache map[string]*protocol.PubKeyResponse
}

func NewInMemoryPublicKeyCache() *InMemoryPublicKeyCache {
	return &InMemoryPublicKeyCache{
		cache: make(map[string]*protocol.PubKeyResponse),
	}
}

func (c *InMemoryPublicKeyCache) FetchPublicKeyForVasp(vaspDomain string) *protocol.PubKeyResponse {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	entry := c.cache[vaspDomain]
	if entry == nil {
		return nil
	}
	if entry.ExpirationTimestamp != nil && time.Now().Unix() >= *entry.ExpirationTimestamp {
		delete(c.cache, vaspDomain)
		return nil
	}
	return entry
}

func (c *InMemoryPublicKeyCache) AddPublicKeyForVasp(vaspDomain string, pubKey *protocol.PubKeyResponse) {
	if pubKey.ExpirationTimestamp != nil && time.Now().Unix() >= *pubKey.ExpirationTimestamp {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.cache[vaspDomain] = pubKey
}

func (c *InMemoryPublicKeyCache) RemovePublicKeyForVasp(vaspDomain string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.cache, vaspDomain)
}

func (c *InMemoryPublicKeyCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.cache = make(map[string]*protocol.PubKeyResponse)
}
