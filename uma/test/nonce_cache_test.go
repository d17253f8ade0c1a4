package uma_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma"
)

func TestNonceCacheRejectsReplay(t *testing.T) {
	cache := uma.NewInMemoryNonceCache(time.Unix(0, 0))
	err := cache.CheckAndSaveNonce("nonce1", time.Now())
	require.NoError(t, err)
	err = cache.CheckAndSaveNonce("nonce1", time.Now())
	require.Error(t, err)
}

func TestNonceCacheAcceptsDistinctNonces(t *testing.T) {
	cache := uma.NewInMemoryNonceCache(time.Unix(0, 0))
	require.NoError(t, cache.CheckAndSaveNonce("nonce1", time.Now()))
	require.NoError(t, cache.CheckAndSaveNonce("nonce2", time.Now()))
}

func TestNonceCacheRejectsOldTimestamps(t *testing.T) {
	cache := uma.NewInMemoryNonceCache(time.Now())
	err := cache.CheckAndSaveNonce("nonce1", time.Now().Add(-time.Hour))
	require.Error(t, err)
}

func TestNonceCachePurgeClosesReplayWindow(t *testing.T) {
	cache := uma.NewInMemoryNonceCache(time.Unix(0, 0))
	oldTime := time.Now().Add(-2 * time.Hour)
	require.NoError(t, cache.CheckAndSaveNonce("nonce1", oldTime))

	// Purging forgets the nonce but also raises the floor, so the purged
	// nonce cannot be replayed with its old timestamp.
	require.NoError(t, cache.PurgeNoncesOlderThan(time.Now().Add(-time.Hour)))
	err := cache.CheckAndSaveNonce("nonce1", oldTime)
	require.Error(t, err)

	// Fresh nonces with current timestamps are still accepted.
	require.NoError(t, cache.CheckAndSaveNonce("nonce2", time.Now()))
}
