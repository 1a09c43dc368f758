// Package iocache caches PR window fetches across report runs.
package iocache

import (
	"sync"

	"github.com/ehuang2/releaseflow/internal/contract"
)

// CacheStoreManager manages the CacheStore instances behind the manager contract.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	pages        contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetPageStore returns the PR page CacheStore.
func (mgr *CacheStoreManager) GetPageStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.pages
}
