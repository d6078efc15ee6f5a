package resolver

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/weftlabs/weft-go/pkg/core/contract"
	"github.com/weftlabs/weft-go/pkg/util"
)

// DefaultCacheSize is the number of resolutions kept by a Cached resolver
// when no explicit size is given.
const DefaultCacheSize = 1000

// Cached wraps another OrdResolver with an LRU cache of successful
// resolutions. Failed resolutions are not cached, a witness unknown now can
// become known later. A mined witness can move on a chain reorganisation, so
// cached entries of a live chain source need Invalidate calls on reorg.
type Cached struct {
	backend contract.OrdResolver
	cache   *lru.Cache
}

// NewCached wraps the given resolver with a cache of the given size, any
// non-positive size means DefaultCacheSize.
func NewCached(backend contract.OrdResolver, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New(size) // Never errors for positive size.
	return &Cached{backend: backend, cache: cache}
}

// ResolveOrd implements the contract.OrdResolver interface.
func (c *Cached) ResolveOrd(witness util.Uint256) (contract.WitnessOrd, error) {
	if ord, ok := c.cache.Get(witness); ok {
		return ord.(contract.WitnessOrd), nil
	}
	ord, err := c.backend.ResolveOrd(witness)
	if err != nil {
		return contract.WitnessOrd{}, err
	}
	c.cache.Add(witness, ord)
	return ord, nil
}

// Invalidate drops the cached resolution of the given witness, the next
// ResolveOrd call goes through to the backend again.
func (c *Cached) Invalidate(witness util.Uint256) {
	c.cache.Remove(witness)
}
