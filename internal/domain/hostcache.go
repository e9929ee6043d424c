// internal/domain/hostcache.go
//
// Host → page cache for custom-domain traffic.
//
// Context
// -------
// Every request on a custom host needs the page id behind it.  The cache
// keeps that mapping in a sync.Map, loads misses through singleflight so a
// burst on a cold host costs one query, and runs a background evictor that
// drops idle hosts and trims the map to maxEntries by LRU.  Negative
// lookups are not cached; unknown hosts always reach the loader.
//
// A load is shared by every caller waiting on the host, so it runs detached
// from the first caller's cancellation under its own timeout.  Invalidate
// bumps a generation counter; a load that started before the bump returns
// its result to its waiters but does not store it.
//
// Workflow
// --------
//  1. Get(host) → hit → bump lastSeen.
//  2. Miss → singleflight → Loader → store entry unless invalidated meanwhile.
//  3. Invalidate(host) after a domain is verified, failed, or deleted.
//  4. Close() stops the evictor.
package domain

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/linkbio/internal/metrics"
)

// EvictInterval is how often the evictor scans.
const EvictInterval = 5 * time.Minute

// loadTimeout bounds a shared load.
const loadTimeout = 5 * time.Second

// Loader resolves an uncached host.
type Loader func(ctx context.Context, host string) (int64, error)

type entry struct {
	pageID   int64
	lastSeen int64 // UnixNano
}

// HostCache maps verified custom hosts to page ids.
type HostCache struct {
	load       Loader
	sfg        singleflight.Group
	m          sync.Map
	mu         sync.Mutex // orders Store against Invalidate
	gen        uint64
	idleTTL    time.Duration
	maxEntries int
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewHostCache constructs a cache and starts the evictor.
func NewHostCache(load Loader, idleTTL time.Duration, maxEntries int) *HostCache {
	c := newHostCache(load, idleTTL, maxEntries)
	go c.evictLoop(EvictInterval)
	return c
}

func newHostCache(load Loader, idleTTL time.Duration, maxEntries int) *HostCache {
	return &HostCache{
		load:       load,
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}
}

// Get returns the page id for host, loading it on demand.
func (c *HostCache) Get(ctx context.Context, host string) (int64, error) {
	if v, ok := c.m.Load(host); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.pageID, nil
	}

	ch := c.sfg.DoChan(host, func() (any, error) {
		// Double-check after the singleflight barrier.
		if v, ok := c.m.Load(host); ok {
			return v.(*entry).pageID, nil
		}
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		id, err := c.load(lctx, host)
		if err != nil {
			metrics.HostLoadErrorsTotal.Inc()
			return int64(0), err
		}
		metrics.HostLoadTotal.Inc()
		c.store(host, id, gen)
		return id, nil
	})
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int64), nil
	}
}

// store caches id unless an Invalidate happened since gen was read.
func (c *HostCache) store(host string, id int64, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	if _, loaded := c.m.Swap(host, &entry{pageID: id, lastSeen: time.Now().UnixNano()}); !loaded {
		metrics.ActiveHosts.Inc()
	}
}

// Invalidate drops host so the next request reloads it.  A load already in
// flight is forgotten and its result is not stored.
func (c *HostCache) Invalidate(host string) {
	c.mu.Lock()
	c.gen++
	_, ok := c.m.LoadAndDelete(host)
	c.mu.Unlock()
	c.sfg.Forget(host)
	if ok {
		metrics.ActiveHosts.Dec()
	}
}

// Len reports the number of cached hosts.
func (c *HostCache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Close stops the evictor.  Safe to call more than once.
func (c *HostCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}
