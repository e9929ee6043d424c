// evictor.go houses the eviction loop for HostCache.  Every interval it
// scans the map and removes:
//
//   - hosts idle longer than idleTTL
//   - least-recently-used hosts when the map exceeds maxEntries
//
// Each eviction is logged at debug level and counted in Prometheus.
package domain

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/metrics"
)

func (c *HostCache) evictLoop(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-t.C:
			c.evict(now)
		}
	}
}

func (c *HostCache) evict(at time.Time) {
	now := at.UnixNano()
	var count int

	// Idle pass.
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
		if idle > c.idleTTL {
			c.drop(key.(string), "idle")
			return true
		}
		count++
		return true
	})

	// LRU pass.
	if c.maxEntries <= 0 || count <= c.maxEntries {
		return
	}
	type kv struct {
		host string
		at   int64
	}
	all := make([]kv, 0, count)
	c.m.Range(func(key, value any) bool {
		all = append(all, kv{host: key.(string), at: atomic.LoadInt64(&value.(*entry).lastSeen)})
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
	for i := 0; i < len(all)-c.maxEntries; i++ {
		c.drop(all[i].host, "lru")
	}
}

func (c *HostCache) drop(host, reason string) {
	if _, ok := c.m.LoadAndDelete(host); ok {
		zap.L().Debug("host evicted", zap.String("host", host), zap.String("reason", reason))
		metrics.HostEvictTotal.Inc()
		metrics.ActiveHosts.Dec()
	}
}
