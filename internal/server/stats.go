package server

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/store"
)

// statsEntry is a cached summary valid while the file keeps its mtime and size.
type statsEntry struct {
	modTime time.Time
	size    int64
	stats   Stats
}

// statsCache summarizes index files, reloading one only when it changes on
// disk. It is safe for concurrent use.
type statsCache struct {
	cache   *lru.Cache[string, statsEntry]
	metrics *Metrics
}

func newStatsCache(size int, m *Metrics) (*statsCache, error) {
	c, err := lru.New[string, statsEntry](size)
	if err != nil {
		return nil, err
	}
	return &statsCache{cache: c, metrics: m}, nil
}

func (c *statsCache) get(path, format string) (Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stats{}, errors.IOError(path, err)
	}

	key := path + "\x00" + format
	if e, ok := c.cache.Get(key); ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		c.metrics.StatsCacheHits.Inc()
		return e.stats, nil
	}
	c.metrics.StatsCacheMisses.Inc()

	s, err := store.ForPath(path, format)
	if err != nil {
		return Stats{}, err
	}
	idx, err := s.Load(path)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Documents: idx.Len(), Terms: idx.Terms()}
	c.cache.Add(key, statsEntry{modTime: info.ModTime(), size: info.Size(), stats: stats})
	return stats, nil
}
