// Package cache memoizes analysis results by dataset content. Concurrent
// requests for the same content share a single computation.
package cache

import (
	"container/list"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/KaramelBytes/tabinsight-cli/internal/analysis"
	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/KaramelBytes/tabinsight-cli/internal/logging"
	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces metrics for a dataset. analysis.Compute is the default.
type ComputeFunc func(*dataset.Dataset, analysis.Options) *analysis.Metrics

// Stats counts cache outcomes.
type Stats struct {
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Entries int `json:"entries"`
}

type entry struct {
	key string
	m   *analysis.Metrics
}

// Cache is a bounded LRU of metrics. Returned metrics are shared between
// callers and must be treated as read-only.
type Cache struct {
	compute ComputeFunc
	max     int
	group   singleflight.Group

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List
	stats Stats
}

// New returns a cache holding up to max results; max <= 0 disables storage
// but still deduplicates in-flight work.
func New(max int, compute ComputeFunc) *Cache {
	if compute == nil {
		compute = analysis.Compute
	}
	return &Cache{
		compute: compute,
		max:     max,
		items:   map[string]*list.Element{},
		order:   list.New(),
	}
}

// Key identifies a dataset's content under a set of options.
func Key(ds *dataset.Dataset, opt analysis.Options) (string, error) {
	fp, err := ds.Fingerprint()
	if err != nil {
		return "", err
	}
	ob, err := json.Marshal(opt)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return fp + ":" + string(ob), nil
}

// Analyze returns the metrics of ds, computing them at most once per key.
// The result carries ds.Name even when it was computed for an identical
// dataset under another name.
func (c *Cache) Analyze(ds *dataset.Dataset, opt analysis.Options) (*analysis.Metrics, error) {
	if opt.Rules != nil {
		// custom rule tables are not part of the key
		return c.compute(ds, opt), nil
	}
	key, err := Key(ds, opt)
	if err != nil {
		return nil, err
	}
	if m, ok := c.lookup(key); ok {
		return rename(m, ds), nil
	}
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if m, ok := c.peek(key); ok {
			return m, nil
		}
		logging.WithComponent("cache").Debug("computing metrics", "dataset", ds.Name, "rows", ds.Len())
		m := c.compute(ds, opt)
		c.store(key, m)
		return m, nil
	})
	return rename(v.(*analysis.Metrics), ds), nil
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = c.order.Len()
	return s
}

func (c *Cache) lookup(key string) (*analysis.Metrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.order.MoveToFront(el)
	return el.Value.(*entry).m, true
}

func (c *Cache) peek(key string) (*analysis.Metrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return el.Value.(*entry).m, true
}

func (c *Cache) store(key string, m *analysis.Metrics) {
	if c.max <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*entry).m = m
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&entry{key: key, m: m})
	for c.order.Len() > c.max {
		last := c.order.Back()
		c.order.Remove(last)
		delete(c.items, last.Value.(*entry).key)
	}
}

func rename(m *analysis.Metrics, ds *dataset.Dataset) *analysis.Metrics {
	if ds == nil || m.Name == ds.Name {
		return m
	}
	cp := *m
	cp.Name = ds.Name
	return &cp
}
