// Package perf keeps a bounded in-memory record of request and query timings
// for the admin performance endpoint.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD /path" for requests, TimedDB operation for queries
	StatusCode int    // 0 for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of timing entries. When full the
// oldest entry is overwritten. Aggregation only happens in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding up to size entries.
// A non-positive size means DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the buffer is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot is the aggregated view served to administrators.
type Snapshot struct {
	TotalRequests  int64      `json:"totalRequests"`
	ServerErrors   int        `json:"serverErrors"`
	RequestP50Ms   float64    `json:"p50Ms"`
	RequestP95Ms   float64    `json:"p95Ms"`
	RequestP99Ms   float64    `json:"p99Ms"`
	SlowestPaths   []PathStat `json:"slowestPaths"`
	SlowestQueries []PathStat `json:"slowestQueries"`
}

// PathStat aggregates timing for one request path or query kind.
type PathStat struct {
	Path    string  `json:"path"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"totalMs"`
}

func (s *PathStat) add(ms float64) {
	s.Count++
	s.TotalMs += ms
	s.MaxMs = max(s.MaxMs, ms)
}

// Snapshot aggregates entries recorded at or after since, keeping the topN
// slowest paths and queries by average duration.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	var durations []float64
	requests := make(map[string]*PathStat)
	queries := make(map[string]*PathStat)
	snap := Snapshot{TotalRequests: c.TotalRecorded()}

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		bucket := queries
		if e.Kind == KindRequest {
			bucket = requests
			durations = append(durations, e.DurationMs)
			if e.StatusCode >= 500 {
				snap.ServerErrors++
			}
		}
		s, ok := bucket[e.Path]
		if !ok {
			s = &PathStat{Path: e.Path}
			bucket[e.Path] = s
		}
		s.add(e.DurationMs)
	}

	snap.SlowestPaths = topByAvg(requests, topN)
	snap.SlowestQueries = topByAvg(queries, topN)
	if len(durations) > 0 {
		slices.Sort(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower, upper := int(math.Floor(idx)), int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	slices.SortFunc(list, func(a, b PathStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
