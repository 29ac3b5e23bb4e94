package perf

import (
	"sync"
	"testing"
	"time"
)

func TestCollector_Snapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Path: "GET /api/profile", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /api/profile", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "POST /api/log-hours", StatusCode: 500, DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "SELECT", DurationMs: 2, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRequests != 4 {
		t.Errorf("TotalRequests = %d, want 4", snap.TotalRequests)
	}
	if snap.ServerErrors != 1 {
		t.Errorf("ServerErrors = %d, want 1", snap.ServerErrors)
	}
	if len(snap.SlowestPaths) != 2 || snap.SlowestPaths[0].Path != "GET /api/profile" {
		t.Fatalf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if got := snap.SlowestPaths[0]; got.AvgMs != 20 || got.MaxMs != 30 || got.Count != 2 {
		t.Errorf("profile stat = %+v", got)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Count != 1 {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
}

func TestCollector_RingOverwritesOldest(t *testing.T) {
	c := NewCollector(2)
	now := time.Now()
	for _, p := range []string{"a", "b", "c"} {
		c.Record(Entry{Kind: KindRequest, Path: p, DurationMs: 1, Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Second), 10)
	if len(snap.SlowestPaths) != 2 {
		t.Fatalf("paths = %+v", snap.SlowestPaths)
	}
	for _, s := range snap.SlowestPaths {
		if s.Path == "a" {
			t.Error("oldest entry survived")
		}
	}
	if c.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d", c.TotalRecorded())
	}
}

func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Second), 1)
	if snap.RequestP50Ms < 50 || snap.RequestP50Ms > 51 {
		t.Errorf("p50 = %v", snap.RequestP50Ms)
	}
	if snap.RequestP99Ms < 99 {
		t.Errorf("p99 = %v", snap.RequestP99Ms)
	}
}

func TestCollector_SinceFilter(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Path: "old", DurationMs: 1, Timestamp: now.Add(-time.Hour)})
	c.Record(Entry{Kind: KindRequest, Path: "new", DurationMs: 1, Timestamp: now})
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "new" {
		t.Errorf("paths = %+v", snap.SlowestPaths)
	}
}

func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(64)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Record(Entry{Kind: KindQuery, Path: "SELECT", DurationMs: 1, Timestamp: time.Now()})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 800 {
		t.Errorf("TotalRecorded = %d, want 800", c.TotalRecorded())
	}
}
