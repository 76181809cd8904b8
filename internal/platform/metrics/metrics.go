package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   atomic.Uint64
	serverErrors    atomic.Uint64
	clientErrors    atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64
	importedRows    atomic.Uint64
	importFailures  atomic.Uint64
	exportedRows    atomic.Uint64

	routes sync.Map
}

func New() *Collector {
	return &Collector{}
}

// Record counts one finished request. route is the matched route pattern.
func (c *Collector) Record(route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.totalRequests.Add(1)
	switch {
	case status == 429:
		c.rateLimited.Add(1)
		c.clientErrors.Add(1)
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
	if route != "" {
		counter, _ := c.routes.LoadOrStore(route, new(atomic.Uint64))
		counter.(*atomic.Uint64).Add(1)
	}
}

func (c *Collector) RecordImport(persisted, failed int) {
	if c == nil {
		return
	}
	c.importedRows.Add(uint64(persisted))
	c.importFailures.Add(uint64(failed))
}

func (c *Collector) RecordExport(rows int) {
	if c == nil {
		return
	}
	c.exportedRows.Add(uint64(rows))
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	routes := map[string]uint64{}
	keys := []string{}
	c.routes.Range(func(key, value any) bool {
		keys = append(keys, key.(string))
		routes[key.(string)] = value.(*atomic.Uint64).Load()
		return true
	})
	sort.Strings(keys)
	ordered := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, map[string]any{"route": key, "count": routes[key]})
	}

	return map[string]any{
		"requestsTotal":     total,
		"serverErrorsTotal": c.serverErrors.Load(),
		"clientErrorsTotal": c.clientErrors.Load(),
		"rateLimitedTotal":  c.rateLimited.Load(),
		"avgDurationMs":     avg,
		"totalDurationMs":   totalMs,
		"importedRowsTotal": c.importedRows.Load(),
		"importErrorsTotal": c.importFailures.Load(),
		"exportedRowsTotal": c.exportedRows.Load(),
		"routes":            ordered,
	}
}
