package observability

import (
	"strconv"
	"sync"
	"time"
)

type routeStats struct {
	requests      int64
	errors        int64
	totalDuration time.Duration
}

// Metrics keeps in-process per-route counters. Keys combine path, method and
// outcome so a scrape or a debug dump can break traffic down by endpoint.
type Metrics struct {
	mu    sync.Mutex
	stats map[string]*routeStats
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{stats: make(map[string]*routeStats)}
}

// RecordRequest counts a completed request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.route(path + "|" + method + "|" + strconv.Itoa(status))
	s.requests++
	s.totalDuration += duration
}

// RecordError counts a request that failed with the given error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.route(path + "|" + method + "|" + code).errors++
}

func (m *Metrics) route(key string) *routeStats {
	s, ok := m.stats[key]
	if !ok {
		s = &routeStats{}
		m.stats[key] = s
	}
	return s
}
