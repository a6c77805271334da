// Package metrics keeps process-wide pipeline counters for the monitoring
// endpoints. Not a metrics backend: numbers live in memory and reset with
// the process.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	UpstreamFetches int64
	FetchFailures   int64
	CacheHits       int64
	CacheMisses     int64
	StaleServed     int64
	ArticlesDropped int64

	// Status
	LastFetchTime time.Time
	LastErrorTime time.Time
	LastError     string
	healthy       bool
}

var Global = &Metrics{healthy: true}

func (m *Metrics) IncrementFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpstreamFetches++
}

func (m *Metrics) IncrementCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *Metrics) IncrementCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *Metrics) IncrementStaleServed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaleServed++
}

func (m *Metrics) AddArticlesDropped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesDropped += int64(n)
}

// SetFetchOK marks a successful upstream fetch and restores health.
func (m *Metrics) SetFetchOK() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFetchTime = time.Now()
	m.healthy = true
}

// SetError records a batch-level failure (network or parse).
func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchFailures++
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.healthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"upstream_fetches": m.UpstreamFetches,
		"fetch_failures":   m.FetchFailures,
		"cache_hits":       m.CacheHits,
		"cache_misses":     m.CacheMisses,
		"stale_served":     m.StaleServed,
		"articles_dropped": m.ArticlesDropped,
		"last_fetch_time":  m.LastFetchTime.Format(time.RFC3339),
		"last_error_time":  m.LastErrorTime.Format(time.RFC3339),
		"last_error":       m.LastError,
		"is_healthy":       m.healthy,
	}
}

// Reset zeroes every counter. Intended for tests.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpstreamFetches = 0
	m.FetchFailures = 0
	m.CacheHits = 0
	m.CacheMisses = 0
	m.StaleServed = 0
	m.ArticlesDropped = 0
	m.LastFetchTime = time.Time{}
	m.LastErrorTime = time.Time{}
	m.LastError = ""
	m.healthy = true
}
