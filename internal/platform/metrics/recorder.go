package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastCallLatency time.Duration
}

type cacheStats struct {
	hits   int
	misses int
}

// Recorder collects provider, cache and HTTP metrics. Every method is nil-safe so
// components can run without telemetry configured.
type Recorder struct {
	mu        sync.Mutex
	providers map[string]*providerStats
	caches    map[string]*cacheStats
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		providers: make(map[string]*providerStats),
		caches:    make(map[string]*cacheStats),
		otel:      otel,
	}
}

// RecordProviderAttempt counts one upstream call, e.g. provider "apifootball", operation "fixtures".
func (r *Recorder) RecordProviderAttempt(provider, operation string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.providerLocked(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	r.otel.recordProviderAttempt(provider, operation, duration, err)
}

func (r *Recorder) RecordRateLimit(provider string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.providerLocked(provider).rateLimitHits++
	r.mu.Unlock()

	r.otel.recordRateLimit(provider)
}

func (r *Recorder) RecordCacheLookup(cache string, hit bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.caches[cache]
	if !ok {
		stats = &cacheStats{}
		r.caches[cache] = stats
	}
	if hit {
		stats.hits++
	} else {
		stats.misses++
	}
	r.mu.Unlock()

	r.otel.recordCacheLookup(cache, hit)
}

func (r *Recorder) RecordBreakerTransition(provider, state string) {
	if r == nil {
		return
	}
	r.otel.recordBreakerTransition(provider, state)
}

func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.otel.recordHTTPRequest(method, route, status, duration)
}

// ProviderReport is a copy of the in-memory counters for one upstream.
type ProviderReport struct {
	Calls           int           `json:"calls"`
	Errors          int           `json:"errors"`
	RateLimitHits   int           `json:"rate_limit_hits"`
	LastCallLatency time.Duration `json:"-"`
	LastCallMillis  int64         `json:"last_call_ms"`
}

type CacheReport struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Report is what /readyz shows about upstreams and caches since start.
type Report struct {
	Providers map[string]ProviderReport `json:"providers"`
	Caches    map[string]CacheReport    `json:"caches"`
}

func (r *Recorder) Report() Report {
	out := Report{
		Providers: map[string]ProviderReport{},
		Caches:    map[string]CacheReport{},
	}
	if r == nil {
		return out
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for name, stats := range r.providers {
		out.Providers[name] = ProviderReport{
			Calls:           stats.calls,
			Errors:          stats.errors,
			RateLimitHits:   stats.rateLimitHits,
			LastCallLatency: stats.lastCallLatency,
			LastCallMillis:  stats.lastCallLatency.Milliseconds(),
		}
	}
	for name, stats := range r.caches {
		out.Caches[name] = CacheReport{Hits: stats.hits, Misses: stats.misses}
	}
	return out
}

func (r *Recorder) providerLocked(provider string) *providerStats {
	stats, ok := r.providers[provider]
	if !ok {
		stats = &providerStats{}
		r.providers[provider] = stats
	}
	return stats
}
