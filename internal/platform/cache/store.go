package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/prode/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Observer is told whether each lookup was a hit.
type Observer func(hit bool)

type Option func(*Store)

// WithMaxEntries bounds the store. Expired entries are evicted first, then an arbitrary one.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		s.maxEntries = n
	}
}

func WithObserver(observer Observer) Option {
	return func(s *Store) {
		s.observer = observer
	}
}

// Store is an in-process TTL cache with single-flight loading.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	observer   Observer
	flight     resilience.SingleFlight
	now        func() time.Time
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	value, ok := s.lookup(key)
	if s.observer != nil && key != "" {
		s.observer(ok)
	}
	return value, ok
}

func (s *Store) lookup(key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(e, s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	now := s.now()
	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictLocked(now)
	}
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
}

// GetOrLoad returns the cached value or runs loader once for all concurrent misses of key.
// Loader errors are not cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.lookup(key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) expired(e entry, now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}

func (s *Store) evictLocked(now time.Time) {
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
		}
	}
	if len(s.entries) < s.maxEntries {
		return
	}
	for key := range s.entries {
		delete(s.entries, key)
		return
	}
}
