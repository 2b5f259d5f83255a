package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	basecache "github.com/riskibarqy/prode/internal/platform/cache"
)

var _ fixture.Source = (*FixtureSource)(nil)

// FixtureSource caches round lists, which only change between seasons.
// Fixture reads pass straight through so live scores stay fresh.
type FixtureSource struct {
	next  fixture.Source
	cache *basecache.Store
}

func NewFixtureSource(next fixture.Source, cache *basecache.Store) *FixtureSource {
	return &FixtureSource{next: next, cache: cache}
}

func (s *FixtureSource) Rounds(ctx context.Context, scope competition.Scope) ([]string, error) {
	v, err := s.cache.GetOrLoad(ctx, "rounds:"+scope.Key(), func(ctx context.Context) (any, error) {
		items, err := s.next.Rounds(ctx, scope)
		if err != nil {
			return nil, err
		}
		return append([]string(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]string)
	return append([]string(nil), items...), nil
}

func (s *FixtureSource) ListByRound(ctx context.Context, scope competition.Scope, round string) ([]fixture.Fixture, error) {
	return s.next.ListByRound(ctx, scope, round)
}

func (s *FixtureSource) ListByWindow(ctx context.Context, scope competition.Scope, from, to time.Time) ([]fixture.Fixture, error) {
	return s.next.ListByWindow(ctx, scope, from, to)
}
