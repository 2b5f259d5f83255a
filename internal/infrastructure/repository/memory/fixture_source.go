package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
)

var _ fixture.Source = (*StaticFixtureSource)(nil)

// StaticFixtureSource serves a fixed fixture list per scope. It backs local
// development and is the fallback tier behind the live provider.
type StaticFixtureSource struct {
	mu      sync.RWMutex
	byScope map[string][]fixture.Fixture
}

func NewStaticFixtureSource(fixtures map[competition.Scope][]fixture.Fixture) *StaticFixtureSource {
	byScope := make(map[string][]fixture.Fixture, len(fixtures))
	for scope, items := range fixtures {
		sorted := append([]fixture.Fixture(nil), items...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].KickoffAt.Before(sorted[j].KickoffAt)
		})
		byScope[scope.Key()] = sorted
	}
	return &StaticFixtureSource{byScope: byScope}
}

// Rounds lists rounds in order of their first kickoff.
func (s *StaticFixtureSource) Rounds(_ context.Context, scope competition.Scope) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range s.byScope[scope.Key()] {
		if item.Round == "" {
			continue
		}
		if _, ok := seen[item.Round]; ok {
			continue
		}
		seen[item.Round] = struct{}{}
		out = append(out, item.Round)
	}
	return out, nil
}

func (s *StaticFixtureSource) ListByRound(_ context.Context, scope competition.Scope, round string) ([]fixture.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range s.byScope[scope.Key()] {
		if item.Round == round {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *StaticFixtureSource) ListByWindow(_ context.Context, scope competition.Scope, from, to time.Time) ([]fixture.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range s.byScope[scope.Key()] {
		if item.KickoffAt.Before(from) || item.KickoffAt.After(to) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
