package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/platform/logging"
)

// TieredSource asks the live provider first and answers from the fallback
// (static) source when the provider errors or returns nothing.
type TieredSource struct {
	primary  fixture.Source
	fallback fixture.Source
	logger   *logging.Logger
}

var _ fixture.Source = (*TieredSource)(nil)

func NewTieredSource(primary, fallback fixture.Source, logger *logging.Logger) *TieredSource {
	if logger == nil {
		logger = logging.Default()
	}
	return &TieredSource{primary: primary, fallback: fallback, logger: logger}
}

func (s *TieredSource) Rounds(ctx context.Context, scope competition.Scope) ([]string, error) {
	return tiered(ctx, s, "rounds", func(src fixture.Source) ([]string, error) {
		return src.Rounds(ctx, scope)
	})
}

func (s *TieredSource) ListByRound(ctx context.Context, scope competition.Scope, round string) ([]fixture.Fixture, error) {
	return tiered(ctx, s, "fixtures_by_round", func(src fixture.Source) ([]fixture.Fixture, error) {
		return src.ListByRound(ctx, scope, round)
	})
}

func (s *TieredSource) ListByWindow(ctx context.Context, scope competition.Scope, from, to time.Time) ([]fixture.Fixture, error) {
	return tiered(ctx, s, "fixtures_by_window", func(src fixture.Source) ([]fixture.Fixture, error) {
		return src.ListByWindow(ctx, scope, from, to)
	})
}

func tiered[T any](ctx context.Context, s *TieredSource, operation string, call func(fixture.Source) ([]T, error)) ([]T, error) {
	var primaryErr error
	if s.primary != nil {
		items, err := call(s.primary)
		if err == nil && len(items) > 0 {
			return items, nil
		}
		primaryErr = err
	}
	if s.fallback == nil {
		return nil, primaryErr
	}

	if primaryErr != nil {
		s.logger.WarnContext(ctx, "live fixture source failed, serving static data", "operation", operation, "error", primaryErr)
	}
	items, err := call(s.fallback)
	if err != nil {
		if primaryErr != nil {
			return nil, primaryErr
		}
		return nil, err
	}
	return items, nil
}
