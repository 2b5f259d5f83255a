package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/platform/logging"
)

const defaultFixtureWindowDays = 3

type FixtureServiceConfig struct {
	Location   *time.Location
	WindowDays int
	Logger     *logging.Logger
}

// FixtureService fetches fixtures for a scope and period. It never fails:
// provider problems are logged and surface as an empty list.
type FixtureService struct {
	source     fixture.Source
	location   *time.Location
	windowDays int
	logger     *logging.Logger
	now        func() time.Time
}

func NewFixtureService(source fixture.Source, cfg FixtureServiceConfig) *FixtureService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	windowDays := cfg.WindowDays
	if windowDays <= 0 {
		windowDays = defaultFixtureWindowDays
	}

	return &FixtureService{
		source:     source,
		location:   location,
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *FixtureService) Location() *time.Location {
	return s.location
}

// FetchFixtures loads the fixtures of period. A period the provider does not know
// as a round falls back to a window of WindowDays around today in the competition timezone.
func (s *FixtureService) FetchFixtures(ctx context.Context, scope competition.Scope, period string) []fixture.Fixture {
	ctx, span := startScopeSpan(ctx, "usecase.FixtureService.FetchFixtures", scope)
	defer span.End()

	if err := scope.Validate(); err != nil {
		s.logger.WarnContext(ctx, "skip fixture fetch for invalid scope", "scope", scope.Key(), "error", err)
		return []fixture.Fixture{}
	}

	period = strings.TrimSpace(period)
	if period != "" {
		rounds, err := s.source.Rounds(ctx, scope)
		if err != nil {
			s.logger.WarnContext(ctx, "list rounds failed, using date window", "scope", scope.Key(), "error", err)
		}
		if slices.Contains(rounds, period) {
			items, err := s.source.ListByRound(ctx, scope, period)
			if err != nil {
				s.logger.WarnContext(ctx, "fetch fixtures by round failed", "scope", scope.Key(), "round", period, "error", err)
				return []fixture.Fixture{}
			}
			return nonNilFixtures(items)
		}
	}

	from, to := s.window()
	items, err := s.source.ListByWindow(ctx, scope, from, to)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch fixtures by window failed", "scope", scope.Key(), "from", from, "to", to, "error", err)
		return []fixture.Fixture{}
	}
	return nonNilFixtures(items)
}

// window spans from the start of today minus windowDays to the end of today plus windowDays.
func (s *FixtureService) window() (time.Time, time.Time) {
	local := s.now().In(s.location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	from := today.AddDate(0, 0, -s.windowDays)
	to := today.AddDate(0, 0, s.windowDays+1).Add(-time.Nanosecond)
	return from, to
}

func nonNilFixtures(items []fixture.Fixture) []fixture.Fixture {
	if items == nil {
		return []fixture.Fixture{}
	}
	return items
}
