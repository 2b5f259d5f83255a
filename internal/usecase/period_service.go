package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/platform/logging"
)

const defaultResolverConcurrency = 4

// PeriodService lists the rounds ("fechas") of a competition scope and picks the current one.
type PeriodService struct {
	source      fixture.Source
	concurrency int
	logger      *logging.Logger
	now         func() time.Time
}

func NewPeriodService(source fixture.Source, concurrency int, logger *logging.Logger) *PeriodService {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency <= 0 {
		concurrency = defaultResolverConcurrency
	}
	return &PeriodService{
		source:      source,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// AvailableFechas returns the provider round list in provider order.
// Provider failures are logged and produce an empty list.
func (s *PeriodService) AvailableFechas(ctx context.Context, scope competition.Scope) []string {
	ctx, span := startScopeSpan(ctx, "usecase.PeriodService.AvailableFechas", scope)
	defer span.End()

	if err := scope.Validate(); err != nil {
		s.logger.WarnContext(ctx, "skip round lookup for invalid scope", "scope", scope.Key(), "error", err)
		return []string{}
	}

	rounds, err := s.source.Rounds(ctx, scope)
	if err != nil {
		s.logger.WarnContext(ctx, "list rounds failed", "scope", scope.Key(), "error", err)
		return []string{}
	}
	if rounds == nil {
		return []string{}
	}
	return rounds
}

// roundSnapshot summarises one candidate round for default selection.
type roundSnapshot struct {
	round         string
	live          int
	nextKickoff   time.Time
	lastFinalAt   time.Time
	hasUpcoming   bool
	hasCompletion bool
}

// ResolveDefaultFecha picks the round a user most likely wants to see.
// It returns "" when fechas is empty.
func (s *PeriodService) ResolveDefaultFecha(ctx context.Context, scope competition.Scope, fechas []string) string {
	ctx, span := startScopeSpan(ctx, "usecase.PeriodService.ResolveDefaultFecha", scope)
	defer span.End()

	if len(fechas) == 0 {
		return ""
	}

	now := s.now()
	snapshots := make([]roundSnapshot, len(fechas))
	workers := pool.New().WithMaxGoroutines(s.concurrency)
	for i, round := range fechas {
		workers.Go(func() {
			items, err := s.source.ListByRound(ctx, scope, round)
			if err != nil {
				s.logger.WarnContext(ctx, "list fixtures for round failed", "scope", scope.Key(), "round", round, "error", err)
				items = nil
			}
			snapshots[i] = summarizeRound(round, items, now)
		})
	}
	workers.Wait()

	return pickDefaultFecha(snapshots)
}

func summarizeRound(round string, items []fixture.Fixture, now time.Time) roundSnapshot {
	snap := roundSnapshot{round: strings.TrimSpace(round)}
	for _, item := range items {
		switch item.Status() {
		case fixture.StatusLive:
			snap.live++
		case fixture.StatusFinal:
			if !snap.hasCompletion || item.KickoffAt.After(snap.lastFinalAt) {
				snap.lastFinalAt = item.KickoffAt
			}
			snap.hasCompletion = true
		default:
			if item.KickoffAt.Before(now) {
				continue
			}
			if !snap.hasUpcoming || item.KickoffAt.Before(snap.nextKickoff) {
				snap.nextKickoff = item.KickoffAt
			}
			snap.hasUpcoming = true
		}
	}
	return snap
}

// pickDefaultFecha applies, in order: most live fixtures (earliest round wins ties),
// soonest upcoming kickoff (earliest round wins ties), latest completed round
// (later round wins ties), and finally the first round.
func pickDefaultFecha(snapshots []roundSnapshot) string {
	if len(snapshots) == 0 {
		return ""
	}

	var live, upcoming, completed *roundSnapshot
	for i := range snapshots {
		snap := &snapshots[i]
		if snap.live > 0 && (live == nil || snap.live > live.live) {
			live = snap
		}
		if snap.hasUpcoming && (upcoming == nil || snap.nextKickoff.Before(upcoming.nextKickoff)) {
			upcoming = snap
		}
		if snap.hasCompletion && (completed == nil || !snap.lastFinalAt.Before(completed.lastFinalAt)) {
			completed = snap
		}
	}

	switch {
	case live != nil:
		return live.round
	case upcoming != nil:
		return upcoming.round
	case completed != nil:
		return completed.round
	default:
		return snapshots[0].round
	}
}
