package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/platform/logging"
)

var errNoScoreData = errors.New("no round could be fetched")

// ScoreMapCache memoises score maps. Implementations collapse concurrent
// loads of one key and must not store loader errors.
type ScoreMapCache interface {
	GetOrLoad(ctx context.Context, key string, load func(context.Context) (fixture.ScoreMap, error)) (fixture.ScoreMap, error)
}

// ScoreMapService resolves live and final results for a set of rounds of one scope.
type ScoreMapService struct {
	source      fixture.Source
	cache       ScoreMapCache
	concurrency int
	logger      *logging.Logger
}

func NewScoreMapService(source fixture.Source, cache ScoreMapCache, concurrency int, logger *logging.Logger) *ScoreMapService {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency <= 0 {
		concurrency = defaultResolverConcurrency
	}
	return &ScoreMapService{
		source:      source,
		cache:       cache,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ScoreMapKey is "scoremap:{leagueId}:{season}:{stage}:{sorted periods}".
func ScoreMapKey(scope competition.Scope, periods []string) string {
	return fmt.Sprintf("scoremap:%s:%s", scope.Key(), strings.Join(normalizePeriods(periods), ","))
}

// ScoreMap never fails; rounds that cannot be fetched contribute nothing.
func (s *ScoreMapService) ScoreMap(ctx context.Context, scope competition.Scope, periods []string) fixture.ScoreMap {
	ctx, span := startScopeSpan(ctx, "usecase.ScoreMapService.ScoreMap", scope)
	defer span.End()

	periods = normalizePeriods(periods)
	if len(periods) == 0 || scope.Validate() != nil {
		return fixture.ScoreMap{}
	}

	load := func(ctx context.Context) (fixture.ScoreMap, error) {
		return s.load(ctx, scope, periods)
	}

	var (
		scores fixture.ScoreMap
		err    error
	)
	if s.cache != nil {
		scores, err = s.cache.GetOrLoad(ctx, ScoreMapKey(scope, periods), load)
	} else {
		scores, err = load(ctx)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "resolve score map failed", "scope", scope.Key(), "periods", periods, "error", err)
		return fixture.ScoreMap{}
	}
	return scores
}

func (s *ScoreMapService) load(ctx context.Context, scope competition.Scope, periods []string) (fixture.ScoreMap, error) {
	results := make([]fixture.ScoreMap, len(periods))
	failed := make([]bool, len(periods))

	workers := pool.New().WithMaxGoroutines(s.concurrency)
	for i, period := range periods {
		workers.Go(func() {
			items, err := s.source.ListByRound(ctx, scope, period)
			if err != nil {
				s.logger.WarnContext(ctx, "fetch round for score map failed", "scope", scope.Key(), "round", period, "error", err)
				failed[i] = true
				return
			}
			results[i] = fixture.Scores(items)
		})
	}
	workers.Wait()

	if !slices.Contains(failed, false) {
		return nil, errNoScoreData
	}

	merged := make(fixture.ScoreMap)
	for _, scores := range results {
		for id, score := range scores {
			merged[id] = score
		}
	}
	return merged, nil
}

func normalizePeriods(periods []string) []string {
	out := make([]string, 0, len(periods))
	for _, p := range periods {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
