package cache

import (
	"context"
	"maps"

	"github.com/riskibarqy/prode/internal/domain/fixture"
	basecache "github.com/riskibarqy/prode/internal/platform/cache"
	"github.com/riskibarqy/prode/internal/usecase"
)

var _ usecase.ScoreMapCache = (*ScoreMapStore)(nil)

// ScoreMapStore keeps score maps in process. Callers get their own copy.
type ScoreMapStore struct {
	cache *basecache.Store
}

func NewScoreMapStore(cache *basecache.Store) *ScoreMapStore {
	return &ScoreMapStore{cache: cache}
}

func (s *ScoreMapStore) GetOrLoad(ctx context.Context, key string, load func(context.Context) (fixture.ScoreMap, error)) (fixture.ScoreMap, error) {
	v, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		scores, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return maps.Clone(scores), nil
	})
	if err != nil {
		return nil, err
	}

	scores, _ := v.(fixture.ScoreMap)
	if scores == nil {
		return fixture.ScoreMap{}, nil
	}
	return maps.Clone(scores), nil
}
