package cache

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/platform/logging"
	"github.com/riskibarqy/prode/internal/platform/metrics"
	"github.com/riskibarqy/prode/internal/platform/resilience"
	"github.com/riskibarqy/prode/internal/usecase"
)

const redisScoreMapCacheName = "scoremap_redis"

var _ usecase.ScoreMapCache = (*RedisScoreMapStore)(nil)

// redisKV is the subset of the redis client the score map cache needs.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type RedisScoreMapConfig struct {
	TTL       time.Duration
	KeyPrefix string
	Logger    *logging.Logger
	Metrics   *metrics.Recorder
}

// RedisScoreMapStore shares score maps between instances. Redis failures degrade
// to loading directly; they never fail the request.
type RedisScoreMapStore struct {
	client  redisKV
	ttl     time.Duration
	prefix  string
	flight  resilience.SingleFlight
	logger  *logging.Logger
	metrics *metrics.Recorder
}

func NewRedisScoreMapStore(client redisKV, cfg RedisScoreMapConfig) *RedisScoreMapStore {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisScoreMapStore{
		client:  client,
		ttl:     cfg.TTL,
		prefix:  cfg.KeyPrefix,
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

func (s *RedisScoreMapStore) GetOrLoad(ctx context.Context, key string, load func(context.Context) (fixture.ScoreMap, error)) (fixture.ScoreMap, error) {
	key = s.prefix + key
	if scores, ok := s.read(ctx, key); ok {
		s.metrics.RecordCacheLookup(redisScoreMapCacheName, true)
		return scores, nil
	}
	s.metrics.RecordCacheLookup(redisScoreMapCacheName, false)

	v, err, _ := s.flight.Do(key, func() (any, error) {
		scores, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.write(ctx, key, scores)
		return scores, nil
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

func (s *RedisScoreMapStore) read(ctx context.Context, key string) (fixture.ScoreMap, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "redis score map read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var scores fixture.ScoreMap
	if err := sonic.Unmarshal(raw, &scores); err != nil {
		s.logger.WarnContext(ctx, "discard undecodable score map", "key", key, "error", err)
		return nil, false
	}
	if scores == nil {
		scores = fixture.ScoreMap{}
	}
	return scores, true
}

func (s *RedisScoreMapStore) write(ctx context.Context, key string, scores fixture.ScoreMap) {
	raw, err := sonic.Marshal(scores)
	if err != nil {
		s.logger.WarnContext(ctx, "encode score map failed", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis score map write failed", "key", key, "error", err)
	}
}
