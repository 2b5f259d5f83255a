package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/prode/external/apifootball"
	"github.com/riskibarqy/prode/external/recordstore"
	"github.com/riskibarqy/prode/internal/config"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
	"github.com/riskibarqy/prode/internal/infrastructure/account/recordauth"
	repocache "github.com/riskibarqy/prode/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prode/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prode/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prode/internal/infrastructure/repository/records"
	"github.com/riskibarqy/prode/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/prode/internal/platform/cache"
	idgen "github.com/riskibarqy/prode/internal/platform/id"
	"github.com/riskibarqy/prode/internal/platform/logging"
	"github.com/riskibarqy/prode/internal/platform/metrics"
	"github.com/riskibarqy/prode/internal/platform/session"
	"github.com/riskibarqy/prode/internal/usecase"
)

// Server is the assembled HTTP service plus everything that must be released on shutdown.
type Server struct {
	HTTP    *http.Server
	closers []func(context.Context) error
}

// Close releases resources in reverse construction order.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type stores struct {
	groups      group.Repository
	predictions prediction.Repository
	verifier    httpapi.TokenVerifier
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	server := &Server{}
	fail := func(err error) (*Server, error) {
		_ = server.Close(context.Background())
		return nil, err
	}

	recorder, metricsHandler, shutdownMetrics, err := metrics.Setup(ctx, metrics.Config{
		Enabled:     cfg.MetricsEnabled,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fail(fmt.Errorf("setup metrics: %w", err))
	}
	server.closers = append(server.closers, shutdownMetrics)

	outbound := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	now := time.Now()

	source := buildFixtureSource(cfg, outbound, recorder, logger, now)

	st, err := buildStores(ctx, cfg, server, outbound, recorder, logger, now)
	if err != nil {
		return fail(err)
	}

	scoreCache, err := buildScoreMapCache(ctx, cfg, server, recorder, logger)
	if err != nil {
		return fail(err)
	}

	guests := prediction.NewScopedStore()
	periods := usecase.NewPeriodService(source, cfg.ResolverConcurrency, logger.Named("usecase.period"))
	fixtures := usecase.NewFixtureService(source, usecase.FixtureServiceConfig{
		Location:   cfg.CompetitionTimezone,
		WindowDays: cfg.FixtureWindowDays,
		Logger:     logger.Named("usecase.fixture"),
	})
	scores := usecase.NewScoreMapService(source, scoreCache, cfg.ResolverConcurrency, logger.Named("usecase.scoremap"))
	standings := usecase.NewStandingsService(st.groups, st.predictions, scores)
	profiles := usecase.NewProfileService(st.groups, st.predictions, scores, cfg.ResolverConcurrency)
	home := usecase.NewHomeService(st.groups, st.predictions, periods, fixtures, standings, guests, usecase.HomeServiceConfig{
		DefaultScope: cfg.DefaultScope,
		Tones:        cfg.PointTones,
		CardLimit:    cfg.MatchCardLimit,
	})
	predictionSvc := usecase.NewPredictionService(st.groups, st.predictions, source, guests)

	sessions, err := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return fail(fmt.Errorf("build session codec: %w", err))
	}
	cookie := httpapi.CookieConfig{
		Name:   cfg.SessionCookieName,
		Domain: cfg.SessionCookieDomain,
		Secure: cfg.AppEnv != config.EnvDev,
	}

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		HomeService:       home,
		PredictionService: predictionSvc,
		StandingsService:  standings,
		ProfileService:    profiles,
		Sessions:          sessions,
		Cookie:            cookie,
		Metrics:           recorder,
		Logger:            logger.Named("httpapi"),
	})
	router := httpapi.NewRouter(handler, httpapi.NewAuthenticator(st.verifier, sessions, cookie, logger), logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsHandler:     metricsHandler,
		Metrics:            recorder,
	})

	server.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return server, nil
}

// buildFixtureSource puts the provider in front of the static seed so the
// service keeps rendering when the provider is disabled or failing.
func buildFixtureSource(cfg config.Config, outbound *http.Client, recorder *metrics.Recorder, logger *logging.Logger, now time.Time) fixture.Source {
	static := memory.NewStaticFixtureSource(nil)
	if cfg.SeedDemoData {
		static = memory.NewStaticFixtureSource(memory.SeedFixtures(now))
	}

	var source fixture.Source = static
	if cfg.FootballAPIEnabled {
		provider := apifootball.NewClient(apifootball.ClientConfig{
			HTTPClient:     outbound,
			BaseURL:        cfg.FootballAPIBaseURL,
			AuthHeader:     cfg.FootballAPIAuthHeader,
			Key:            cfg.FootballAPIKey,
			Timezone:       cfg.CompetitionTimezone.String(),
			Timeout:        cfg.FootballAPITimeout,
			MaxRetries:     cfg.FootballAPIMaxRetries,
			Logger:         logger.Named("apifootball"),
			CircuitBreaker: cfg.FootballAPICircuit,
			Metrics:        recorder,
		})
		source = usecase.NewTieredSource(provider, static, logger.Named("usecase.tiered_source"))
	}

	if !cfg.CacheEnabled {
		return source
	}
	return repocache.NewFixtureSource(source, basecache.NewStore(cfg.CacheTTL,
		basecache.WithMaxEntries(256),
		basecache.WithObserver(cacheObserver(recorder, "rounds")),
	))
}

func buildStores(
	ctx context.Context,
	cfg config.Config,
	server *Server,
	outbound *http.Client,
	recorder *metrics.Recorder,
	logger *logging.Logger,
	now time.Time,
) (stores, error) {
	var (
		st     stores
		client *recordstore.Client
	)

	if cfg.RecordStoreBaseURL != "" {
		client = recordstore.NewClient(recordstore.ClientConfig{
			HTTPClient:     outbound,
			BaseURL:        cfg.RecordStoreBaseURL,
			AdminToken:     cfg.RecordStoreAdminToken,
			Timeout:        cfg.RecordStoreTimeout,
			Logger:         logger.Named("recordstore"),
			CircuitBreaker: cfg.RecordStoreCircuit,
			Metrics:        recorder,
		})
		st.verifier = recordauth.NewVerifier(client, recordauth.Config{
			PrincipalTTL:        cfg.AuthCacheTTL,
			PrincipalMaxEntries: cfg.AuthCacheMaxEntries,
			Logger:              logger.Named("recordauth"),
			Observer:            cacheObserver(recorder, "principals"),
		})
	}

	switch cfg.StoreBackend {
	case config.StoreBackendRecordStore:
		st.groups = records.NewGroupRepository(client)
		st.predictions = records.NewPredictionRepository(client)
	case config.StoreBackendPostgres:
		db, err := openDB(cfg)
		if err != nil {
			return stores{}, err
		}
		server.closers = append(server.closers, func(context.Context) error { return db.Close() })
		if cfg.SeedDemoData {
			if err := postgres.BootstrapSeed(ctx, db, now); err != nil {
				return stores{}, err
			}
		}
		st.groups = postgres.NewGroupRepository(db)
		st.predictions = postgres.NewPredictionRepository(db, idgen.NewUUIDGenerator())
	default:
		var (
			groups      []group.Group
			members     []group.Member
			predictions []prediction.Prediction
		)
		if cfg.SeedDemoData {
			groups, members, predictions = memory.SeedGroups(), memory.SeedMembers(), memory.SeedPredictions(now)
		}
		st.groups = memory.NewGroupRepository(groups, members)
		st.predictions = memory.NewPredictionRepository(idgen.NewUUIDGenerator(), predictions)
		if st.verifier == nil && cfg.AppEnv == config.EnvDev {
			logger.Warn("record store not configured, accepting dev tokens", "format", memory.DevToken("{user_id}"))
			st.verifier = memory.NewTokenVerifier(members)
		}
	}

	if st.verifier == nil {
		return stores{}, fmt.Errorf("RECORDSTORE_BASE_URL is required to verify tokens when APP_ENV=%s", cfg.AppEnv)
	}
	if cfg.CacheEnabled {
		st.groups = repocache.NewGroupRepository(st.groups, basecache.NewStore(cfg.CacheTTL,
			basecache.WithMaxEntries(4096),
			basecache.WithObserver(cacheObserver(recorder, "groups")),
		))
	}
	return st, nil
}

func buildScoreMapCache(
	ctx context.Context,
	cfg config.Config,
	server *Server,
	recorder *metrics.Recorder,
	logger *logging.Logger,
) (usecase.ScoreMapCache, error) {
	if !cfg.CacheEnabled {
		return nil, nil
	}

	if cfg.CacheBackend != config.CacheBackendRedis {
		return repocache.NewScoreMapStore(basecache.NewStore(cfg.ScoreCacheTTL,
			basecache.WithMaxEntries(1024),
			basecache.WithObserver(cacheObserver(recorder, "scoremap")),
		)), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	server.closers = append(server.closers, func(context.Context) error { return client.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
	}

	return repocache.NewRedisScoreMapStore(client, repocache.RedisScoreMapConfig{
		TTL:       cfg.ScoreCacheTTL,
		KeyPrefix: cfg.RedisKeyPrefix,
		Logger:    logger.Named("cache.redis"),
		Metrics:   recorder,
	}), nil
}

func cacheObserver(recorder *metrics.Recorder, name string) basecache.Observer {
	return func(hit bool) {
		recorder.RecordCacheLookup(name, hit)
	}
}
