package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/prediction"
	"github.com/riskibarqy/prode/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreBackend != StoreBackendMemory {
		t.Fatalf("unexpected StoreBackend: %q", cfg.StoreBackend)
	}
	if cfg.ScoreCacheTTL != 120*time.Second {
		t.Fatalf("unexpected ScoreCacheTTL: %s", cfg.ScoreCacheTTL)
	}
	if cfg.FootballAPITimeout != 8*time.Second {
		t.Fatalf("unexpected FootballAPITimeout: %s", cfg.FootballAPITimeout)
	}
	if cfg.FootballAPIAuthHeader != "x-apisports-key" {
		t.Fatalf("unexpected FootballAPIAuthHeader: %q", cfg.FootballAPIAuthHeader)
	}
	if cfg.MatchCardLimit != 12 {
		t.Fatalf("unexpected MatchCardLimit: %d", cfg.MatchCardLimit)
	}
	if cfg.CompetitionTimezone == nil || cfg.CompetitionTimezone.String() != "America/Argentina/Buenos_Aires" {
		t.Fatalf("unexpected CompetitionTimezone: %v", cfg.CompetitionTimezone)
	}
	if cfg.DefaultScope.Key() != "128:2025:general" {
		t.Fatalf("unexpected DefaultScope: %s", cfg.DefaultScope.Key())
	}
	if cfg.PointTones.ToneFor(3) != prediction.TonePositive {
		t.Fatalf("expected default tone scale")
	}
	if cfg.DBApplicationName != cfg.ServiceName {
		t.Fatalf("DBApplicationName should default to the service name, got %q", cfg.DBApplicationName)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger enabled outside prod")
	}
	if !cfg.FootballAPICircuit.Enabled || cfg.FootballAPICircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected FootballAPICircuit: %+v", cfg.FootballAPICircuit)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_ProdRequiresSessionSecret(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("SESSION_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for short SESSION_SECRET in prod")
	}
}

func TestLoad_SessionSecretRequiredOutsideDev(t *testing.T) {
	for _, env := range []string{EnvStage, EnvProd} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			t.Setenv("SESSION_SECRET", "")

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for empty SESSION_SECRET in %s", env)
			}
		})
	}

	t.Run(EnvDev, func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SESSION_SECRET", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SessionSecret == "" {
			t.Fatalf("dev must fall back to a local session secret")
		}
	})
}

func TestLoad_StoreBackendValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Setenv("STORE_BACKEND", "mongo")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORE_BACKEND")
	}

	t.Setenv("STORE_BACKEND", StoreBackendRecordStore)
	t.Setenv("RECORDSTORE_BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when RECORDSTORE_BASE_URL is missing")
	}

	t.Setenv("RECORDSTORE_BASE_URL", "https://records.example.com")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RecordStoreBaseURL != "https://records.example.com" {
		t.Fatalf("unexpected RecordStoreBaseURL: %q", cfg.RecordStoreBaseURL)
	}
}

func TestLoad_FootballAPIRequiresKeyWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_API_ENABLED", "true")
	t.Setenv("FOOTBALL_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when FOOTBALL_API_ENABLED=true without FOOTBALL_API_KEY")
	}
}

func TestLoad_RedisBackendRequiresAddr(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_BACKEND", CacheBackendRedis)
	t.Setenv("REDIS_ADDR", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when CACHE_BACKEND=redis without REDIS_ADDR")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("POINT_TONES", "3:gold,1:silver,0:bronze")
	t.Setenv("SCORE_CACHE_TTL", "45s")
	t.Setenv("FOOTBALL_API_TIMEZONE", "UTC")
	t.Setenv("FOOTBALL_API_CIRCUIT_FAILURE_COUNT", "9")
	t.Setenv("DEFAULT_LEAGUE_ID", "129")
	t.Setenv("DEFAULT_STAGE", "clausura")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://prode.example.com, https://admin.example.com")
	t.Setenv("SESSION_COOKIE_DOMAIN", ".prode.example.com")
	t.Setenv("BETTERSTACK_TOKEN", "source-token")
	t.Setenv("BETTERSTACK_MIN_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PointTones.ToneFor(0) != prediction.Tone("bronze") {
		t.Fatalf("unexpected tone for 0 points: %q", cfg.PointTones.ToneFor(0))
	}
	if cfg.ScoreCacheTTL != 45*time.Second {
		t.Fatalf("unexpected ScoreCacheTTL: %s", cfg.ScoreCacheTTL)
	}
	if cfg.CompetitionTimezone != time.UTC {
		t.Fatalf("unexpected CompetitionTimezone: %v", cfg.CompetitionTimezone)
	}
	if cfg.FootballAPICircuit.FailureThreshold != 9 {
		t.Fatalf("unexpected failure threshold: %d", cfg.FootballAPICircuit.FailureThreshold)
	}
	if cfg.DefaultScope.LeagueID != 129 || cfg.DefaultScope.Stage != competition.StageClausura {
		t.Fatalf("unexpected DefaultScope: %+v", cfg.DefaultScope)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SessionCookieDomain != ".prode.example.com" {
		t.Fatalf("unexpected SessionCookieDomain: %q", cfg.SessionCookieDomain)
	}
	if cfg.BetterStackToken != "source-token" || cfg.BetterStackMinLevel != logging.LevelWarn {
		t.Fatalf("unexpected betterstack config: token=%q level=%v", cfg.BetterStackToken, cfg.BetterStackMinLevel)
	}
	if cfg.BetterStackEndpoint != "https://in.logs.betterstack.com" || cfg.BetterStackTimeout != 3*time.Second {
		t.Fatalf("unexpected betterstack defaults: %q %s", cfg.BetterStackEndpoint, cfg.BetterStackTimeout)
	}
}

func TestLoad_RejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCORE_CACHE_TTL", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero SCORE_CACHE_TTL")
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	got := parseUptraceDSNFromOTLPHeaders(`foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)
	if got != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", got)
	}
}
