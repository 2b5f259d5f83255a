package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/prode/internal/config"
	"github.com/riskibarqy/prode/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "prode-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestUptraceDisabledReason(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{name: "flag off", cfg: config.Config{UptraceDSN: "https://token@uptrace.dev/1"}, want: "UPTRACE_ENABLED=false"},
		{name: "no dsn", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "  "}, want: "UPTRACE_DSN empty"},
		{name: "enabled", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "https://token@uptrace.dev/1"}, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := uptraceDisabledReason(tc.cfg); got != tc.want {
				t.Fatalf("uptraceDisabledReason()=%q want %q", got, tc.want)
			}
		})
	}
}
