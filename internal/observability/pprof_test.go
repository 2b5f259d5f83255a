package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/prode/internal/config"
	"github.com/riskibarqy/prode/internal/platform/logging"
)

func TestStartPprofServer_Disabled(t *testing.T) {
	srv := StartPprofServer(config.Config{PprofEnabled: false}, logging.NewNop())
	if srv != nil {
		t.Fatalf("expected no server when pprof is disabled")
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown of a disabled server must be a no-op: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}
