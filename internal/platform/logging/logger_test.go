package logging

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_ContextAddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.WarnContext(ctx, "fetch fixtures failed", "league_id", 128, "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %v", fields)
	}
	if fields["league_id"] != int64(128) {
		t.Fatalf("unexpected league_id field: %v", fields["league_id"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
}

func TestLogger_OddArgsAndNilLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).Named("usecase").With("group_id", "g1")

	logger.Info("standings built", "rows")
	entry := logs.All()[0]
	fields := entry.ContextMap()
	if _, ok := fields["rows"]; !ok {
		t.Fatalf("dangling key must be kept, got %v", fields)
	}
	if fields["group_id"] != "g1" || entry.LoggerName != "usecase" {
		t.Fatalf("unexpected entry: name=%q fields=%v", entry.LoggerName, fields)
	}

	var nilLogger *Logger
	nilLogger.Info("does not panic")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"WARNING": LevelWarn,
		"warn":    LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", raw, got, want)
		}
	}
}

func TestLogger_MirrorReceivesEnabledEntries(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	var got, shipped []string
	SetMirror("otel", func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
	})
	SetMirror("shipper", func(_ context.Context, _ Level, msg string, _ ...any) {
		shipped = append(shipped, msg)
	})
	t.Cleanup(func() {
		SetMirror("otel", nil)
		SetMirror("shipper", nil)
	})

	logger.Debug("dropped by level")
	logger.InfoContext(context.Background(), "round resolved", "round", "Clausura - 1")

	if len(got) != 1 || got[0] != "info:round resolved" {
		t.Fatalf("unexpected mirrored entries: %v", got)
	}
	if len(shipped) != 1 {
		t.Fatalf("every named mirror must receive the entry, got %v", shipped)
	}

	SetMirror("shipper", nil)
	logger.Info("fixtures refreshed")
	if len(shipped) != 1 || len(got) != 2 {
		t.Fatalf("removed mirror must stop receiving entries: got=%v shipped=%v", got, shipped)
	}
}
