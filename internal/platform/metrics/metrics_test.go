package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecorder_TracksProviderAndCacheStats(t *testing.T) {
	rec := NewRecorder()

	rec.RecordProviderAttempt("apifootball", "fixtures", 15*time.Millisecond, nil)
	rec.RecordProviderAttempt("apifootball", "fixtures", 30*time.Millisecond, errors.New("boom"))
	rec.RecordRateLimit("apifootball")
	rec.RecordCacheLookup("scoremap", true)
	rec.RecordCacheLookup("scoremap", false)
	rec.RecordCacheLookup("scoremap", false)

	report := rec.Report()
	snap := report.Providers["apifootball"]
	if snap.Calls != 2 || snap.Errors != 1 || snap.RateLimitHits != 1 {
		t.Fatalf("unexpected provider report: %+v", snap)
	}
	if snap.LastCallLatency != 30*time.Millisecond || snap.LastCallMillis != 30 {
		t.Fatalf("unexpected last latency: %+v", snap)
	}

	if got := report.Caches["scoremap"]; got.Hits != 1 || got.Misses != 2 {
		t.Fatalf("unexpected cache stats: %+v", got)
	}
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordProviderAttempt("apifootball", "rounds", time.Millisecond, nil)
	rec.RecordCacheLookup("scoremap", true)
	rec.RecordHTTPRequest("GET", "/v1/home", 200, time.Millisecond)
	if report := rec.Report(); len(report.Providers) != 0 || len(report.Caches) != 0 {
		t.Fatalf("nil recorder must report no stats")
	}
}

func TestSetup_DisabledReturnsNoHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if handler != nil {
		t.Fatalf("expected nil handler when disabled")
	}
}

func TestSetup_EnabledExposesPrometheus(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), Config{Enabled: true, ServiceName: "prode-test"})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	rec.RecordProviderAttempt("apifootball", "fixtures", time.Millisecond, nil)
	rec.RecordHTTPRequest("GET", "/v1/home", 200, time.Millisecond)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "provider_attempts_total") {
		t.Fatalf("expected provider metric in exposition, got:\n%s", body)
	}
}
