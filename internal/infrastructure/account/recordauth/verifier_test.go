package recordauth

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/prode/external/recordstore"
	"github.com/riskibarqy/prode/internal/platform/logging"
	"github.com/riskibarqy/prode/internal/usecase"
)

type stubRefresher struct {
	calls  atomic.Int32
	record recordstore.AuthRecord
	err    error
}

func (s *stubRefresher) AuthRefresh(_ context.Context, token string) (recordstore.AuthRecord, error) {
	s.calls.Add(1)
	if s.err != nil {
		return recordstore.AuthRecord{}, s.err
	}
	return s.record, nil
}

func TestVerifyAccessToken_CachesAcceptedTokens(t *testing.T) {
	t.Parallel()

	client := &stubRefresher{record: recordstore.AuthRecord{ID: "u1", Email: "ana@example.com", Username: "ana"}}
	verifier := NewVerifier(client, Config{PrincipalTTL: time.Minute, Logger: logging.NewNop()})

	for range 3 {
		principal, err := verifier.VerifyAccessToken(context.Background(), " token-1 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if principal.UserID != "u1" || principal.DisplayName != "ana" {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	}
	if got := client.calls.Load(); got != 1 {
		t.Fatalf("expected a single refresh, got %d", got)
	}
}

func TestVerifyAccessToken_PrefersName(t *testing.T) {
	t.Parallel()

	client := &stubRefresher{record: recordstore.AuthRecord{ID: "u1", Name: "Ana Pérez", Username: "ana"}}
	verifier := NewVerifier(client, Config{Logger: logging.NewNop()})

	principal, err := verifier.VerifyAccessToken(context.Background(), "token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.DisplayName != "Ana Pérez" {
		t.Fatalf("unexpected display name: %q", principal.DisplayName)
	}
}

func TestVerifyAccessToken_RejectsWithoutCaching(t *testing.T) {
	t.Parallel()

	client := &stubRefresher{err: fmt.Errorf("%w: denied", usecase.ErrUnauthorized)}
	verifier := NewVerifier(client, Config{Logger: logging.NewNop()})

	for range 2 {
		if _, err := verifier.VerifyAccessToken(context.Background(), "stale"); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	}
	if got := client.calls.Load(); got != 2 {
		t.Fatalf("rejected tokens must be re-checked, calls=%d", got)
	}

	if _, err := verifier.VerifyAccessToken(context.Background(), "  "); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
	if got := client.calls.Load(); got != 2 {
		t.Fatalf("empty token must not reach the record store, calls=%d", got)
	}
}

func TestVerifyAccessToken_PassesThroughOutages(t *testing.T) {
	t.Parallel()

	client := &stubRefresher{err: fmt.Errorf("%w: breaker open", usecase.ErrDependencyUnavailable)}
	verifier := NewVerifier(client, Config{Logger: logging.NewNop()})

	if _, err := verifier.VerifyAccessToken(context.Background(), "token"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
