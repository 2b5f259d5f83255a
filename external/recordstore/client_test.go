package recordstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/prode/internal/platform/querybuilder"
	"github.com/riskibarqy/prode/internal/platform/resilience"
	"github.com/riskibarqy/prode/internal/usecase"
)

type memberRecord struct {
	ID     string `json:"id"`
	Group  string `json:"group_id"`
	Status string `json:"status"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL + "/",
		AdminToken:     "admin-token",
		CircuitBreaker: breaker,
	})
}

func TestListAll_WalksPagesWithFilter(t *testing.T) {
	t.Parallel()

	filter := querybuilder.Filter(querybuilder.Eq("user_id", "u'1"), querybuilder.Eq("status", "active"))
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/collections/group_members/records" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "admin-token" {
			t.Errorf("unexpected authorization %q", got)
		}
		q := r.URL.Query()
		if q.Get("filter") != `user_id='u\'1' && status='active'` {
			t.Errorf("unexpected filter %q", q.Get("filter"))
		}
		if q.Get("expand") != "user_id" {
			t.Errorf("unexpected expand %q", q.Get("expand"))
		}

		page, _ := strconv.Atoi(q.Get("page"))
		_, _ = fmt.Fprintf(w, `{"page":%d,"perPage":1,"totalItems":2,"totalPages":2,"items":[{"id":"m%d","group_id":"g%d","status":"active"}]}`, page, page, page)
	}, resilience.CircuitBreakerConfig{})

	items, err := ListAll[memberRecord](context.Background(), client, "group_members", ListQuery{Filter: filter, Expand: "user_id", PerPage: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "m1" || items[1].Group != "g2" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestCreateAndUpdate_SendJSONBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		if err := jsoniter.Unmarshal(body, &decoded); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing content type")
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/collections/predictions/records":
			_, _ = fmt.Fprintf(w, `{"id":"new-1","group_id":%q,"status":"active"}`, decoded["group_id"])
		case r.Method == http.MethodPatch && r.URL.Path == "/api/collections/predictions/records/p-9":
			_, _ = fmt.Fprintf(w, `{"id":"p-9","group_id":"g1","status":%q}`, decoded["status"])
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}, resilience.CircuitBreakerConfig{})

	var created memberRecord
	if err := client.Create(context.Background(), "predictions", map[string]any{"group_id": "g7"}, &created); err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "new-1" || created.Group != "g7" {
		t.Fatalf("unexpected created record: %+v", created)
	}

	var updated memberRecord
	if err := client.Update(context.Background(), "predictions", "p-9", map[string]any{"status": "left"}, &updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != "left" {
		t.Fatalf("unexpected updated record: %+v", updated)
	}

	if err := client.Update(context.Background(), "predictions", " ", nil, nil); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty id, got %v", err)
	}
}

func TestAuthRefresh_UsesCallerToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/collections/users/auth-refresh" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		switch r.Header.Get("Authorization") {
		case "user-token":
			_, _ = w.Write([]byte(`{"token":"user-token-2","record":{"id":"u1","email":"ana@example.com","name":"Ana"}}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"The request requires valid record authorization token."}`))
		}
	}, resilience.CircuitBreakerConfig{})

	record, err := client.AuthRefresh(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != "u1" || record.Name != "Ana" {
		t.Fatalf("unexpected record: %+v", record)
	}

	if _, err := client.AuthRefresh(context.Background(), "stale"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := client.AuthRefresh(context.Background(), ""); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   error
	}{
		{status: http.StatusBadRequest, want: usecase.ErrInvalidInput},
		{status: http.StatusNotFound, want: usecase.ErrNotFound},
		{status: http.StatusForbidden, want: usecase.ErrUnauthorized},
		{status: http.StatusServiceUnavailable, want: usecase.ErrDependencyUnavailable},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}, resilience.CircuitBreakerConfig{})

			_, err := client.List(context.Background(), "groups", ListQuery{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClient_BreakerIgnoresClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var failing atomic.Bool
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}, resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1})

	for i := 0; i < 3; i++ {
		if _, err := client.List(context.Background(), "groups", ListQuery{}); !errors.Is(err, usecase.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}

	failing.Store(true)
	for i := 0; i < 2; i++ {
		_, _ = client.List(context.Background(), "groups", ListQuery{})
	}
	before := calls.Load()
	if _, err := client.List(context.Background(), "groups", ListQuery{}); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if calls.Load() != before {
		t.Fatalf("open breaker must not reach the record store")
	}
}

func TestClient_AppliesTimeoutToSharedHTTPClient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		HTTPClient: &http.Client{},
		BaseURL:    srv.URL,
		Timeout:    50 * time.Millisecond,
	})

	started := time.Now()
	_, err := client.AuthRefresh(context.Background(), "user-token")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("request was not bounded by the client timeout, took %s", elapsed)
	}
}
