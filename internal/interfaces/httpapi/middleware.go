package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/prode/internal/domain/user"
	"github.com/riskibarqy/prode/internal/platform/logging"
	"github.com/riskibarqy/prode/internal/platform/metrics"
	"github.com/riskibarqy/prode/internal/platform/session"
	"github.com/riskibarqy/prode/internal/usecase"
)

// TokenVerifier verifies record store tokens.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
}

// Authenticator resolves the caller from a bearer token or the session cookie.
type Authenticator struct {
	verifier   TokenVerifier
	sessions   *session.Codec
	cookieName string
	logger     *logging.Logger
}

func NewAuthenticator(verifier TokenVerifier, sessions *session.Codec, cookie CookieConfig, logger *logging.Logger) *Authenticator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Authenticator{
		verifier:   verifier,
		sessions:   sessions,
		cookieName: cookie.withDefaults().Name,
		logger:     logger,
	}
}

var errNoCredentials = fmt.Errorf("%w: missing Authorization header or session cookie", usecase.ErrUnauthorized)

func (a *Authenticator) authenticate(ctx context.Context, r *http.Request) (user.Principal, string, error) {
	token, err := a.credentials(r)
	if err != nil {
		return user.Principal{}, "", err
	}
	principal, err := a.verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return user.Principal{}, "", err
	}
	return principal, token, nil
}

func (a *Authenticator) credentials(r *http.Request) (string, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", fmt.Errorf("%w: invalid Authorization header format", usecase.ErrUnauthorized)
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if a.sessions == nil {
		return "", errNoCredentials
	}
	cookie, err := r.Cookie(a.cookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", errNoCredentials
	}
	claims, err := a.sessions.Decode(cookie.Value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	return claims.Token, nil
}

func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireAuth")
		defer span.End()

		principal, token, err := a.authenticate(ctx, r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, principal, token)))
	})
}

// Optional lets anonymous callers through as guests. Rejected credentials also
// fall back to guest mode; an unreachable verifier is still an error.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.OptionalAuth")
		defer span.End()

		principal, token, err := a.authenticate(ctx, r)
		switch {
		case err == nil:
			ctx = withPrincipal(ctx, principal, token)
		case errors.Is(err, usecase.ErrUnauthorized):
			if !errors.Is(err, errNoCredentials) {
				a.logger.DebugContext(ctx, "ignoring rejected credentials on optional route", "error", err)
			}
		default:
			writeError(ctx, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequestLogging")
		defer span.End()

		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "prode-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	normalized := strings.ToLower(strings.TrimSpace(path))
	switch normalized {
	case "/healthz", "/health", "/livez", "/readyz":
		return false
	default:
		return true
	}
}

func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAll := false
	allowMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		candidate := strings.TrimSpace(origin)
		if candidate == "" {
			continue
		}
		if candidate == "*" {
			allowAll = true
			continue
		}
		allowMap[candidate] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.CORS")
		defer span.End()

		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		allowed := allowAll
		if !allowed {
			_, allowed = allowMap[origin]
		}
		if allowed {
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,Accept")
			w.Header().Set("Access-Control-Max-Age", "600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestMetrics must wrap the mux directly so the matched route pattern is
// visible after dispatch.
func RequestMetrics(recorder *metrics.Recorder, next http.Handler) http.Handler {
	if recorder == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordHTTPRequest(r.Method, route, rec.status, time.Since(started))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(status int) {
	if !s.wroteHeader {
		s.status = status
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
