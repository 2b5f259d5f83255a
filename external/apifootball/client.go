package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/platform/logging"
	"github.com/riskibarqy/prode/internal/platform/metrics"
	"github.com/riskibarqy/prode/internal/platform/resilience"
	"github.com/riskibarqy/prode/internal/usecase"
)

const (
	providerName      = "apifootball"
	defaultBaseURL    = "https://v3.football.api-sports.io"
	defaultAuthHeader = "x-apisports-key"
	defaultTimeout    = 8 * time.Second
	maxBodyBytes      = 6 << 20
)

var errProviderTransient = crerr.New("apifootball transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	AuthHeader     string
	Key            string
	Timezone       string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Metrics        *metrics.Recorder
}

// Client reads fixtures and rounds from an API-Football compatible provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
	key        string
	timezone   string
	timeout    time.Duration
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	metrics    *metrics.Recorder
	flight     resilience.SingleFlight
	backoff    func(attempt int) time.Duration
}

var _ fixture.Source = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	authHeader := strings.TrimSpace(cfg.AuthHeader)
	if authHeader == "" {
		authHeader = defaultAuthHeader
	}
	timezone := strings.TrimSpace(cfg.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	if breaker != nil {
		recorder := cfg.Metrics
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("apifootball circuit breaker changed state", "from", from, "to", to)
			recorder.RecordBreakerTransition(providerName, string(to))
		})
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		authHeader: authHeader,
		key:        strings.TrimSpace(cfg.Key),
		timezone:   timezone,
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger.Named(providerName),
		breaker:    breaker,
		metrics:    cfg.Metrics,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt+1) * 500 * time.Millisecond
		},
	}
}

// Rounds lists the provider round identifiers of a scope in provider order.
func (c *Client) Rounds(ctx context.Context, scope competition.Scope) ([]string, error) {
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	var payload roundsEnvelope
	query := map[string]string{
		"league": strconv.Itoa(scope.LeagueID),
		"season": scope.Season,
	}
	if err := c.doJSON(ctx, "rounds", "/fixtures/rounds", query, &payload); err != nil {
		return nil, err
	}
	if err := payload.providerError(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(payload.Response))
	seen := make(map[string]struct{}, len(payload.Response))
	for _, round := range payload.Response {
		round = strings.TrimSpace(round)
		if round == "" {
			continue
		}
		if _, ok := seen[round]; ok {
			continue
		}
		seen[round] = struct{}{}
		out = append(out, round)
	}
	return out, nil
}

func (c *Client) ListByRound(ctx context.Context, scope competition.Scope, round string) ([]fixture.Fixture, error) {
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	round = strings.TrimSpace(round)
	if round == "" {
		return nil, fmt.Errorf("%w: round is required", usecase.ErrInvalidInput)
	}

	return c.listFixtures(ctx, "fixtures_by_round", map[string]string{
		"league":   strconv.Itoa(scope.LeagueID),
		"season":   scope.Season,
		"timezone": c.timezone,
		"round":    round,
	})
}

func (c *Client) ListByWindow(ctx context.Context, scope competition.Scope, from, to time.Time) ([]fixture.Fixture, error) {
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: window end before start", usecase.ErrInvalidInput)
	}

	return c.listFixtures(ctx, "fixtures_by_window", map[string]string{
		"league":   strconv.Itoa(scope.LeagueID),
		"season":   scope.Season,
		"timezone": c.timezone,
		"from":     from.Format(time.DateOnly),
		"to":       to.Format(time.DateOnly),
	})
}

func (c *Client) listFixtures(ctx context.Context, operation string, query map[string]string) ([]fixture.Fixture, error) {
	var payload fixturesEnvelope
	if err := c.doJSON(ctx, operation, "/fixtures", query, &payload); err != nil {
		return nil, err
	}
	if err := payload.providerError(); err != nil {
		return nil, err
	}

	items, parseErrs := parseFixtures(payload.Response)
	for _, parseErr := range parseErrs {
		c.logger.WarnContext(ctx, "skip malformed fixture", "operation", operation, "error", parseErr)
	}
	return items, nil
}

func (c *Client) doJSON(ctx context.Context, operation, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		var (
			raw       []byte
			permanent error
		)
		execErr := c.breaker.Execute(ctx, func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			body, reqErr := c.executeRequest(callCtx, operation, fullURL)
			if reqErr != nil && !isCircuitFailure(reqErr) {
				// 4xx answers say nothing about upstream health.
				permanent = reqErr
				return nil
			}
			raw = body
			return reqErr
		})
		if permanent != nil {
			return nil, permanent
		}
		if crerr.Is(execErr, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "apifootball circuit breaker rejected request", "operation", operation)
			return nil, fmt.Errorf("%w: fixtures provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return raw, execErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode provider payload")
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, operation, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		started := time.Now()
		raw, status, err := c.roundTrip(ctx, fullURL)
		if err == nil && status >= 200 && status < 300 {
			c.metrics.RecordProviderAttempt(providerName, operation, time.Since(started), nil)
			return raw, nil
		}

		switch {
		case err != nil:
			lastErr = crerr.Mark(crerr.Newf("%s", sanitizeSensitiveText(err.Error(), c.key)), errProviderTransient)
			if ctxErr := ctx.Err(); ctxErr != nil {
				lastErr = crerr.Mark(ctxErr, errProviderTransient)
			}
		case isRetryableStatus(status):
			if status == http.StatusTooManyRequests {
				c.metrics.RecordRateLimit(providerName)
			}
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, status, abbreviateBody(raw))
		default:
			lastErr = fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}
		c.metrics.RecordProviderAttempt(providerName, operation, time.Since(started), lastErr)

		if !isCircuitFailure(lastErr) || attempt == c.maxRetries {
			break
		}

		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Mark(ctx.Err(), errProviderTransient)
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "apifootball request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, fullURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if c.key != "" {
		req.Header.Set(c.authHeader, c.key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return crerr.Is(err, errProviderTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" || key == "" {
		return value
	}
	return strings.ReplaceAll(value, key, "REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.User = nil
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
