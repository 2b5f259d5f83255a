package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/prode/internal/platform/logging"
	"github.com/riskibarqy/prode/internal/platform/metrics"
	"github.com/riskibarqy/prode/internal/platform/resilience"
	"github.com/riskibarqy/prode/internal/usecase"
)

const (
	providerName   = "recordstore"
	defaultPerPage = 200
	maxPerPage     = 500
	maxBodyBytes   = 4 << 20
	defaultTimeout = 5 * time.Second
)

var errRecordStoreTransient = crerr.New("recordstore transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	AdminToken     string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Metrics        *metrics.Recorder
}

// Client talks to a PocketBase-style record store over its REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	adminToken string
	timeout    time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	metrics    *metrics.Recorder
}

// ListQuery mirrors the list endpoint parameters. Filter is a record-store
// boolean expression, usually built with querybuilder.Filter.
type ListQuery struct {
	Filter  string
	Expand  string
	Sort    string
	Page    int
	PerPage int
}

// Page is one page of a list response with items still encoded.
type Page struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalItems int               `json:"totalItems"`
	TotalPages int               `json:"totalPages"`
	Items      []json.RawMessage `json:"items"`
}

// AuthRecord is the authenticated user returned by auth-refresh.
type AuthRecord struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type authRefreshResponse struct {
	Token  string     `json:"token"`
	Record AuthRecord `json:"record"`
}

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

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	if breaker != nil {
		recorder := cfg.Metrics
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("recordstore circuit breaker changed state", "from", from, "to", to)
			recorder.RecordBreakerTransition(providerName, string(to))
		})
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		adminToken: strings.TrimSpace(cfg.AdminToken),
		timeout:    timeout,
		logger:     logger.Named(providerName),
		breaker:    breaker,
		metrics:    cfg.Metrics,
	}
}

// List fetches a single page of a collection.
func (c *Client) List(ctx context.Context, collection string, query ListQuery) (Page, error) {
	values := url.Values{}
	if query.Filter != "" {
		values.Set("filter", query.Filter)
	}
	if query.Expand != "" {
		values.Set("expand", query.Expand)
	}
	if query.Sort != "" {
		values.Set("sort", query.Sort)
	}
	page := max(query.Page, 1)
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("perPage", strconv.Itoa(min(perPage, maxPerPage)))

	var out Page
	path := recordsPath(collection) + "?" + values.Encode()
	if err := c.do(ctx, "list", http.MethodGet, path, c.adminToken, nil, &out); err != nil {
		return Page{}, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

// ListAll walks every page of a collection and decodes each item into T.
func ListAll[T any](ctx context.Context, c *Client, collection string, query ListQuery) ([]T, error) {
	query.Page = 1
	var out []T
	for {
		page, err := c.List(ctx, collection, query)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var item T
			if err := sonic.Unmarshal(raw, &item); err != nil {
				return nil, crerr.Wrapf(err, "decode %s record", collection)
			}
			out = append(out, item)
		}
		if page.TotalPages <= page.Page || len(page.Items) == 0 {
			return out, nil
		}
		query.Page = page.Page + 1
	}
}

// Create inserts a record and decodes the stored version into out.
func (c *Client) Create(ctx context.Context, collection string, body any, out any) error {
	if err := c.do(ctx, "create", http.MethodPost, recordsPath(collection), c.adminToken, body, out); err != nil {
		return fmt.Errorf("create %s: %w", collection, err)
	}
	return nil
}

// Update patches a record by id and decodes the stored version into out.
func (c *Client) Update(ctx context.Context, collection, id string, body any, out any) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: record id is required", usecase.ErrInvalidInput)
	}
	path := recordsPath(collection) + "/" + url.PathEscape(id)
	if err := c.do(ctx, "update", http.MethodPatch, path, c.adminToken, body, out); err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return nil
}

// AuthRefresh validates a user token against the users auth collection.
func (c *Client) AuthRefresh(ctx context.Context, token string) (AuthRecord, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AuthRecord{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	var out authRefreshResponse
	if err := c.do(ctx, "auth_refresh", http.MethodPost, "/api/collections/users/auth-refresh", token, nil, &out); err != nil {
		return AuthRecord{}, err
	}
	if strings.TrimSpace(out.Record.ID) == "" {
		return AuthRecord{}, fmt.Errorf("invalid auth-refresh response: record id is empty")
	}
	return out.Record, nil
}

func (c *Client) do(ctx context.Context, operation, method, path, token string, body any, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%w: record store base url is not configured", usecase.ErrDependencyUnavailable)
	}

	var permanent error
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		// Shared clients carry no timeout of their own.
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		started := time.Now()
		raw, reqErr := c.send(callCtx, method, path, token, body)
		c.metrics.RecordProviderAttempt(providerName, operation, time.Since(started), reqErr)
		if reqErr != nil {
			if !crerr.Is(reqErr, errRecordStoreTransient) {
				permanent = reqErr
				return nil
			}
			return reqErr
		}
		if out == nil || len(raw) == 0 {
			return nil
		}
		if decodeErr := sonic.Unmarshal(raw, out); decodeErr != nil {
			permanent = crerr.Wrap(decodeErr, "decode record store payload")
		}
		return nil
	})
	if permanent != nil {
		return permanent
	}
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "recordstore circuit breaker rejected request", "operation", operation)
		return fmt.Errorf("%w: record store is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "recordstore request failed", "operation", operation, "error", err)
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		if err := sonic.ConfigDefault.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf.B)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "send request"), errRecordStoreTransient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errRecordStoreTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: record store denied request (status=%d)", usecase.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", usecase.ErrNotFound, apiMessage(raw))
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, apiMessage(raw))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		if resp.StatusCode == http.StatusTooManyRequests {
			c.metrics.RecordRateLimit(providerName)
		}
		return nil, fmt.Errorf("%w: status=%d body=%s", errRecordStoreTransient, resp.StatusCode, apiMessage(raw))
	default:
		return nil, fmt.Errorf("record store status=%d body=%s", resp.StatusCode, apiMessage(raw))
	}
}

func recordsPath(collection string) string {
	return "/api/collections/" + url.PathEscape(strings.TrimSpace(collection)) + "/records"
}

// apiMessage prefers the record store's "message" field over the raw body.
func apiMessage(raw []byte) string {
	var decoded struct {
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(raw, &decoded); err == nil && strings.TrimSpace(decoded.Message) != "" {
		return strings.TrimSpace(decoded.Message)
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 240 {
		return text[:240] + "..."
	}
	return text
}
