package observability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/prode/internal/config"
	"github.com/riskibarqy/prode/internal/platform/logging"
)

const (
	betterStackMirrorName = "betterstack"
	betterStackQueueSize  = 1024
	betterStackBatchSize  = 100
	betterStackFlushEvery = time.Second
)

// InitBetterStack ships every log entry at or above BETTERSTACK_MIN_LEVEL to
// Better Stack when BETTERSTACK_TOKEN is set. The returned func drains the queue
// and detaches the mirror.
func InitBetterStack(cfg config.Config, logger *logging.Logger) func(context.Context) error {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.BetterStackToken == "" {
		logging.SetMirror(betterStackMirrorName, nil)
		logger.Info("betterstack disabled", "reason", "BETTERSTACK_TOKEN empty")
		return func(context.Context) error { return nil }
	}

	shipper := newBetterStackShipper(
		normalizeBetterStackEndpoint(cfg.BetterStackEndpoint),
		cfg.BetterStackToken,
		cfg.BetterStackTimeout,
		betterStackFlushEvery,
	)
	logging.SetMirror(betterStackMirrorName, shipper.mirror(cfg.BetterStackMinLevel, cfg.ServiceName, cfg.AppEnv))

	logger.Info("betterstack enabled",
		"endpoint", shipper.endpoint,
		"min_level", cfg.BetterStackMinLevel.String(),
	)

	return func(ctx context.Context) error {
		logging.SetMirror(betterStackMirrorName, nil)
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain betterstack queue: %w", err)
		}
		return nil
	}
}

func normalizeBetterStackEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}

type betterStackShipper struct {
	endpoint   string
	token      string
	client     *http.Client
	flushEvery time.Duration
	queue      chan map[string]any
	queueMu    sync.RWMutex
	closeOnce  sync.Once
	closed     atomic.Bool
	wg         sync.WaitGroup
	dropped    atomic.Uint64
}

func newBetterStackShipper(endpoint, token string, timeout, flushEvery time.Duration) *betterStackShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if flushEvery <= 0 {
		flushEvery = betterStackFlushEvery
	}

	s := &betterStackShipper{
		endpoint:   endpoint,
		token:      token,
		client:     &http.Client{Timeout: timeout},
		flushEvery: flushEvery,
		queue:      make(chan map[string]any, betterStackQueueSize),
	}
	s.wg.Add(1)
	go s.run()

	return s
}

func (s *betterStackShipper) mirror(minLevel logging.Level, service, env string) logging.MirrorFunc {
	return func(_ context.Context, level logging.Level, msg string, args ...any) {
		if level < minLevel || skipMirroredLog(msg, args) {
			return
		}

		event := map[string]any{
			"dt":      time.Now().UTC().Format(time.RFC3339Nano),
			"level":   level.String(),
			"message": msg,
		}
		if service != "" {
			event["service"] = service
		}
		if env != "" {
			event["env"] = env
		}
		for i := 0; i < len(args); i += 2 {
			key, _ := args[i].(string)
			if strings.TrimSpace(key) == "" {
				key = fmt.Sprintf("arg_%d", i/2)
			}
			if i+1 >= len(args) {
				event[key] = nil
				continue
			}
			event[key] = eventValue(args[i+1])
		}
		s.enqueue(event)
	}
}

func eventValue(value any) any {
	switch v := value.(type) {
	case error:
		return v.Error()
	case time.Duration:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

func (s *betterStackShipper) enqueue(event map[string]any) {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()
	if s.closed.Load() {
		return
	}

	select {
	case s.queue <- event:
	default:
		dropped := s.dropped.Add(1)
		if dropped == 1 || dropped%100 == 0 {
			fmt.Fprintf(os.Stderr, "betterstack queue full; dropped logs=%d\n", dropped)
		}
	}
}

func (s *betterStackShipper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushEvery)
	defer ticker.Stop()

	batch := make([]map[string]any, 0, betterStackBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.send(batch)
		batch = batch[:0]
	}

	for {
		select {
		case event, ok := <-s.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, event)
			if len(batch) >= betterStackBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (s *betterStackShipper) send(batch []map[string]any) {
	payload, err := sonic.Marshal(batch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack encode batch failed: %v\n", err)
		return
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack create request failed: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	// Logging here would loop back into the mirror.
	resp, err := s.client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack send logs failed: %v\n", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		fmt.Fprintf(os.Stderr, "betterstack send logs got non-2xx status=%d\n", resp.StatusCode)
	}
}

func (s *betterStackShipper) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.queueMu.Lock()
		s.closed.Store(true)
		close(s.queue)
		s.queueMu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
