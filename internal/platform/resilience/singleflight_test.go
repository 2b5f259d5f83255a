package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32
	var sharedCount int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, shared := g.Do("scoremap:128:2025:apertura", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if v != "ok" {
				t.Errorf("unexpected value %v", v)
			}
			if shared {
				atomic.AddInt32(&sharedCount, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if atomic.LoadInt32(&sharedCount) == 0 {
		t.Fatalf("expected result to be shared between callers")
	}
}

func TestSingleFlight_SequentialCallsRunAgain(t *testing.T) {
	var g SingleFlight
	calls := 0
	for i := 0; i < 3; i++ {
		if _, err, _ := g.Do("rounds:128:2025", func() (any, error) {
			calls++
			return nil, nil
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 3 {
		t.Fatalf("expected 3 sequential calls, got %d", calls)
	}
}
