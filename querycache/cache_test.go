package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchCachesSuccess(t *testing.T) {
	c := New()
	var calls int
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"soup"}, nil
	}

	for range 3 {
		v, err := Fetch(context.Background(), c, "menu:r1", load)
		if err != nil || len(v) != 1 {
			t.Fatalf("fetch: %v %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one load, got %d", calls)
	}
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := New()
	var calls int
	boom := errors.New("boom")
	load := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}

	if _, err := Fetch(context.Background(), c, "k", load); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	v, err := Fetch(context.Background(), c, "k", load)
	if err != nil || v != 7 {
		t.Fatalf("expected 7, got %v %v", v, err)
	}
}

func TestInvalidateDropsNestedKeys(t *testing.T) {
	tests := []struct {
		name       string
		invalidate []string
		kept       []string
		dropped    []string
	}{
		{
			name:       "prefix",
			invalidate: []string{"orders"},
			kept:       []string{"order:1", "ordersx", "kitchen:r1"},
			dropped:    []string{"orders", "orders:r1", "orders:r1:pending"},
		},
		{
			name:       "several",
			invalidate: []string{"kitchen", "order:1"},
			kept:       []string{"orders", "orders:r1", "ordersx", "order:10"},
			dropped:    []string{"kitchen:r1", "order:1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			for _, k := range []string{"orders", "orders:r1", "orders:r1:pending", "ordersx", "order:1", "order:10", "kitchen:r1"} {
				c.Set(k, k)
			}
			c.Invalidate(tt.invalidate...)
			for _, k := range tt.kept {
				if _, ok := c.lookup(k); !ok {
					t.Errorf("%s should be kept", k)
				}
			}
			for _, k := range tt.dropped {
				if _, ok := c.lookup(k); ok {
					t.Errorf("%s should be dropped", k)
				}
			}
		})
	}
}

func TestStaleEntriesReload(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(WithStaleTime(time.Minute), WithClock(func() time.Time { return now }))
	var calls int
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	Fetch(context.Background(), c, "k", load)
	now = now.Add(30 * time.Second)
	if v, _ := Fetch(context.Background(), c, "k", load); v != 1 {
		t.Fatalf("expected cached value, got %d", v)
	}
	now = now.Add(time.Minute)
	if v, _ := Fetch(context.Background(), c, "k", load); v != 2 {
		t.Fatalf("expected reload, got %d", v)
	}
}

func TestConcurrentFetchSharesOneCall(t *testing.T) {
	c := New()
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Fetch(context.Background(), c, "k", load)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one shared call, got %d", calls.Load())
	}
}

func TestInvalidateDuringLoadDiscardsResult(t *testing.T) {
	c := New()
	var calls int
	load := func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			// An order event arrives while the first list is on the wire.
			c.Invalidate("orders")
			return "old list", nil
		}
		return "new list", nil
	}

	if v, _ := Fetch(context.Background(), c, "orders:r1", load); v != "old list" {
		t.Fatalf("first fetch returns what it loaded, got %q", v)
	}
	v, err := Fetch(context.Background(), c, "orders:r1", load)
	if err != nil || v != "new list" || calls != 2 {
		t.Fatalf("expected a reload after the event, got %q calls=%d err=%v", v, calls, err)
	}
	if v, _ := Fetch(context.Background(), c, "orders:r1", load); v != "new list" || calls != 2 {
		t.Fatalf("reloaded value should be cached, got %q calls=%d", v, calls)
	}
}

func TestInvalidateDuringLoadKeepsUnrelatedKeys(t *testing.T) {
	c := New()
	var calls int
	load := func(context.Context) (string, error) {
		calls++
		c.Invalidate("kitchen")
		return "menu", nil
	}

	Fetch(context.Background(), c, "menu:r1", load)
	Fetch(context.Background(), c, "menu:r1", load)
	if calls != 1 {
		t.Fatalf("an unrelated invalidation must not discard the load, calls=%d", calls)
	}
}

func TestFetchAfterInvalidateDoesNotJoinStaleLoad(t *testing.T) {
	c := New()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	load := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return "old", nil
		}
		return "fresh", nil
	}

	done := make(chan string)
	go func() {
		v, _ := Fetch(context.Background(), c, "order:42", load)
		done <- v
	}()
	<-started
	c.Invalidate("order:42")

	v, err := Fetch(context.Background(), c, "order:42", load)
	if err != nil || v != "fresh" {
		t.Fatalf("expected a new load after the event, got %q %v", v, err)
	}
	close(release)
	if old := <-done; old != "old" {
		t.Fatalf("first caller got %q", old)
	}
	if v, _ := Fetch(context.Background(), c, "order:42", load); v != "fresh" {
		t.Fatalf("stale load overwrote the fresh value: %q", v)
	}
}
