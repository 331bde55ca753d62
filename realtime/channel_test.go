package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/tablefy/querycache"
	"github.com/gorilla/websocket"
)

// fakeFeed is a websocket server that records control frames per connection
// and lets the test push events to the latest connection.
type fakeFeed struct {
	t        *testing.T
	upgrader websocket.Upgrader

	mu      sync.Mutex
	conns   []*websocket.Conn
	tokens  []string
	frames  [][]control
	changed chan struct{}
}

func newFakeFeed(t *testing.T) (*fakeFeed, string) {
	f := &fakeFeed{t: t, changed: make(chan struct{}, 1)}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, "ws" + strings.TrimPrefix(srv.URL, "http") + "/socket"
}

func (f *fakeFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	f.mu.Lock()
	idx := len(f.conns)
	f.conns = append(f.conns, conn)
	f.tokens = append(f.tokens, r.URL.Query().Get("token"))
	f.frames = append(f.frames, nil)
	f.mu.Unlock()
	f.signal()

	for {
		var msg control
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		f.mu.Lock()
		f.frames[idx] = append(f.frames[idx], msg)
		f.mu.Unlock()
		f.signal()
	}
}

func (f *fakeFeed) signal() {
	select {
	case f.changed <- struct{}{}:
	default:
	}
}

func (f *fakeFeed) waitFor(cond func() bool) {
	f.t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		f.mu.Lock()
		ok := cond()
		f.mu.Unlock()
		if ok {
			return
		}
		select {
		case <-f.changed:
		case <-deadline:
			f.t.Fatal("timed out waiting for feed state")
		}
	}
}

func (f *fakeFeed) push(ev string, data string) {
	f.mu.Lock()
	conn := f.conns[len(f.conns)-1]
	f.mu.Unlock()
	frame := `{"event":"` + ev + `","room":"kitchen:r1","data":` + data + `}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		f.t.Fatalf("push: %v", err)
	}
}

func startChannel(t *testing.T, url string) *Channel {
	t.Helper()
	ch := New(url, func() string { return "tok-1" }, nil)
	ch.step = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ch.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ch
}

func TestJoinsAreSentWithToken(t *testing.T) {
	feed, url := newFakeFeed(t)
	ch := New(url, func() string { return "tok-1" }, nil)
	ch.Join(KitchenRoom("r1"))
	ch.Join(KitchenRoom("r1"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ch.Run(ctx) }()

	feed.waitFor(func() bool { return len(feed.frames) == 1 && len(feed.frames[0]) == 1 })
	if err := ch.Join(OrderRoom("42")); err != nil {
		t.Fatalf("join: %v", err)
	}
	feed.waitFor(func() bool { return len(feed.frames[0]) == 2 })
	if err := ch.Leave(KitchenRoom("r1")); err != nil {
		t.Fatalf("leave: %v", err)
	}
	feed.waitFor(func() bool { return len(feed.frames[0]) == 3 })

	feed.mu.Lock()
	got := feed.frames[0]
	token := feed.tokens[0]
	feed.mu.Unlock()
	want := []control{
		{Action: "join", Room: "kitchen:r1"},
		{Action: "join", Room: "order:42"},
		{Action: "leave", Room: "kitchen:r1"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if token != "tok-1" {
		t.Fatalf("expected token query, got %q", token)
	}
	if rooms := ch.Rooms(); len(rooms) != 1 || rooms[0] != "order:42" {
		t.Fatalf("unexpected rooms %v", rooms)
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestEventsInvalidateCache(t *testing.T) {
	feed, url := newFakeFeed(t)
	cache := querycache.New()
	ch := startChannel(t, url)
	BindInvalidations(ch, cache)
	ch.Join(KitchenRoom("r1"))

	feed.waitFor(func() bool { return len(feed.frames) == 1 && len(feed.frames[0]) == 1 })

	tests := []struct {
		event   string
		data    string
		dropped []string
		kept    []string
	}{
		{event: EventOrderNew, data: `{}`, dropped: []string{"orders:r1", "kitchen:r1"}, kept: []string{"order:42", "menu:r1"}},
		{event: EventOrderStatus, data: `{"orderId":"42"}`, dropped: []string{"orders:r1", "kitchen:r1", "order:42"}, kept: []string{"order:7", "billing:r1"}},
		{event: EventOrderPayment, data: `{"id":"7"}`, dropped: []string{"orders:r1", "billing:r1", "order:7"}, kept: []string{"kitchen:r1", "order:42"}},
		{event: EventServiceRequest, data: `{}`, dropped: []string{"service-requests:r1"}, kept: []string{"orders:r1"}},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			keys := []string{"orders:r1", "kitchen:r1", "billing:r1", "order:42", "order:7", "menu:r1", "service-requests:r1"}
			for _, k := range keys {
				cache.Set(k, true)
			}
			marker := make(chan struct{})
			unsub := ch.On(tt.event, func(Event) { close(marker) })
			defer unsub()

			feed.push(tt.event, tt.data)
			select {
			case <-marker:
			case <-time.After(2 * time.Second):
				t.Fatal("event not dispatched")
			}

			for _, k := range tt.dropped {
				if v, _ := querycache.Fetch(context.Background(), cache, k, miss); v {
					t.Errorf("%s should have been invalidated", k)
				}
			}
			for _, k := range tt.kept {
				if v, _ := querycache.Fetch(context.Background(), cache, k, miss); !v {
					t.Errorf("%s should still be cached", k)
				}
			}
		})
	}
}

func miss(context.Context) (bool, error) { return false, nil }

func TestRoomsAreReplayedAfterReconnect(t *testing.T) {
	feed, url := newFakeFeed(t)
	ch := startChannel(t, url)
	ch.Join(RestaurantRoom("r1"))
	ch.Join(KitchenRoom("r1"))

	feed.waitFor(func() bool { return len(feed.frames) == 1 && len(feed.frames[0]) == 2 })
	feed.mu.Lock()
	feed.conns[0].Close()
	feed.mu.Unlock()

	feed.waitFor(func() bool { return len(feed.frames) == 2 && len(feed.frames[1]) == 2 })
	feed.mu.Lock()
	defer feed.mu.Unlock()
	if feed.frames[1][0].Room != "restaurant:r1" || feed.frames[1][1].Room != "kitchen:r1" {
		t.Fatalf("unexpected replay %+v", feed.frames[1])
	}
}

func TestMalformedFramesAreIgnored(t *testing.T) {
	feed, url := newFakeFeed(t)
	ch := startChannel(t, url)
	got := make(chan Event, 1)
	ch.On(EventOrderNew, func(ev Event) { got <- ev })
	feed.waitFor(func() bool { return len(feed.conns) == 1 })

	feed.mu.Lock()
	conn := feed.conns[0]
	feed.mu.Unlock()
	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"room":"x"}`))
	feed.push(EventOrderNew, `{"orderId":"1"}`)

	select {
	case ev := <-got:
		if ev.Room != "kitchen:r1" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("valid event after malformed frames was not dispatched")
	}
}
