// Package realtime keeps a websocket open to the platform's event feed.
//
// The client joins rooms such as "kitchen:<restaurant>" and reacts to named
// events by re-fetching from the REST API. Event payloads are hints only.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	EventOrderNew       = "order:new"
	EventOrderStatus    = "order:status"
	EventOrderPayment   = "order:payment"
	EventServiceRequest = "service:request"
)

const (
	backoffStep = time.Second
	maxBackoff  = 30 * time.Second
	writeWait   = 10 * time.Second
)

func RestaurantRoom(id string) string { return "restaurant:" + id }
func KitchenRoom(id string) string    { return "kitchen:" + id }
func OrderRoom(id string) string      { return "order:" + id }

// Event is one inbound frame.
type Event struct {
	Name string          `json:"event"`
	Room string          `json:"room,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type Handler func(Event)

type control struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

type subscription struct {
	id int
	fn Handler
}

type Channel struct {
	url    string
	token  func() string
	dialer *websocket.Dialer
	log    *zap.Logger
	step   time.Duration

	mu       sync.Mutex
	conn     *websocket.Conn
	rooms    []string
	handlers map[string][]subscription
	nextID   int

	writeMu sync.Mutex
}

// New returns a channel for the websocket endpoint at rawURL. token is read
// on every (re)connect so a refreshed access token is picked up.
func New(rawURL string, token func() string, log *zap.Logger) *Channel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Channel{
		url:      rawURL,
		token:    token,
		dialer:   websocket.DefaultDialer,
		log:      log,
		step:     backoffStep,
		handlers: make(map[string][]subscription),
	}
}

// On subscribes fn to event and returns a func that unsubscribes it.
func (c *Channel) On(event string, fn Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.handlers[event] = append(c.handlers[event], subscription{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.handlers[event] = slices.DeleteFunc(c.handlers[event], func(s subscription) bool { return s.id == id })
	}
}

// Join adds room to the set replayed on every connect. If a connection is
// open the join is sent right away.
func (c *Channel) Join(room string) error {
	c.mu.Lock()
	if !slices.Contains(c.rooms, room) {
		c.rooms = append(c.rooms, room)
	}
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return c.send(conn, control{Action: "join", Room: room})
}

func (c *Channel) Leave(room string) error {
	c.mu.Lock()
	c.rooms = slices.DeleteFunc(c.rooms, func(r string) bool { return r == room })
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return c.send(conn, control{Action: "leave", Room: room})
}

func (c *Channel) Rooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.rooms)
}

func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Run connects and reads until ctx ends, reconnecting after failures with a
// linearly growing delay capped at 30s.
func (c *Channel) Run(ctx context.Context) error {
	attempt := 0
	for {
		err := c.session(ctx, func() { attempt = 0 })
		if ctx.Err() != nil {
			return ctx.Err()
		}
		attempt++
		wait := min(time.Duration(attempt)*c.step, maxBackoff)
		c.log.Warn("realtime connection lost", zap.Error(err), zap.Int("attempt", attempt), zap.Duration("retry_in", wait))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// session runs one connection from dial to read error.
func (c *Channel) session(ctx context.Context, connected func()) error {
	target, err := c.dialURL()
	if err != nil {
		return err
	}
	conn, _, err := c.dialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	rooms := slices.Clone(c.rooms)
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()

	for _, room := range rooms {
		if err := c.send(conn, control{Action: "join", Room: room}); err != nil {
			return fmt.Errorf("rejoin %s: %w", room, err)
		}
	}
	connected()
	c.log.Info("realtime connected", zap.Strings("rooms", rooms))

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil || ev.Name == "" {
			c.log.Debug("ignoring malformed frame", zap.ByteString("frame", data))
			continue
		}
		c.dispatch(ev)
	}
}

func (c *Channel) dispatch(ev Event) {
	c.mu.Lock()
	subs := slices.Clone(c.handlers[ev.Name])
	c.mu.Unlock()
	for _, s := range subs {
		s.fn(ev)
	}
}

func (c *Channel) send(conn *websocket.Conn, msg control) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("%s %s: %w", msg.Action, msg.Room, err)
	}
	return nil
}

func (c *Channel) dialURL() (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("parse socket url: %w", err)
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			q := u.Query()
			q.Set("token", tok)
			u.RawQuery = q.Encode()
		}
	}
	return u.String(), nil
}
