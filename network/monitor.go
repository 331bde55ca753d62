// Package network tracks whether the remote API can currently be reached.
package network

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Probe returns nil when the API answered.
type Probe func(ctx context.Context) error

// Monitor starts out online. Listeners registered with OnReconnect run, in
// registration order, each time it moves from offline to online.
type Monitor struct {
	mu         sync.Mutex
	online     bool
	listeners  []func(context.Context)
	probe      Probe
	interval   time.Duration
	log        *zap.Logger
	lastChange time.Time
}

func NewMonitor(probe Probe, interval time.Duration, log *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{online: true, probe: probe, interval: interval, log: log, lastChange: time.Now()}
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Since returns when the state last changed.
func (m *Monitor) Since() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastChange
}

func (m *Monitor) OnReconnect(fn func(context.Context)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// SetOnline records the state and runs the reconnect listeners on the
// offline to online edge. Listeners run on the caller's goroutine.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	was := m.online
	m.online = online
	if was != online {
		m.lastChange = time.Now()
	}
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	if was == online {
		return
	}
	if !online {
		m.log.Warn("api unreachable, working offline")
		return
	}
	m.log.Info("api reachable again", zap.Int("listeners", len(listeners)))
	for _, fn := range listeners {
		fn(ctx)
	}
}

// MarkOffline records an outage detected by a failed request.
func (m *Monitor) MarkOffline() {
	m.SetOnline(context.Background(), false)
}

// Check probes the API once and returns the resulting state.
func (m *Monitor) Check(ctx context.Context) bool {
	if m.probe == nil {
		return m.Online()
	}
	err := m.probe(ctx)
	if ctx.Err() != nil {
		return m.Online()
	}
	if err != nil {
		m.log.Debug("probe failed", zap.Error(err))
	}
	m.SetOnline(ctx, err == nil)
	return err == nil
}

// Run probes on the interval until ctx ends.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
