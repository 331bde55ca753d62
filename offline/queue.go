// Package offline buffers order submissions made while the device could not
// reach the API and replays them, in the order they were placed, once it can.
package offline

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/notify"
	"github.com/Kariqs/tablefy/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submitter places an order with the remote API.
type Submitter interface {
	CreateOrder(ctx context.Context, p models.OrderPayload) (models.Order, error)
}

type SubmitFunc func(ctx context.Context, p models.OrderPayload) (models.Order, error)

func (f SubmitFunc) CreateOrder(ctx context.Context, p models.OrderPayload) (models.Order, error) {
	return f(ctx, p)
}

type SyncResult struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Remaining int `json:"remaining"`
}

type Queue struct {
	// passMu is held for a whole Sync pass so two passes never submit the
	// same entry.
	passMu sync.Mutex

	mu      sync.Mutex
	entries []models.QueuedOrder

	storage   storage.Storage
	submitter Submitter
	notifier  notify.Notifier
	log       *zap.Logger
	now       func() time.Time

	onSubmitted func(models.QueuedOrder, models.Order)
}

type Option func(*Queue)

// OnSubmitted registers a hook run after each entry is accepted by the API.
func OnSubmitted(fn func(models.QueuedOrder, models.Order)) Option {
	return func(q *Queue) { q.onSubmitted = fn }
}

func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// New rehydrates the queue from s.
func New(s storage.Storage, sub Submitter, n notify.Notifier, log *zap.Logger, opts ...Option) *Queue {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	q := &Queue{storage: s, submitter: sub, notifier: n, log: log, now: time.Now}
	for _, opt := range opts {
		opt(q)
	}

	var entries []models.QueuedOrder
	if storage.LoadJSON(s, storage.KeyOfflineOrders, &entries) {
		q.entries = entries
	}
	return q
}

// Enqueue stores p for later submission. The returned error reports a failed
// storage write; the entry is still queued in memory.
func (q *Queue) Enqueue(p models.OrderPayload) (models.QueuedOrder, error) {
	entry := models.QueuedOrder{
		ID:       uuid.NewString(),
		Payload:  p,
		QueuedAt: q.now().UTC(),
	}
	if entry.Payload.ClientReference == "" {
		entry.Payload.ClientReference = entry.ID
	}

	q.mu.Lock()
	q.entries = append(q.entries, entry)
	err := q.persistLocked()
	q.mu.Unlock()

	q.log.Info("order queued offline",
		zap.String("queued_id", entry.ID),
		zap.String("restaurant", p.Restaurant),
		zap.String("table", p.Table))
	q.notifier.Info("You are offline. Your order was saved and will be sent when the connection is back.")
	return entry, err
}

// Sync submits every queued entry once, oldest first, waiting for each
// response before the next request. Accepted entries are dropped; the rest
// stay queued in their original order for the next pass.
func (q *Queue) Sync(ctx context.Context) SyncResult {
	q.passMu.Lock()
	defer q.passMu.Unlock()

	q.mu.Lock()
	batch := slices.Clone(q.entries)
	q.mu.Unlock()

	if len(batch) == 0 {
		return SyncResult{}
	}

	accepted := make(map[string]bool, len(batch))
	failures := make(map[string]string)
	for _, entry := range batch {
		order, err := q.submitter.CreateOrder(ctx, entry.Payload)
		if err != nil {
			q.log.Warn("queued order not submitted",
				zap.String("queued_id", entry.ID), zap.Error(err))
			failures[entry.ID] = err.Error()
			continue
		}
		accepted[entry.ID] = true
		q.log.Info("queued order submitted",
			zap.String("queued_id", entry.ID),
			zap.String("order_id", order.ID),
			zap.String("order_number", order.OrderNumber))
		if q.onSubmitted != nil {
			q.onSubmitted(entry, order)
		}
	}

	q.mu.Lock()
	kept := make([]models.QueuedOrder, 0, len(q.entries))
	for _, entry := range q.entries {
		if accepted[entry.ID] {
			continue
		}
		if msg, ok := failures[entry.ID]; ok {
			entry.Attempts++
			entry.LastError = msg
		}
		kept = append(kept, entry)
	}
	q.entries = kept
	if err := q.persistLocked(); err != nil {
		q.log.Error("offline queue snapshot not written", zap.Error(err))
	}
	remaining := len(q.entries)
	q.mu.Unlock()

	result := SyncResult{Attempted: len(batch), Succeeded: len(accepted), Remaining: remaining}
	switch {
	case result.Succeeded == 0:
		q.notifier.Dismiss()
	case result.Succeeded == 1:
		q.notifier.Success("1 offline order was sent")
	default:
		q.notifier.Success(fmt.Sprintf("%d offline orders were sent", result.Succeeded))
	}
	return result
}

// Pending returns a copy of the queued entries, oldest first.
func (q *Queue) Pending() []models.QueuedOrder {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.entries)
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue) persistLocked() error {
	entries := q.entries
	if entries == nil {
		entries = []models.QueuedOrder{}
	}
	return storage.SaveJSON(q.storage, storage.KeyOfflineOrders, entries)
}
