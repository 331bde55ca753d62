// Package notify carries the short-lived messages shown to the person at the
// device: order confirmations, save/delete acknowledgments, server errors.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notifier is implemented by anything that can show a transient message.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
	// Dismiss hides whatever is currently shown.
	Dismiss()
}

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Feed keeps the most recent notifications for the UI to poll.
type Feed struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	log      *zap.Logger
	now      func() time.Time
}

func NewFeed(capacity int, log *zap.Logger) *Feed {
	if capacity < 1 {
		capacity = 50
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{capacity: capacity, log: log, now: time.Now}
}

func (f *Feed) Success(msg string) { f.push(LevelSuccess, msg) }
func (f *Feed) Info(msg string)    { f.push(LevelInfo, msg) }
func (f *Feed) Error(msg string)   { f.push(LevelError, msg) }

func (f *Feed) Dismiss() {
	f.mu.Lock()
	f.items = nil
	f.mu.Unlock()
}

// Recent returns the retained notifications, oldest first.
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) push(level Level, msg string) {
	f.log.Info("notification", zap.String("level", string(level)), zap.String("message", msg))
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, Notification{Level: level, Message: msg, At: f.now()})
	if over := len(f.items) - f.capacity; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Info(string)    {}
func (Discard) Error(string)   {}
func (Discard) Dismiss()       {}
