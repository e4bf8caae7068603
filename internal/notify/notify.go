// Package notify is the transient user-notification channel. Data-layer code
// reports "this call failed with message X"; the UI polls the feed and shows
// the message. Keeping the effect out of the data layer keeps the session,
// tenant and gateway logic unit-testable.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification is one transient message for the UI.
type Notification struct {
	ID      string    `json:"id"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Feed collects notifications until the UI drains them. Every message is
// also logged so headless runs keep a trace.
type Feed struct {
	mu      sync.Mutex
	pending []Notification
	logger  *zap.Logger
	onEmit  func()
}

// NewFeed creates a notification feed.
func NewFeed(logger *zap.Logger) *Feed {
	return &Feed{logger: logger}
}

// OnEmit registers a hook invoked once per notification (metrics wiring).
func (f *Feed) OnEmit(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onEmit = fn
}

// Error emits a user-visible error notification.
func (f *Feed) Error(message string) {
	if message == "" {
		return
	}
	f.logger.Warn("user notification", zap.String("message", message))

	f.mu.Lock()
	f.pending = append(f.pending, Notification{
		ID:      uuid.NewString(),
		Level:   "error",
		Message: message,
		At:      time.Now(),
	})
	hook := f.onEmit
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Drain returns all pending notifications and clears the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending
	f.pending = nil
	return out
}

// Recorder is a test double capturing messages in order.
type Recorder struct {
	mu       sync.Mutex
	Messages []string
}

// Error records the message.
func (r *Recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, message)
}

// Count returns how many notifications were recorded.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Messages)
}
