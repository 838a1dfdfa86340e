package repository

import (
	"context"
	"sync"
	"time"

	"summerschool.lol/lolcoin/internal/domain/entity"
	"summerschool.lol/lolcoin/internal/infrastructure/logger"
)

// DefaultNotificationCapacity bounds how many notifications are kept.
const DefaultNotificationCapacity = 50

// InMemoryNotificationFeed implements the Notifier and NotificationFeed ports.
// It keeps the most recent notifications in emission order.
type InMemoryNotificationFeed struct {
	mu       sync.RWMutex
	entries  []entity.Notification
	capacity int
	logger   logger.Logger
	now      func() time.Time
}

// NewInMemoryNotificationFeed creates a new in-memory notification feed
func NewInMemoryNotificationFeed(capacity int, logger logger.Logger) *InMemoryNotificationFeed {
	if capacity <= 0 {
		capacity = DefaultNotificationCapacity
	}
	return &InMemoryNotificationFeed{
		entries:  make([]entity.Notification, 0, capacity),
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Notify stores n, evicting the oldest entry when full
func (f *InMemoryNotificationFeed) Notify(ctx context.Context, n entity.Notification) {
	if n.At.IsZero() {
		n.At = f.now()
	}

	f.mu.Lock()
	if len(f.entries) == f.capacity {
		copy(f.entries, f.entries[1:])
		f.entries = f.entries[:len(f.entries)-1]
	}
	f.entries = append(f.entries, n)
	f.mu.Unlock()

	attrs := []any{
		"severity", string(n.Severity),
		"summary", n.Summary,
		"detail", n.Detail,
	}
	if n.Link != nil {
		attrs = append(attrs, "link", n.Link.URL)
	}
	f.logger.LogInfo(ctx, "Notification shown", attrs...)
}

// Recent returns up to limit notifications, newest first. A non-positive
// limit returns everything kept.
func (f *InMemoryNotificationFeed) Recent(ctx context.Context, limit int) []entity.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if limit <= 0 || limit > len(f.entries) {
		limit = len(f.entries)
	}

	// Copy to avoid sharing the backing array
	out := make([]entity.Notification, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out
}
