package service

import (
	"context"
	"log/slog"
	"time"
)

// EventExpirer deletes log entries past the retention window.
type EventExpirer interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper expires old drawing events on a timer, independent of room
// activity. It replaces a store-level TTL index.
type Sweeper struct {
	events    EventExpirer
	retention time.Duration
	interval  time.Duration
}

func NewSweeper(events EventExpirer, retention, interval time.Duration) *Sweeper {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{events: events, retention: retention, interval: interval}
}

// Run blocks until ctx is done. Sweep failures are logged and retried on the
// next tick; they never stop the loop.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.retention)
			n, err := s.events.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				slog.Warn("event expiry sweep failed", "err", err)
				continue
			}
			if n > 0 {
				slog.Info("expired old events", "deleted", n, "cutoff", cutoff)
			}
		}
	}
}
