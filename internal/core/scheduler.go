package core

// scheduler.go expires old collections.
//
// Collections are swept two ways: opportunistically by incoming requests
// (MaybeSweep) and, optionally, on a cron schedule so that an idle server
// still drops expired data. Both paths share the same guard, so at most one
// sweep runs at a time within a process. Sweep failures are logged and never
// stop the server.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SweepExpired removes every collection older than the service's max age and
// returns how many were removed.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	start := time.Now()
	removed, err := s.store.SweepExpired(ctx, s.maxAge)
	if err != nil {
		return removed, fmt.Errorf("sweep expired sessions: %w", err)
	}
	if removed > 0 {
		slog.Info("expired sessions removed",
			"removed", removed,
			"max_age", s.maxAge,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return removed, nil
}

// MaybeSweep runs SweepExpired unless another sweep is already running.
// It reports whether a sweep ran.
func (s *Service) MaybeSweep(ctx context.Context) bool {
	if !s.sweeping.CompareAndSwap(false, true) {
		return false
	}
	defer s.sweeping.Store(false)

	if _, err := s.SweepExpired(ctx); err != nil {
		slog.Warn("sweep failed", "error", err)
	}
	return true
}

// StartSweepScheduler sweeps on the cron schedule spec until ctx is
// cancelled. It blocks, so run it in its own goroutine.
func (s *Service) StartSweepScheduler(ctx context.Context, spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { s.MaybeSweep(ctx) }); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	slog.Info("sweep scheduler started", "schedule", spec, "max_age", s.maxAge)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("sweep scheduler stopped")
	return nil
}
