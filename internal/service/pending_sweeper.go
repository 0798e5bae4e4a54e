package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"doubtdesk/internal/repository"
)

// Sweep defaults: pending signups older than a day are purged, checked once
// an hour.
const (
	defaultSweepInterval = time.Hour
	defaultPendingMaxAge = 24 * time.Hour
)

// PendingSweeper periodically purges expired server-side pending-signup
// records. Failures are logged and never propagate.
type PendingSweeper struct {
	repo     repository.PendingRepository
	logger   *slog.Logger
	interval time.Duration
	maxAge   time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewPendingSweeper creates the sweeper; zero durations select the defaults.
func NewPendingSweeper(repo repository.PendingRepository, logger *slog.Logger, interval, maxAge time.Duration) *PendingSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if maxAge <= 0 {
		maxAge = defaultPendingMaxAge
	}
	return &PendingSweeper{
		repo:     repo,
		logger:   logger,
		interval: interval,
		maxAge:   maxAge,
		stop:     make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (s *PendingSweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SweepOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// SweepOnce purges expired pending signups immediately.
func (s *PendingSweeper) SweepOnce(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)
	removed, err := s.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "pending-signup sweep failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		s.logger.InfoContext(ctx, "purged expired pending signups", slog.Int64("count", removed))
	}
}

// Stop halts the sweep loop and waits for it to exit.
func (s *PendingSweeper) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}
