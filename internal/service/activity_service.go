package service

import (
	"context"
	"log/slog"
	"sync"

	"doubtdesk/internal/models"
	"doubtdesk/internal/repository"
)

const defaultActivityBuffer = 256

// ActivityService writes audit records off the request path. Enqueue never
// blocks and never fails the caller: when the buffer is saturated the entry
// is dropped and the drop is logged.
type ActivityService struct {
	repo   repository.ActivityRepository
	logger *slog.Logger

	queue     chan *models.ActivityLog
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewActivityService starts the background writer. buffer <= 0 selects the
// default queue size.
func NewActivityService(repo repository.ActivityRepository, logger *slog.Logger, buffer int) *ActivityService {
	if buffer <= 0 {
		buffer = defaultActivityBuffer
	}
	s := &ActivityService{
		repo:   repo,
		logger: logger,
		queue:  make(chan *models.ActivityLog, buffer),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Enqueue records an activity entry, best-effort. Safe on a nil receiver so
// callers can be wired without an activity sink.
func (s *ActivityService) Enqueue(userID, action string, details map[string]string) {
	if s == nil {
		return
	}
	entry := &models.ActivityLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	select {
	case s.queue <- entry:
	default:
		s.logger.Warn("activity queue full, dropping entry",
			slog.String("user_id", userID), slog.String("action", action))
	}
}

// Close stops accepting entries and flushes the queue.
func (s *ActivityService) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}

func (s *ActivityService) run() {
	defer s.wg.Done()
	for entry := range s.queue {
		if err := s.repo.Create(context.Background(), entry); err != nil {
			s.logger.Error("activity write failed",
				slog.String("user_id", entry.UserID),
				slog.String("action", entry.Action),
				slog.String("error", err.Error()),
			)
		}
	}
}
