// Package stage holds signup data that is waiting for email verification.
// The stage is ephemeral by contract: entries expire on their own and are
// cleared the moment verification completes.
package stage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL after which a staged signup silently disappears.
const PendingTTL = 24 * time.Hour

// PendingSignup is the staged signup payload.
type PendingSignup struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	UID     string `json:"uid"`
}

// Stage stores pending signups between the signup call and the emailed
// verification link being followed.
type Stage interface {
	Put(ctx context.Context, pending PendingSignup) error
	// Get returns nil when nothing is staged for the email.
	Get(ctx context.Context, email string) (*PendingSignup, error)
	Clear(ctx context.Context, email string) error
}

// New returns a Redis-backed stage, or an in-memory one when Redis is
// unavailable.
func New(rdb *redis.Client) Stage {
	if rdb == nil {
		return NewMemoryStage()
	}
	return &redisStage{rdb: rdb}
}

type redisStage struct {
	rdb *redis.Client
}

func (s *redisStage) Put(ctx context.Context, pending PendingSignup) error {
	b, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, stageKey(pending.Email), b, PendingTTL).Err()
}

func (s *redisStage) Get(ctx context.Context, email string) (*PendingSignup, error) {
	raw, err := s.rdb.Get(ctx, stageKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pending PendingSignup
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *redisStage) Clear(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, stageKey(email)).Err()
}

func stageKey(email string) string {
	return "pending_signup:" + email
}

// MemoryStage is a process-local stage used when Redis is down and in tests.
type MemoryStage struct {
	mu      sync.Mutex
	entries map[string]stagedEntry
}

type stagedEntry struct {
	pending  PendingSignup
	expireAt time.Time
}

// NewMemoryStage creates an empty in-memory stage.
func NewMemoryStage() *MemoryStage {
	return &MemoryStage{entries: make(map[string]stagedEntry)}
}

func (s *MemoryStage) Put(ctx context.Context, pending PendingSignup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[pending.Email] = stagedEntry{
		pending:  pending,
		expireAt: time.Now().Add(PendingTTL),
	}
	return nil
}

func (s *MemoryStage) Get(ctx context.Context, email string) (*PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[email]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expireAt) {
		delete(s.entries, email)
		return nil, nil
	}
	pending := entry.pending
	return &pending, nil
}

func (s *MemoryStage) Clear(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}
