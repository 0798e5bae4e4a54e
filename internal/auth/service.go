package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Failed sign-in attempts allowed per email before the provider starts
// rejecting with ErrRateLimited.
const (
	maxFailedAttempts = 5
	failureWindow     = 15 * time.Minute
)

// Account is the provider's credential record. It lives in its own table,
// separate from the profile store.
type Account struct {
	UID          string    `gorm:"primaryKey;size:64"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time
}

// Service is the default Provider: GORM-backed accounts, bcrypt credentials,
// and a Redis-counted failure limiter (fail-open when Redis is unavailable).
type Service struct {
	db     *gorm.DB
	rdb    *redis.Client
	mailer Mailer
	logger *slog.Logger
}

var _ Provider = (*Service)(nil)

// NewService creates the credential provider. rdb and mailer may be nil; a
// nil mailer falls back to logging the verification link.
func NewService(db *gorm.DB, rdb *redis.Client, mailer Mailer, logger *slog.Logger) *Service {
	if mailer == nil {
		mailer = &LogMailer{Logger: logger}
	}
	return &Service{db: db, rdb: rdb, mailer: mailer, logger: logger}
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Subject, error) {
	if limited, err := s.isRateLimited(ctx, email); err == nil && limited {
		return Subject{}, ErrRateLimited
	}

	var account Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailure(ctx, email)
			return Subject{}, ErrInvalidCredentials
		}
		return Subject{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, email)
		return Subject{}, ErrInvalidCredentials
	}

	s.clearFailures(ctx, email)
	return Subject{UID: account.UID, Email: account.Email}, nil
}

func (s *Service) SignUp(ctx context.Context, email, password string) (Subject, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Subject{}, err
	}

	account := Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Subject{}, ErrEmailTaken
		}
		return Subject{}, err
	}

	return Subject{UID: account.UID, Email: account.Email}, nil
}

// SignOut invalidates nothing server-side: sessions are stateless tokens
// that simply expire. The method exists so callers can end a session
// symmetrically and so alternative providers can revoke state.
func (s *Service) SignOut(ctx context.Context, uid string) error {
	return nil
}

func (s *Service) SendVerification(ctx context.Context, subject Subject) error {
	link := fmt.Sprintf("/verify-email?uid=%s", subject.UID)
	return s.mailer.SendVerification(ctx, subject.Email, link)
}

func (s *Service) ListSignInMethods(ctx context.Context, email string) ([]string, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Account{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return []string{MethodPassword}, nil
}

func (s *Service) isRateLimited(ctx context.Context, email string) (bool, error) {
	if s.rdb == nil {
		return false, nil // Fail-open if Redis is not available
	}
	cnt, err := s.rdb.Get(ctx, failureKey(email)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return cnt >= maxFailedAttempts, nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.rdb == nil {
		return
	}
	key := failureKey(email)
	cnt, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if cnt == 1 {
		s.rdb.Expire(ctx, key, failureWindow)
	}
}

func (s *Service) clearFailures(ctx context.Context, email string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, failureKey(email))
}

func failureKey(email string) string {
	return "auth:failures:" + email
}

// LogMailer writes verification links to the log instead of sending mail.
// Used in development and tests.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendVerification(ctx context.Context, email, link string) error {
	if m.Logger != nil {
		m.Logger.InfoContext(ctx, "verification email",
			slog.String("email", email),
			slog.String("link", link),
		)
	}
	return nil
}
