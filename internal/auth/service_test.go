package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Account{}))
	return db
}

func testService(t *testing.T, rdb *redis.Client) *Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(testDB(t), rdb, nil, log)
}

func TestService_SignUpAndSignIn(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	subject, err := svc.SignUp(ctx, "student@pccoepune.org", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, subject.UID)
	assert.Equal(t, "student@pccoepune.org", subject.Email)

	t.Run("Correct password", func(t *testing.T) {
		got, err := svc.SignIn(ctx, "student@pccoepune.org", "secret123")
		require.NoError(t, err)
		assert.Equal(t, subject.UID, got.UID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "student@pccoepune.org", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "nobody@pccoepune.org", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		_, err := svc.SignUp(ctx, "student@pccoepune.org", "another1")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestService_ListSignInMethods(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	methods, err := svc.ListSignInMethods(ctx, "student@pccoepune.org")
	require.NoError(t, err)
	assert.Empty(t, methods)

	_, err = svc.SignUp(ctx, "student@pccoepune.org", "secret123")
	require.NoError(t, err)

	methods, err = svc.ListSignInMethods(ctx, "student@pccoepune.org")
	require.NoError(t, err)
	assert.Equal(t, []string{MethodPassword}, methods)
}

func TestService_FailureLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := testService(t, rdb)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "student@pccoepune.org", "secret123")
	require.NoError(t, err)

	for i := 0; i < maxFailedAttempts; i++ {
		_, err := svc.SignIn(ctx, "student@pccoepune.org", fmt.Sprintf("wrong-%d", i))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Limit reached: even the correct password is rejected.
	_, err = svc.SignIn(ctx, "student@pccoepune.org", "secret123")
	assert.ErrorIs(t, err, ErrRateLimited)

	// The window lapsing clears the counter.
	mr.FastForward(failureWindow)
	got, err := svc.SignIn(ctx, "student@pccoepune.org", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "student@pccoepune.org", got.Email)
}
