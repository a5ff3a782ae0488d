package user

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "github.com/sebuszqo/BudgetTracker/db"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSQLiteService(t *testing.T) Service {
	t.Helper()

	dbService, err := database.NewDBService(context.Background(), t.TempDir(), "", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { dbService.Close() })

	return NewUserService(NewUserRepository(dbService.DB, dbService.Dialect), discardLogger())
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"valid", "alice", "password123", nil},
		{"valid with symbols", "bob_the-builder9", "secret", nil},
		{"empty username", "", "password123", ErrInvalidUsername},
		{"short username", "bob", "password123", ErrInvalidUsername},
		{"long username", "a123456789012345678901234567890123456789012345678901", "password123", ErrInvalidUsername},
		{"space in username", "alice smith", "password123", ErrInvalidUsername},
		{"non ascii username", "zoë_1234", "password123", ErrInvalidUsername},
		{"short password", "alice", "12345", ErrPasswordTooShort},
		{"long password", "alice", string(make([]byte, 73)), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCredentials(tt.username, tt.password)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	registered, err := svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, registered.ID)
	assert.Equal(t, "alice", registered.Username)

	authenticated, err := svc.Authenticate(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered, authenticated)

	found, err := svc.GetUserByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered, found)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	_, err := svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "another-password")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_UsernameIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	_, err := svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Alice", "password123")
	assert.NoError(t, err)
}

func TestRegister_ConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, "racer", "password123")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrUsernameTaken)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	_, err := svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc := newSQLiteService(t)

	_, err := svc.GetUserByID(context.Background(), "3b0f7c2e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPasswordIsHashed(t *testing.T) {
	hash, err := hashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hash)
	assert.True(t, doPasswordsMatch(hash, "password123"))
	assert.False(t, doPasswordsMatch(hash, "password124"))

	other, err := hashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}
