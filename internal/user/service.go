package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 4
	maxUsernameLength = 50
	minPasswordLength = 6
	maxPasswordLength = 72
	bcryptCost        = 12
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var (
	ErrInvalidUsername    = fmt.Errorf("Username must be %d-%d characters and contain only letters, digits, '_' or '-'", minUsernameLength, maxUsernameLength)
	ErrPasswordTooShort   = fmt.Errorf("Password must be at least %d characters", minPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("Password must be at most %d bytes", maxPasswordLength)
	ErrUsernameTaken      = errors.New("Username already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInternalError      = errors.New("internal Server Error")
)

// IsValidationError reports whether err rejects the submitted username or password.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUsername) || errors.Is(err, ErrPasswordTooShort) || errors.Is(err, ErrPasswordTooLong)
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the part of a user that leaves the identity store.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Username: u.Username}
}

type Service interface {
	Register(ctx context.Context, username, password string) (*PublicUser, error)
	Authenticate(ctx context.Context, username, password string) (*PublicUser, error)
	GetUserByID(ctx context.Context, userID string) (*PublicUser, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewUserService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func validateCredentials(username, password string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength || !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func (s *service) Register(ctx context.Context, username, password string) (*PublicUser, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "hash password", slog.Any("error", err))
		return nil, ErrInternalError
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.createUser(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		s.logger.ErrorContext(ctx, "create user", slog.Any("error", err))
		return nil, ErrInternalError
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return user.Public(), nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*PublicUser, error) {
	user, err := s.repo.getUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "find user", slog.Any("error", err))
		return nil, ErrInternalError
	}

	if !doPasswordsMatch(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user.Public(), nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*PublicUser, error) {
	user, err := s.repo.getUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "find user", slog.Any("error", err))
		return nil, ErrInternalError
	}
	return user.Public(), nil
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
