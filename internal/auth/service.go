package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sebuszqo/BudgetTracker/internal/user"
	"github.com/sebuszqo/BudgetTracker/pkg/ctxutil"
)

var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUnauthenticated    = errors.New("Not logged in")
	ErrInternalError      = errors.New("internal Server Error")
)

type Service interface {
	// Login authenticates the user and starts a new session, ending the one
	// carried by previousCookie if any. It returns the signed cookie value.
	Login(ctx context.Context, previousCookie, username, password string) (*user.PublicUser, string, error)
	// CurrentUser resolves a cookie value to the principal stored in its session.
	CurrentUser(cookieValue string) (ctxutil.Principal, error)
	Logout(cookieValue string)
	CleanupExpiredSessions() int
}

type service struct {
	userService    user.Service
	sessionManager SessionManagerInterface
	signer         CookieSignerInterface
	logger         *slog.Logger
}

func NewAuthService(userService user.Service, sessionManager SessionManagerInterface, signer CookieSignerInterface, logger *slog.Logger) Service {
	return &service{
		userService:    userService,
		sessionManager: sessionManager,
		signer:         signer,
		logger:         logger,
	}
}

func (s *service) Login(ctx context.Context, previousCookie, username, password string) (*user.PublicUser, string, error) {
	publicUser, err := s.userService.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", ErrInternalError
	}

	if previousCookie != "" {
		s.Logout(previousCookie)
	}

	token, err := s.sessionManager.Create()
	if err != nil {
		s.logger.ErrorContext(ctx, "create session", slog.Any("error", err))
		return nil, "", ErrInternalError
	}
	if err := s.sessionManager.Set(token, SessionKeyUserID, publicUser.ID); err != nil {
		s.logger.ErrorContext(ctx, "store session user", slog.Any("error", err))
		return nil, "", ErrInternalError
	}
	if err := s.sessionManager.Set(token, SessionKeyUsername, publicUser.Username); err != nil {
		s.logger.ErrorContext(ctx, "store session user", slog.Any("error", err))
		return nil, "", ErrInternalError
	}

	cookieValue, err := s.signer.Sign(token)
	if err != nil {
		s.sessionManager.Clear(token)
		s.logger.ErrorContext(ctx, "sign session cookie", slog.Any("error", err))
		return nil, "", ErrInternalError
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", publicUser.ID))
	return publicUser, cookieValue, nil
}

func (s *service) CurrentUser(cookieValue string) (ctxutil.Principal, error) {
	token, err := s.signer.Verify(cookieValue)
	if err != nil {
		return ctxutil.Principal{}, ErrUnauthenticated
	}

	userID, ok := s.sessionManager.Get(token, SessionKeyUserID)
	if !ok || userID == "" {
		return ctxutil.Principal{}, ErrUnauthenticated
	}
	username, ok := s.sessionManager.Get(token, SessionKeyUsername)
	if !ok || username == "" {
		return ctxutil.Principal{}, ErrUnauthenticated
	}
	return ctxutil.Principal{UserID: userID, Username: username}, nil
}

func (s *service) Logout(cookieValue string) {
	token, err := s.signer.Verify(cookieValue)
	if err != nil {
		return
	}
	s.sessionManager.Clear(token)
}

func (s *service) CleanupExpiredSessions() int {
	return s.sessionManager.CleanupExpired()
}
