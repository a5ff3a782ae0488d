package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

var ErrInvalidSessionToken = errors.New("session token is invalid")

const (
	DefaultSessionExpiry = 30 * 24 * time.Hour

	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
)

// SessionManagerInterface is the session store capability: values keyed
// per session token with inactivity-based expiry.
type SessionManagerInterface interface {
	Create() (string, error)
	Get(token, key string) (string, bool)
	Set(token, key, value string) error
	Clear(token string)
	CleanupExpired() int
}

type session struct {
	values    map[string]string
	expiresAt time.Time
	createdAt time.Time
}

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session
	expiry   time.Duration
	now      func() time.Time
}

func NewSessionManager(expiry time.Duration) *SessionManager {
	if expiry <= 0 {
		expiry = DefaultSessionExpiry
	}
	return &SessionManager{
		sessions: make(map[string]*session),
		expiry:   expiry,
		now:      time.Now,
	}
}

func generateSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

// Create starts an empty session and returns its token.
func (sm *SessionManager) Create() (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", err
	}

	now := sm.now()
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[token] = &session{
		values:    make(map[string]string),
		expiresAt: now.Add(sm.expiry),
		createdAt: now,
	}
	return token, nil
}

// Get returns the value stored under key. A successful lookup pushes the
// session's expiry forward; an expired session is dropped.
func (sm *SessionManager) Get(token, key string) (string, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.live(token)
	if !ok {
		return "", false
	}
	value, ok := s.values[key]
	return value, ok
}

func (sm *SessionManager) Set(token, key, value string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.live(token)
	if !ok {
		return ErrInvalidSessionToken
	}
	s.values[key] = value
	return nil
}

func (sm *SessionManager) Clear(token string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, token)
}

// CleanupExpired removes every expired session and reports how many were removed.
func (sm *SessionManager) CleanupExpired() int {
	now := sm.now()

	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for token, s := range sm.sessions {
		if now.After(s.expiresAt) {
			delete(sm.sessions, token)
			removed++
		}
	}
	return removed
}

// live must be called with mu held.
func (sm *SessionManager) live(token string) (*session, bool) {
	s, ok := sm.sessions[token]
	if !ok {
		return nil, false
	}
	now := sm.now()
	if now.After(s.expiresAt) {
		delete(sm.sessions, token)
		return nil, false
	}
	s.expiresAt = now.Add(sm.expiry)
	return s, true
}
