package service

import (
	"context"
	"log/slog"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/query"
	"github.com/avicena/avicena/internal/session"
)

// SessionService manages login, logout, and the stored session.
type SessionService struct {
	api      *api.Client
	sessions *session.Store
	cache    *query.Store
	logger   *slog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(client *api.Client, sessions *session.Store, cache *query.Store, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{api: client, sessions: sessions, cache: cache, logger: logger}
}

// Login authenticates and persists the session for later runs.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(result.Token, result.User); err != nil {
		s.logger.Error("failed to persist session", "error", err)
		return nil, err
	}
	s.logger.Info("logged in", "email", email)
	return result.User, nil
}

// Logout clears the stored session and drops the response cache so the
// next login starts clean.
func (s *SessionService) Logout() error {
	s.cache.InvalidateAll()
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	s.logger.Info("logged out")
	return nil
}

// CurrentUser returns the stored user, or nil when logged out.
func (s *SessionService) CurrentUser() *domain.User {
	return s.sessions.User()
}

// LoggedIn reports whether a session token is stored.
func (s *SessionService) LoggedIn() bool {
	return s.sessions.LoggedIn()
}
