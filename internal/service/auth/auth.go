// Package auth binds Telegram chats to staff identities for the duration of
// an event shift.
package auth

import (
	"context"
	"fmt"

	"barbot/core/logger"
	"barbot/internal/domain"

	"log/slog"
)

// Member is one entry of the static staff directory.
type Member struct {
	Password string
	Role     string
}

// Staff maps username to credentials and role. It is loaded once from config.
type Staff map[string]Member

// SessionStore is the persistence surface the service needs.
type SessionStore interface {
	Upsert(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, chatID int64) (*domain.Session, error)
	Delete(ctx context.Context, chatID int64) (bool, error)
}

// Service implements login, logout, and session lookup.
type Service struct {
	staff    Staff
	sessions SessionStore
}

// New builds the auth service.
func New(staff Staff, sessions SessionStore) *Service {
	return &Service{staff: staff, sessions: sessions}
}

// Login verifies credentials against the staff directory and persists the
// session. A chat can hold at most one session; logging in twice without a
// logout fails with ErrAlreadyLoggedIn.
func (s *Service) Login(ctx context.Context, chatID int64, username, password string) (string, error) {
	existing, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("auth: login: %w", err)
	}
	if existing != nil {
		logger.Debug(ctx, "service.auth", "login.already",
			slog.Int64("chat_id", chatID),
			slog.String("username", existing.Username),
		)
		return "", domain.ErrAlreadyLoggedIn
	}

	member, ok := s.staff[username]
	if !ok || member.Password != password {
		logger.Info(ctx, "service.auth", "login.failed",
			slog.String("status", "fail"),
			slog.Int64("chat_id", chatID),
			slog.String("username", logger.Sanitize(username)),
		)
		return "", domain.ErrInvalidCredentials
	}

	sess := domain.Session{ChatID: chatID, Username: username, Role: member.Role}
	if err := s.sessions.Upsert(ctx, sess); err != nil {
		return "", fmt.Errorf("auth: login: %w", err)
	}

	logger.Info(ctx, "service.auth", "login.ok",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
		slog.String("username", username),
		slog.String("role", member.Role),
	)
	return member.Role, nil
}

// Logout removes the chat's session. Returns the session that was active so
// callers can render a farewell, or ErrNotLoggedIn.
func (s *Service) Logout(ctx context.Context, chatID int64) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("auth: logout: %w", err)
	}
	if sess == nil {
		return nil, domain.ErrNotLoggedIn
	}
	if _, err := s.sessions.Delete(ctx, chatID); err != nil {
		return nil, fmt.Errorf("auth: logout: %w", err)
	}
	logger.Info(ctx, "service.auth", "logout.ok",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
		slog.String("username", sess.Username),
	)
	return sess, nil
}

// Current returns the active session of a chat, or ErrNotLoggedIn.
func (s *Service) Current(ctx context.Context, chatID int64) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("auth: current: %w", err)
	}
	if sess == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return sess, nil
}

// RoleLookup adapts the service to the middleware access gate.
func (s *Service) RoleLookup(ctx context.Context, chatID int64) (string, bool) {
	sess, err := s.Current(ctx, chatID)
	if err != nil {
		return "", false
	}
	return sess.Role, true
}
