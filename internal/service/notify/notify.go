// Package notify fans event messages out to logged-in chats. Recipient
// resolution is a pure session query; delivery is per-chat fire-and-forget.
package notify

import (
	"context"
	"fmt"

	"barbot/core/logger"

	"log/slog"
)

// Recipients resolves chats from the session store.
type Recipients interface {
	ChatIDsByRole(ctx context.Context, role string) ([]int64, error)
	ChatIDsByUsername(ctx context.Context, username string) ([]int64, error)
}

// Sender delivers a single text message to a chat.
type Sender interface {
	Send(chatID int64, text string) error
}

// Refresh re-renders the role-appropriate view in a chat after a
// notification landed. Optional; a nil refresh skips the step.
type Refresh func(ctx context.Context, chatID int64) error

// Service implements notification fan-out.
type Service struct {
	recipients Recipients
	sender     Sender
	refresh    Refresh
}

// New builds the notify service. refresh may be nil.
func New(recipients Recipients, sender Sender, refresh Refresh) *Service {
	return &Service{recipients: recipients, sender: sender, refresh: refresh}
}

// NotifyRole delivers text to every session holding the role, then refreshes
// each recipient's view. A failed delivery is logged and the loop continues.
func (s *Service) NotifyRole(ctx context.Context, role, text string) error {
	ids, err := s.recipients.ChatIDsByRole(ctx, role)
	if err != nil {
		return fmt.Errorf("notify: role %q: %w", role, err)
	}
	delivered, failed := s.deliver(ctx, ids, text)
	logger.Info(ctx, "notify", "notify.role",
		slog.String("role", role),
		slog.Int("recipients", len(ids)),
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
	)
	return nil
}

// NotifyUser delivers text to every chat where the user is logged in. A user
// may hold sessions on several chats; all of them are notified.
func (s *Service) NotifyUser(ctx context.Context, username, text string) error {
	ids, err := s.recipients.ChatIDsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("notify: user %q: %w", username, err)
	}
	delivered, failed := s.deliver(ctx, ids, text)
	logger.Info(ctx, "notify", "notify.user",
		slog.String("username", username),
		slog.Int("recipients", len(ids)),
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
	)
	return nil
}

func (s *Service) deliver(ctx context.Context, chatIDs []int64, text string) (delivered, failed int) {
	for _, chatID := range chatIDs {
		if err := s.sender.Send(chatID, text); err != nil {
			failed++
			logger.Warn(ctx, "notify", "notify.send_failed",
				slog.Int64("chat_id", chatID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			continue
		}
		delivered++
		if s.refresh == nil {
			continue
		}
		if err := s.refresh(ctx, chatID); err != nil {
			logger.Warn(ctx, "notify", "notify.refresh_failed",
				slog.Int64("chat_id", chatID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}
	return delivered, failed
}
