package middleware

import (
	"context"

	"barbot/core/logger"
	tghelpers "barbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RoleLookup resolves the authenticated role of a chat. ok is false when the
// chat has no session.
type RoleLookup func(ctx context.Context, chatID int64) (role string, ok bool)

// AuthOptions defines how role-gated handlers behave on rejection.
type AuthOptions struct {
	Lookup      RoleLookup
	OnNoSession tele.HandlerFunc
	OnWrongRole tele.HandlerFunc
}

// RequireRole ensures that only chats holding a session with the given role
// reach downstream handlers.
func RequireRole(role string, opts AuthOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.Lookup == nil {
				return next(c)
			}
			chat := c.Chat()
			if chat == nil {
				return nil
			}
			ctx := tghelpers.BuildContext(c)
			current, ok := opts.Lookup(ctx, chat.ID)
			if !ok {
				logger.TG.LogAttrs(ctx, slog.LevelDebug, "auth.no_session",
					slog.Int64("chat_id", chat.ID),
					slog.String("required", role),
				)
				if opts.OnNoSession != nil {
					return opts.OnNoSession(c)
				}
				return nil
			}
			if current != role {
				logger.TG.LogAttrs(ctx, slog.LevelDebug, "auth.wrong_role",
					slog.Int64("chat_id", chat.ID),
					slog.String("role", current),
					slog.String("required", role),
				)
				if opts.OnWrongRole != nil {
					return opts.OnWrongRole(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
