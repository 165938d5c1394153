package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/styleit/internal/domain"
	"github.com/set-night/styleit/internal/service"
)

type ctxKey string

const SessionKey ctxKey = "session"

// GetSession extracts the StyleIt session from context. Nil when the chat
// is not logged in.
func GetSession(ctx context.Context) *domain.Session {
	s, ok := ctx.Value(SessionKey).(*domain.Session)
	if !ok {
		return nil
	}
	return s
}

// SessionLoader returns middleware that loads the chat's persisted session
// into context. Handlers read auth state from here, never from storage.
func SessionLoader(auth *service.AuthService) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var chatID int64
			if update.Message != nil {
				chatID = update.Message.Chat.ID
			} else if update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil {
				chatID = update.CallbackQuery.Message.Message.Chat.ID
			}

			if chatID != 0 {
				session, err := auth.Current(ctx, chatID)
				if err != nil {
					slog.Error("load session", "error", err, "chat_id", chatID)
				} else if session != nil {
					ctx = context.WithValue(ctx, SessionKey, session)
				}
			}

			next(ctx, b, update)
		}
	}
}
