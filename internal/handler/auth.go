package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/styleit/internal/domain"
)

func (h *Handler) handleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleAuthCommand(ctx, b, update, "/login", h.auth.Login)
}

func (h *Handler) handleSignup(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleAuthCommand(ctx, b, update, "/signup", h.auth.Signup)
}

func (h *Handler) handleAuthCommand(ctx context.Context, b *bot.Bot, update *models.Update, command string,
	authenticate func(ctx context.Context, chatID int64, email, password string) (*domain.Session, error),
) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 3 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usage: " + command + " email password",
		})
		return
	}

	session, err := authenticate(ctx, chatID, parts[1], parts[2])
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	// The message contains a plaintext password; get it out of the chat.
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: update.Message.ID,
	}); err != nil {
		slog.Debug("delete credentials message", "error", err)
	}

	slog.Info("signed in", "chat_id", chatID, "user_id", session.UserID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "✅ Signed in! Send me a message or a photo of a clothing item to get started.",
	})
}

func (h *Handler) handleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	chatID := update.Message.Chat.ID

	if err := h.auth.Logout(ctx, chatID); err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "👋 Signed out. Use /login to sign back in.",
	})
}

// NotifySessionExpired is the forced-navigation signal: the session died
// under us and the user must re-authenticate.
func (h *Handler) NotifySessionExpired(ctx context.Context, chatID int64) {
	h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🔒 Your session has expired. Please /login again.",
	})
}
