package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/styleit/internal/domain"
	"github.com/set-night/styleit/internal/middleware"
	tg "github.com/set-night/styleit/internal/telegram"
)

// HandleTextPrivate routes a plain private text message to the stylist.
func (h *Handler) HandleTextPrivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	if middleware.GetSession(ctx) == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "🔒 Please /login first.",
		})
		return
	}

	// A queued title/description edit claims the next message.
	if h.consumePendingEdit(ctx, b, msg.Chat.ID, msg.Text) {
		return
	}

	h.sendChatTurn(ctx, b, msg.Chat.ID, msg.Text)
}

func (h *Handler) sendChatTurn(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	reply, err := h.chat.Send(ctx, chatID, text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyMessage):
			// Nothing to send; ignore silently.
		case errors.Is(err, domain.ErrRequestInFlight):
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "⏳ Wait for the previous reply first.",
			})
		default:
			h.replyError(ctx, b, chatID, err)
		}
		return
	}

	tg.SendHTML(ctx, b, chatID, tg.ToDisplayHTML(reply.Content))

	// Referenced wardrobe items ride along as photos.
	for _, img := range reply.Images {
		b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileString{Data: img.ImageURL},
			Caption: img.Title,
		})
	}
}

func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	chatID := update.Message.Chat.ID

	h.chat.Clear(chatID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🧹 Chat cleared. Starting fresh!",
	})
}
