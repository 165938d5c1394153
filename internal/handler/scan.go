package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/styleit/internal/config"
	"github.com/set-night/styleit/internal/domain"
	"github.com/set-night/styleit/internal/middleware"
	"github.com/set-night/styleit/internal/service"
	tg "github.com/set-night/styleit/internal/telegram"
)

// HandlePhoto starts the scan cycle for a clothing photo.
func (h *Handler) HandlePhoto(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" || len(update.Message.Photo) == 0 {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	if middleware.GetSession(ctx) == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "🔒 Please /login first."})
		return
	}

	if h.scan.Busy(chatID) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⏳ I'm still working on your previous photo.",
		})
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	// Highest resolution variant is last.
	photo := msg.Photo[len(msg.Photo)-1]
	data, name, contentType, err := tg.DownloadFile(ctx, b, photo.FileID, config.MaxPhotoBytes)
	if err != nil {
		h.replyError(ctx, b, chatID, &domain.APIError{Message: "could not download the photo, please try again"})
		return
	}

	draftID, draft, err := h.scan.Begin(ctx, chatID, &service.FileUpload{
		Name:        name,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, domain.ErrScanInFlight) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "⏳ I'm still working on your previous photo.",
			})
			return
		}
		h.replyError(ctx, b, chatID, err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      scanPreviewText(draft),
		ParseMode: models.ParseModeHTML,
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("✅ Add to Wardrobe", "scan_ok_"+draftID),
			tg.InlineButton("❌ Cancel", "scan_no_"+draftID),
		)),
	})
}

func scanPreviewText(draft domain.ScanDraft) string {
	var sb strings.Builder
	sb.WriteString("🧥 <b>" + html.EscapeString(draft.Title) + "</b>\n")
	if draft.Description != "" {
		sb.WriteString("<i>" + html.EscapeString(draft.Description) + "</i>\n")
	}
	sb.WriteString(fmt.Sprintf("\n🎨 %s  ·  🌡 %s  ·  🎩 %d/10\n\nAdd this item to your wardrobe?",
		html.EscapeString(draft.Color), html.EscapeString(draft.Warmth), draft.Formality))
	return sb.String()
}

func (h *Handler) handleScanConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	draftID := strings.TrimPrefix(update.CallbackQuery.Data, "scan_ok_")

	item, err := h.scan.Confirm(ctx, chatID, draftID)
	if err != nil {
		if errors.Is(err, domain.ErrNoDraft) || errors.Is(err, domain.ErrDraftMismatch) {
			b.EditMessageText(ctx, &bot.EditMessageTextParams{
				ChatID:    chatID,
				MessageID: messageID,
				Text:      "This preview is no longer active.",
			})
			return
		}
		// Draft survives a failed commit; the preview stays for retry.
		h.replyError(ctx, b, chatID, err)
		return
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      fmt.Sprintf("✅ Added \"%s\" to your wardrobe.", item.Title),
	})
	// The scan-accepted turn was already appended to the history by the
	// pipeline; mirror it into the chat.
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: service.ScanAcceptedReply})
}

func (h *Handler) handleScanCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	draftID := strings.TrimPrefix(update.CallbackQuery.Data, "scan_no_")

	if err := h.scan.Cancel(chatID, draftID); err != nil {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: messageID,
			Text:      "This preview is no longer active.",
		})
		return
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      "🚫 Scan discarded.",
	})
}
