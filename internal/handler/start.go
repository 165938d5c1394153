package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/styleit/internal/config"
	"github.com/set-night/styleit/internal/middleware"
	tg "github.com/set-night/styleit/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	chatID := update.Message.Chat.ID

	if middleware.GetSession(ctx) == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: "👋 Welcome to *StyleIt* — your personal wardrobe assistant!\n\n" +
				"🔑 /login email password — sign in\n" +
				"🆕 /signup email password — create an account\n\n" +
				"Once signed in, just send me a message or a photo of a clothing item.",
			ParseMode: models.ParseModeMarkdownV1,
		})
		return
	}

	var rows [][]models.InlineKeyboardButton
	for i, prompt := range config.SuggestedPrompts {
		rows = append(rows, tg.ButtonRow(tg.InlineButton(prompt, fmt.Sprintf("sugg_%d", i))))
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: "👋 Welcome back to *StyleIt*!\n\n" +
			"💬 Ask me anything about your wardrobe, or try one of these:\n\n" +
			"📷 Send a photo of a clothing item to add it\n" +
			"👗 /wardrobe — browse your items\n" +
			"🧹 /clear — start a fresh conversation",
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

// handleSuggestion feeds a suggested prompt through the normal chat flow.
func (h *Handler) handleSuggestion(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, _, ok := callbackChat(update)
	if !ok {
		return
	}

	idx, err := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, "sugg_"))
	if err != nil || idx < 0 || idx >= len(config.SuggestedPrompts) {
		return
	}

	h.sendChatTurn(ctx, b, chatID, config.SuggestedPrompts[idx])
}
