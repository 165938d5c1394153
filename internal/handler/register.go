package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypePrefix, h.handleLogin)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/signup", bot.MatchTypePrefix, h.handleSignup)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypePrefix, h.handleLogout)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypePrefix, h.handleClear)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/wardrobe", bot.MatchTypePrefix, h.handleWardrobe)

	// Start suggestions
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "sugg_", bot.MatchTypePrefix, h.handleSuggestion)

	// Scan preview callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "scan_ok_", bot.MatchTypePrefix, h.handleScanConfirm)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "scan_no_", bot.MatchTypePrefix, h.handleScanCancel)

	// Wardrobe browsing callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_page_", bot.MatchTypePrefix, h.handleWardrobePage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_item_", bot.MatchTypePrefix, h.handleItemView)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_fcolor", bot.MatchTypeExact, h.handleFilterColorMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_fwarmth", bot.MatchTypeExact, h.handleFilterWarmthMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_setcolor_", bot.MatchTypePrefix, h.handleFilterSetColor)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_setwarmth_", bot.MatchTypePrefix, h.handleFilterSetWarmth)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_fmin_", bot.MatchTypePrefix, h.handleFilterFormality)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_fmax_", bot.MatchTypePrefix, h.handleFilterFormality)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_freset", bot.MatchTypeExact, h.handleFilterReset)

	// Item edit callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "edit_title_", bot.MatchTypePrefix, h.handleEditTitle)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "edit_desc_", bot.MatchTypePrefix, h.handleEditDescription)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "edit_color_", bot.MatchTypePrefix, h.handleEditColor)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "edit_warmth_", bot.MatchTypePrefix, h.handleEditWarmth)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "edit_fup_", bot.MatchTypePrefix, h.handleEditFormality)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "edit_fdn_", bot.MatchTypePrefix, h.handleEditFormality)

	// Delete confirmation gate
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "del_ask_", bot.MatchTypePrefix, h.handleDeleteAsk)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "del_yes_", bot.MatchTypePrefix, h.handleDeleteConfirmed)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "del_no_", bot.MatchTypePrefix, h.handleDeleteAborted)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "cur", bot.MatchTypeExact, h.handleNoop)
}

// handleNoop acknowledges non-interactive inline buttons such as the
// pagination indicator.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}

// callbackChat extracts chat and message IDs from a callback update.
func callbackChat(update *models.Update) (chatID int64, messageID int, ok bool) {
	if update.CallbackQuery == nil || update.CallbackQuery.Message.Message == nil {
		return 0, 0, false
	}
	msg := update.CallbackQuery.Message.Message
	return msg.Chat.ID, msg.ID, true
}
