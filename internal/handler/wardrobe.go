package handler

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/styleit/internal/config"
	"github.com/set-night/styleit/internal/domain"
	"github.com/set-night/styleit/internal/middleware"
	tg "github.com/set-night/styleit/internal/telegram"
)

func (h *Handler) handleWardrobe(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	chatID := update.Message.Chat.ID

	if middleware.GetSession(ctx) == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "🔒 Please /login first."})
		return
	}

	h.sendWardrobePage(ctx, b, chatID, 0, false, 0)
}

// sendWardrobePage renders one page of the filtered catalog with the
// filter controls and pagination.
func (h *Handler) sendWardrobePage(ctx context.Context, b *bot.Bot, chatID int64, page int, edit bool, messageID int) {
	filter := h.filterFor(chatID)

	items, err := h.listItems(ctx, chatID, filter)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	totalPages := int(math.Ceil(float64(len(items)) / float64(config.ItemsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👗 <b>My Wardrobe</b> — %d item", len(items)))
	if len(items) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n")
	if !filter.IsDefault() {
		sb.WriteString("🔍 " + html.EscapeString(filterSummary(filter)) + "\n")
	}
	if len(items) == 0 {
		if filter.IsDefault() {
			sb.WriteString("\nNo items yet. Send me a photo of a clothing item to add one!")
		} else {
			sb.WriteString("\nNothing matches these filters. Try adjusting or resetting them.")
		}
	}

	var rows [][]models.InlineKeyboardButton
	start := page * config.ItemsPerPage
	end := min(start+config.ItemsPerPage, len(items))
	for _, item := range items[start:end] {
		label := fmt.Sprintf("%s · %s · %d/10", item.Title, item.Color, item.Formality)
		rows = append(rows, tg.ButtonRow(tg.InlineButton(label, "wd_item_"+item.ID)))
	}

	rows = append(rows, tg.ButtonRow(
		tg.InlineButton("🎨 Color", "wd_fcolor"),
		tg.InlineButton("🌡 Warmth", "wd_fwarmth"),
		tg.InlineButton("♻️ Reset", "wd_freset"),
	))
	rows = append(rows, tg.ButtonRow(
		tg.InlineButton(fmt.Sprintf("Min %d −", filter.FormalityMin), "wd_fmin_dn"),
		tg.InlineButton(fmt.Sprintf("Min %d +", filter.FormalityMin), "wd_fmin_up"),
		tg.InlineButton(fmt.Sprintf("Max %d −", filter.FormalityMax), "wd_fmax_dn"),
		tg.InlineButton(fmt.Sprintf("Max %d +", filter.FormalityMax), "wd_fmax_up"),
	))
	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, "wd_page"))
	}

	keyboard := tg.InlineKeyboard(rows...)
	text := sb.String()

	if edit && messageID != 0 {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: keyboard,
		})
	} else {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: keyboard,
		})
	}
}

// listItems serves pagination and item lookups from the cached result set
// when it matches the active filter, refetching otherwise.
func (h *Handler) listItems(ctx context.Context, chatID int64, filter domain.FilterState) ([]domain.WardrobeItem, error) {
	if items, cachedFilter, ok := h.catalog.Cached(chatID); ok && cachedFilter == filter {
		return items, nil
	}
	return h.catalog.List(ctx, chatID, filter)
}

func filterSummary(f domain.FilterState) string {
	var parts []string
	if f.Color != "" {
		parts = append(parts, f.Color)
	}
	if f.Warmth != "" {
		parts = append(parts, f.Warmth)
	}
	if f.FormalityMin > domain.FormalityMin || f.FormalityMax < domain.FormalityMax {
		parts = append(parts, fmt.Sprintf("formality %d–%d", f.FormalityMin, f.FormalityMax))
	}
	return strings.Join(parts, ", ")
}

func (h *Handler) handleWardrobePage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, "wd_page_"))
	h.sendWardrobePage(ctx, b, chatID, page, true, messageID)
}

// Filter controls

func (h *Handler) handleFilterColorMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.sendFilterMenu(ctx, b, update, "🎨 Pick a color:", config.Colors, "wd_setcolor_")
}

func (h *Handler) handleFilterWarmthMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.sendFilterMenu(ctx, b, update, "🌡 Pick a warmth level:", config.WarmthLevels, "wd_setwarmth_")
}

func (h *Handler) sendFilterMenu(ctx context.Context, b *bot.Bot, update *models.Update, title string, options []string, prefix string) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	rows := [][]models.InlineKeyboardButton{
		tg.ButtonRow(tg.InlineButton("All", prefix+"any")),
	}
	for i := 0; i < len(options); i += 3 {
		var row []models.InlineKeyboardButton
		for _, opt := range options[i:min(i+3, len(options))] {
			row = append(row, tg.InlineButton(opt, prefix+opt))
		}
		rows = append(rows, row)
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        title,
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

func (h *Handler) handleFilterSetColor(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.applyFilterChoice(ctx, b, update, "wd_setcolor_", func(f *domain.FilterState, value string) {
		f.Color = value
	})
}

func (h *Handler) handleFilterSetWarmth(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.applyFilterChoice(ctx, b, update, "wd_setwarmth_", func(f *domain.FilterState, value string) {
		f.Warmth = value
	})
}

func (h *Handler) applyFilterChoice(ctx context.Context, b *bot.Bot, update *models.Update, prefix string, apply func(*domain.FilterState, string)) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	value := strings.TrimPrefix(update.CallbackQuery.Data, prefix)
	if value == "any" {
		value = ""
	}

	filter := h.filterFor(chatID)
	apply(&filter, value)
	h.setFilter(chatID, filter)

	h.sendWardrobePage(ctx, b, chatID, 0, true, messageID)
}

// handleFilterFormality adjusts one formality bound. Raising the minimum
// above the maximum drags the maximum along (and vice versa), so an
// inverted range can never reach the wire.
func (h *Handler) handleFilterFormality(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	filter := h.filterFor(chatID)
	switch update.CallbackQuery.Data {
	case "wd_fmin_up":
		filter.FormalityMin = min(filter.FormalityMin+1, domain.FormalityMax)
		filter.FormalityMax = max(filter.FormalityMax, filter.FormalityMin)
	case "wd_fmin_dn":
		filter.FormalityMin = max(filter.FormalityMin-1, domain.FormalityMin)
	case "wd_fmax_up":
		filter.FormalityMax = min(filter.FormalityMax+1, domain.FormalityMax)
	case "wd_fmax_dn":
		filter.FormalityMax = max(filter.FormalityMax-1, domain.FormalityMin)
		filter.FormalityMin = min(filter.FormalityMin, filter.FormalityMax)
	default:
		return
	}
	h.setFilter(chatID, filter)

	h.sendWardrobePage(ctx, b, chatID, 0, true, messageID)
}

func (h *Handler) handleFilterReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	h.setFilter(chatID, domain.DefaultFilter())
	h.sendWardrobePage(ctx, b, chatID, 0, true, messageID)
}

// Item view and editing

func (h *Handler) handleItemView(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, _, ok := callbackChat(update)
	if !ok {
		return
	}
	itemID := strings.TrimPrefix(update.CallbackQuery.Data, "wd_item_")

	item, err := h.findItem(ctx, chatID, itemID)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileString{Data: item.ImageURL},
		Caption:     itemCaption(*item),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: itemKeyboard(item.ID),
	})
	if err != nil {
		slog.Error("send item photo", "error", err, "item_id", itemID)
	}
}

func (h *Handler) findItem(ctx context.Context, chatID int64, itemID string) (*domain.WardrobeItem, error) {
	items, err := h.listItems(ctx, chatID, h.filterFor(chatID))
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, &domain.APIError{Message: "that item is no longer in the list"}
}

func itemCaption(item domain.WardrobeItem) string {
	var sb strings.Builder
	sb.WriteString("🧥 <b>" + html.EscapeString(item.Title) + "</b>\n")
	if item.Description != "" {
		sb.WriteString("<i>" + html.EscapeString(item.Description) + "</i>\n")
	}
	sb.WriteString(fmt.Sprintf("\n🎨 %s  ·  🌡 %s  ·  🎩 %d/10",
		html.EscapeString(item.Color), html.EscapeString(item.Warmth), item.Formality))
	return sb.String()
}

func itemKeyboard(itemID string) *models.InlineKeyboardMarkup {
	return tg.InlineKeyboard(
		tg.ButtonRow(
			tg.InlineButton("✏️ Title", "edit_title_"+itemID),
			tg.InlineButton("📝 Description", "edit_desc_"+itemID),
		),
		tg.ButtonRow(
			tg.InlineButton("🎨 Next color", "edit_color_"+itemID),
			tg.InlineButton("🌡 Next warmth", "edit_warmth_"+itemID),
		),
		tg.ButtonRow(
			tg.InlineButton("➖ Formality", "edit_fdn_"+itemID),
			tg.InlineButton("➕ Formality", "edit_fup_"+itemID),
		),
		tg.ButtonRow(
			tg.InlineButton("🗑 Delete", "del_ask_"+itemID),
		),
	)
}

// pendingEdit is a free-text field edit waiting for the chat's next
// message.
type pendingEdit struct {
	itemID string
	field  string
}

func (h *Handler) handleEditTitle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.promptTextEdit(ctx, b, update, "edit_title_", "title")
}

func (h *Handler) handleEditDescription(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.promptTextEdit(ctx, b, update, "edit_desc_", "description")
}

func (h *Handler) promptTextEdit(ctx context.Context, b *bot.Bot, update *models.Update, prefix, field string) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, _, ok := callbackChat(update)
	if !ok {
		return
	}
	itemID := strings.TrimPrefix(update.CallbackQuery.Data, prefix)

	h.mu.Lock()
	h.pending[chatID] = pendingEdit{itemID: itemID, field: field}
	h.mu.Unlock()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "✏️ Send me the new " + field + " for this item.",
	})
}

// consumePendingEdit applies a queued title/description edit to the
// chat's next text message. Reports whether the text was consumed; a
// plain chat turn passes through untouched.
func (h *Handler) consumePendingEdit(ctx context.Context, b *bot.Bot, chatID int64, text string) bool {
	h.mu.Lock()
	pe, ok := h.pending[chatID]
	if ok {
		delete(h.pending, chatID)
	}
	h.mu.Unlock()
	if !ok {
		return false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⚠️ The new " + pe.field + " can't be empty. Tap the button again to retry.",
		})
		return true
	}

	var upd domain.ItemUpdate
	if pe.field == "title" {
		upd.Title = &text
	} else {
		upd.Description = &text
	}

	item, err := h.catalog.Update(ctx, chatID, pe.itemID, upd)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return true
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Updated \"%s\".", item.Title),
	})
	return true
}

func (h *Handler) handleEditColor(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.cycleItemField(ctx, b, update, "edit_color_", config.Colors,
		func(item *domain.WardrobeItem) string { return item.Color },
		func(next string) domain.ItemUpdate { return domain.ItemUpdate{Color: &next} })
}

func (h *Handler) handleEditWarmth(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.cycleItemField(ctx, b, update, "edit_warmth_", config.WarmthLevels,
		func(item *domain.WardrobeItem) string { return item.Warmth },
		func(next string) domain.ItemUpdate { return domain.ItemUpdate{Warmth: &next} })
}

func (h *Handler) cycleItemField(ctx context.Context, b *bot.Bot, update *models.Update, prefix string, options []string,
	current func(*domain.WardrobeItem) string, buildUpdate func(string) domain.ItemUpdate,
) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	itemID := strings.TrimPrefix(update.CallbackQuery.Data, prefix)

	item, err := h.findItem(ctx, chatID, itemID)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	next := nextOption(options, current(item))
	updated, err := h.catalog.Update(ctx, chatID, itemID, buildUpdate(next))
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.refreshItemCaption(ctx, b, chatID, messageID, *updated)
}

func (h *Handler) handleEditFormality(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	data := update.CallbackQuery.Data
	var itemID string
	delta := 0
	switch {
	case strings.HasPrefix(data, "edit_fup_"):
		itemID, delta = strings.TrimPrefix(data, "edit_fup_"), 1
	case strings.HasPrefix(data, "edit_fdn_"):
		itemID, delta = strings.TrimPrefix(data, "edit_fdn_"), -1
	default:
		return
	}

	item, err := h.findItem(ctx, chatID, itemID)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	formality := item.Formality + delta
	if formality < domain.FormalityMin || formality > domain.FormalityMax {
		return
	}

	updated, err := h.catalog.Update(ctx, chatID, itemID, domain.ItemUpdate{Formality: &formality})
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.refreshItemCaption(ctx, b, chatID, messageID, *updated)
}

func (h *Handler) refreshItemCaption(ctx context.Context, b *bot.Bot, chatID int64, messageID int, item domain.WardrobeItem) {
	b.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Caption:     itemCaption(item),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: itemKeyboard(item.ID),
	})
}

func nextOption(options []string, current string) string {
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// Delete confirmation gate: the destructive call only happens from the
// explicit "yes" callback, never from the first tap.

func (h *Handler) handleDeleteAsk(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	itemID := strings.TrimPrefix(update.CallbackQuery.Data, "del_ask_")

	b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:    chatID,
		MessageID: messageID,
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(
			tg.InlineButton("✅ Yes, delete it", "del_yes_"+itemID),
			tg.InlineButton("↩️ Keep it", "del_no_"+itemID),
		)),
	})
}

func (h *Handler) handleDeleteConfirmed(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	itemID := strings.TrimPrefix(update.CallbackQuery.Data, "del_yes_")

	if err := h.catalog.Delete(ctx, chatID, itemID); err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	b.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
		ChatID:    chatID,
		MessageID: messageID,
		Caption:   "🗑 Deleted.",
	})
}

func (h *Handler) handleDeleteAborted(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	itemID := strings.TrimPrefix(update.CallbackQuery.Data, "del_no_")

	b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: itemKeyboard(itemID),
	})
}
