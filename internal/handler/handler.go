package handler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/set-night/styleit/internal/config"
	"github.com/set-night/styleit/internal/domain"
	"github.com/set-night/styleit/internal/service"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot     *bot.Bot
	cfg     *config.Config
	auth    *service.AuthService
	chat    *service.ChatService
	catalog *service.CatalogService
	scan    *service.ScanService

	// Per-chat UI state: the active wardrobe filter and a queued
	// free-text item edit waiting for the next message.
	mu      sync.Mutex
	filters map[int64]domain.FilterState
	pending map[int64]pendingEdit
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot     *bot.Bot
	Cfg     *config.Config
	Auth    *service.AuthService
	Chat    *service.ChatService
	Catalog *service.CatalogService
	Scan    *service.ScanService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:     deps.Bot,
		cfg:     deps.Cfg,
		auth:    deps.Auth,
		chat:    deps.Chat,
		catalog: deps.Catalog,
		scan:    deps.Scan,
		filters: make(map[int64]domain.FilterState),
		pending: make(map[int64]pendingEdit),
	}
}

func (h *Handler) filterFor(chatID int64) domain.FilterState {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.filters[chatID]
	if !ok {
		return domain.DefaultFilter()
	}
	return f
}

func (h *Handler) setFilter(chatID int64, f domain.FilterState) {
	h.mu.Lock()
	h.filters[chatID] = f
	h.mu.Unlock()
}

// replyError surfaces a failure near the triggering control. Session
// expiry is silent here: the expiry notifier already prompted for /login.
func (h *Handler) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	var vErr *domain.ValidationError
	var apiErr *domain.APIError

	switch {
	case errors.Is(err, domain.ErrSessionExpired):
	case errors.As(err, &vErr):
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "⚠️ " + vErr.Message})
	case errors.As(err, &apiErr):
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ " + apiErr.Message})
	default:
		slog.Error("handler error", "error", err, "chat_id", chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Something went wrong. Please try again."})
	}
}
