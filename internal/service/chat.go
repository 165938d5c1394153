package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/set-night/styleit/internal/domain"
)

// FailureReply is appended as the assistant turn when a send fails.
const FailureReply = "Sorry, I encountered an error. Please try again."

// ScanAcceptedReply is appended when a scanned item lands in the wardrobe.
const ScanAcceptedReply = "Great! I've added that item to your wardrobe. How can I help you style it?"

// ChatService keeps the ordered per-chat message history and exchanges
// turns with the stylist backend. At most one send per chat is in flight.
type ChatService struct {
	gw *Gateway

	mu        sync.Mutex
	histories map[int64][]domain.Message
	inflight  map[int64]bool
}

func NewChatService(gw *Gateway) *ChatService {
	return &ChatService{
		gw:        gw,
		histories: make(map[int64][]domain.Message),
		inflight:  make(map[int64]bool),
	}
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string     `json:"message"`
	History []chatTurn `json:"history"`
}

type chatResponse struct {
	Message string                  `json:"message"`
	Images  []domain.ImageReference `json:"images"`
}

// Send posts a user turn and appends the assistant's reply. The user
// message is appended synchronously so the UI stays responsive; the full
// prior history (role and content only, images are not round-tripped) goes
// with the request as context.
func (s *ChatService) Send(ctx context.Context, chatID int64, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	s.mu.Lock()
	if s.inflight[chatID] {
		s.mu.Unlock()
		return nil, domain.ErrRequestInFlight
	}
	s.inflight[chatID] = true

	history := make([]chatTurn, 0, len(s.histories[chatID]))
	for _, m := range s.histories[chatID] {
		history = append(history, chatTurn{Role: string(m.Role), Content: m.Content})
	}
	s.histories[chatID] = append(s.histories[chatID], domain.Message{Role: domain.RoleUser, Content: text})
	s.mu.Unlock()

	raw, err := s.gw.Request(ctx, chatID, http.MethodPost, "/chat/", chatRequest{
		Message: text,
		History: history,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.inflight[chatID] = false }()

	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return nil, err
		}
		failure := domain.Message{Role: domain.RoleAssistant, Content: FailureReply}
		s.histories[chatID] = append(s.histories[chatID], failure)
		return &failure, nil
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse chat response: %w", err)
	}

	reply := domain.Message{
		Role:    domain.RoleAssistant,
		Content: RenderMarkdown(resp.Message),
		Images:  resp.Images,
	}
	s.histories[chatID] = append(s.histories[chatID], reply)
	return &reply, nil
}

// NotifyExternalEvent appends a system-style assistant message without any
// backend call. Used by the scan pipeline on commit success.
func (s *ChatService) NotifyExternalEvent(chatID int64, text string) domain.Message {
	msg := domain.Message{Role: domain.RoleAssistant, Content: text}
	s.mu.Lock()
	s.histories[chatID] = append(s.histories[chatID], msg)
	s.mu.Unlock()
	return msg
}

// Clear discards the whole history irreversibly. No backend call.
func (s *ChatService) Clear(chatID int64) {
	s.mu.Lock()
	delete(s.histories, chatID)
	s.mu.Unlock()
}

// History returns a copy of the chat's message history.
func (s *ChatService) History(chatID int64) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.histories[chatID]))
	copy(out, s.histories[chatID])
	return out
}
