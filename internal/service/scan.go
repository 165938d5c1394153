package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/set-night/styleit/internal/domain"
)

type scanState int

const (
	scanIdle scanState = iota
	scanUploading
	scanPreview
	scanCommitting
)

type scanEntry struct {
	id    string
	draft domain.ScanDraft
	file  *FileUpload
	state scanState
}

// ScanService coordinates the upload-preview-confirm-commit cycle for
// adding a catalog item from a photo. One cycle per chat at a time; the
// draft and the original image live only between scan and confirm/cancel.
type ScanService struct {
	gw         *Gateway
	catalog    *CatalogService
	onAccepted func(chatID int64)

	mu      sync.Mutex
	entries map[int64]*scanEntry
}

func NewScanService(gw *Gateway, catalog *CatalogService, onAccepted func(chatID int64)) *ScanService {
	return &ScanService{
		gw:         gw,
		catalog:    catalog,
		onAccepted: onAccepted,
		entries:    make(map[int64]*scanEntry),
	}
}

// Begin uploads the image to the scan endpoint and, on success, holds the
// extracted draft plus the original bytes for a later Confirm. The draft
// ID ties confirm/cancel callbacks to this exact preview.
func (s *ScanService) Begin(ctx context.Context, chatID int64, file *FileUpload) (string, domain.ScanDraft, error) {
	if file == nil || len(file.Data) == 0 {
		return "", domain.ScanDraft{}, &domain.ValidationError{Message: "image file is required"}
	}

	s.mu.Lock()
	if e, ok := s.entries[chatID]; ok && e.state != scanIdle {
		s.mu.Unlock()
		return "", domain.ScanDraft{}, domain.ErrScanInFlight
	}
	s.entries[chatID] = &scanEntry{state: scanUploading}
	s.mu.Unlock()

	raw, err := s.gw.RequestMultipart(ctx, chatID, http.MethodPost, "/scan/", nil, file)
	if err != nil {
		s.reset(chatID)
		return "", domain.ScanDraft{}, err
	}

	var draft domain.ScanDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		s.reset(chatID)
		return "", domain.ScanDraft{}, fmt.Errorf("parse scan response: %w", err)
	}
	if err := draft.Validate(); err != nil {
		s.reset(chatID)
		return "", domain.ScanDraft{}, fmt.Errorf("scan response: %w", err)
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.entries[chatID] = &scanEntry{id: id, draft: draft, file: file, state: scanPreview}
	s.mu.Unlock()
	return id, draft, nil
}

// Confirm commits the previewed draft to the catalog. On failure the draft
// is kept so the user can retry without rescanning.
func (s *ScanService) Confirm(ctx context.Context, chatID int64, draftID string) (*domain.WardrobeItem, error) {
	s.mu.Lock()
	e, ok := s.entries[chatID]
	if !ok || e.state == scanIdle {
		s.mu.Unlock()
		return nil, domain.ErrNoDraft
	}
	if e.state != scanPreview || e.id != draftID {
		s.mu.Unlock()
		return nil, domain.ErrDraftMismatch
	}
	e.state = scanCommitting
	draft, file := e.draft, e.file
	s.mu.Unlock()

	item, err := s.catalog.Create(ctx, chatID, draft, file)
	if err != nil {
		s.mu.Lock()
		if cur, ok := s.entries[chatID]; ok && cur.id == draftID {
			cur.state = scanPreview
		}
		s.mu.Unlock()
		return nil, err
	}

	s.reset(chatID)
	if s.onAccepted != nil {
		s.onAccepted(chatID)
	}
	return item, nil
}

// Cancel discards the previewed draft and its image. No backend call.
func (s *ScanService) Cancel(chatID int64, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[chatID]
	if !ok || e.state == scanIdle {
		return domain.ErrNoDraft
	}
	if e.state != scanPreview || e.id != draftID {
		return domain.ErrDraftMismatch
	}
	delete(s.entries, chatID)
	return nil
}

// Busy reports whether a scan cycle is in progress for the chat.
func (s *ScanService) Busy(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[chatID]
	return ok && e.state != scanIdle
}

func (s *ScanService) reset(chatID int64) {
	s.mu.Lock()
	delete(s.entries, chatID)
	s.mu.Unlock()
}
