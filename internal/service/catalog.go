package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/set-night/styleit/internal/config"
	"github.com/set-night/styleit/internal/domain"
)

// CatalogService is the client-side view of the wardrobe catalog. The
// server stays the single source of truth: mutations never patch a cached
// list, callers re-list to observe the new state.
type CatalogService struct {
	gw    *Gateway
	cache *catalogCache
}

func NewCatalogService(gw *Gateway) *CatalogService {
	return &CatalogService{
		gw:    gw,
		cache: newCatalogCache(config.CatalogCacheDuration),
	}
}

// List fetches the filtered catalog and caches the result set.
func (s *CatalogService) List(ctx context.Context, chatID int64, filter domain.FilterState) ([]domain.WardrobeItem, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	path := "/wardrobe/"
	if q := filter.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}

	raw, err := s.gw.Request(ctx, chatID, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var items []domain.WardrobeItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse wardrobe items: %w", err)
	}

	s.cache.Set(chatID, filter, items)
	return items, nil
}

// Cached returns the last fetched result set without touching the network.
func (s *CatalogService) Cached(chatID int64) ([]domain.WardrobeItem, domain.FilterState, bool) {
	return s.cache.Get(chatID)
}

// Create persists a confirmed scan draft together with its original image.
func (s *CatalogService) Create(ctx context.Context, chatID int64, draft domain.ScanDraft, file *FileUpload) (*domain.WardrobeItem, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if file == nil || len(file.Data) == 0 {
		return nil, &domain.ValidationError{Message: "image file is required"}
	}

	fields := map[string]string{
		"title":       draft.Title,
		"description": draft.Description,
		"color":       draft.Color,
		"warmth":      draft.Warmth,
		"formality":   strconv.Itoa(draft.Formality),
	}

	raw, err := s.gw.RequestMultipart(ctx, chatID, http.MethodPost, "/wardrobe/", fields, file)
	if err != nil {
		return nil, err
	}

	var item domain.WardrobeItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("parse created item: %w", err)
	}

	s.cache.Invalidate(chatID)
	return &item, nil
}

// Update applies a partial edit to an item's metadata (not its image).
func (s *CatalogService) Update(ctx context.Context, chatID int64, itemID string, upd domain.ItemUpdate) (*domain.WardrobeItem, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.gw.Request(ctx, chatID, http.MethodPut, "/wardrobe/"+itemID, upd)
	if err != nil {
		return nil, err
	}

	var item domain.WardrobeItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("parse updated item: %w", err)
	}

	s.cache.Invalidate(chatID)
	return &item, nil
}

// Delete removes an item. Destructive and irreversible; the UI must have
// collected an explicit confirmation before calling this.
func (s *CatalogService) Delete(ctx context.Context, chatID int64, itemID string) error {
	if _, err := s.gw.Request(ctx, chatID, http.MethodDelete, "/wardrobe/"+itemID, nil); err != nil {
		return err
	}
	s.cache.Invalidate(chatID)
	return nil
}
