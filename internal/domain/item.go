package domain

import (
	"fmt"
	"net/url"
	"strconv"
)

// Formality is scored on a fixed 1..10 scale everywhere: scan drafts,
// stored items, edits and filters.
const (
	FormalityMin = 1
	FormalityMax = 10
)

// WardrobeItem is a catalog entry as the backend returns it. The client
// never assigns ID or ImageURL.
type WardrobeItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Warmth      string `json:"warmth"`
	Formality   int    `json:"formality"`
	ImageURL    string `json:"image_url"`
}

// ScanDraft holds the AI-extracted fields of a scanned clothing photo,
// pending user confirmation. It is never persisted.
type ScanDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Warmth      string `json:"warmth"`
	Formality   int    `json:"formality"`
}

// Validate rejects drafts with an out-of-range formality. A misbehaving
// backend is a data error, not something to clamp silently.
func (d ScanDraft) Validate() error {
	if d.Formality < FormalityMin || d.Formality > FormalityMax {
		return &ValidationError{Message: fmt.Sprintf("formality %d out of range %d-%d", d.Formality, FormalityMin, FormalityMax)}
	}
	return nil
}

// ItemUpdate is a partial update; nil fields are left untouched server-side.
type ItemUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Warmth      *string `json:"warmth,omitempty"`
	Formality   *int    `json:"formality,omitempty"`
}

func (u ItemUpdate) Validate() error {
	if u.Title == nil && u.Description == nil && u.Color == nil && u.Warmth == nil && u.Formality == nil {
		return &ValidationError{Message: "no fields to update"}
	}
	if u.Formality != nil && (*u.Formality < FormalityMin || *u.Formality > FormalityMax) {
		return &ValidationError{Message: fmt.Sprintf("formality %d out of range %d-%d", *u.Formality, FormalityMin, FormalityMax)}
	}
	return nil
}

// FilterState drives the catalog list query. The zero values of Color and
// Warmth mean "no constraint".
type FilterState struct {
	Color        string
	Warmth       string
	FormalityMin int
	FormalityMax int
}

// DefaultFilter is the unfiltered state.
func DefaultFilter() FilterState {
	return FilterState{FormalityMin: FormalityMin, FormalityMax: FormalityMax}
}

func (f FilterState) IsDefault() bool {
	return f == DefaultFilter()
}

func (f FilterState) Validate() error {
	if f.FormalityMin < FormalityMin || f.FormalityMin > FormalityMax ||
		f.FormalityMax < FormalityMin || f.FormalityMax > FormalityMax {
		return &ValidationError{Message: "formality bounds out of range"}
	}
	if f.FormalityMin > f.FormalityMax {
		return &ValidationError{Message: "formality range inverted"}
	}
	return nil
}

// Query encodes only the fields that deviate from the default. The server
// treats an absent field as "no constraint", so omission and explicit
// default must be equivalent on the wire.
func (f FilterState) Query() url.Values {
	q := url.Values{}
	if f.Color != "" {
		q.Set("color", f.Color)
	}
	if f.Warmth != "" {
		q.Set("warmth", f.Warmth)
	}
	if f.FormalityMin > FormalityMin {
		q.Set("formality_min", strconv.Itoa(f.FormalityMin))
	}
	if f.FormalityMax < FormalityMax {
		q.Set("formality_max", strconv.Itoa(f.FormalityMax))
	}
	return q
}
