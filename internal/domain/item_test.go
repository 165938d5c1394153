package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterStateQuery(t *testing.T) {
	assert.Empty(t, DefaultFilter().Query(), "default filter must encode to nothing")

	q := FilterState{Color: "Blue", Warmth: "Warm", FormalityMin: 3, FormalityMax: 7}.Query()
	assert.Equal(t, "Blue", q.Get("color"))
	assert.Equal(t, "Warm", q.Get("warmth"))
	assert.Equal(t, "3", q.Get("formality_min"))
	assert.Equal(t, "7", q.Get("formality_max"))

	// Explicit defaults are omitted field by field.
	q = FilterState{Color: "Red", FormalityMin: FormalityMin, FormalityMax: FormalityMax}.Query()
	assert.Equal(t, "Red", q.Get("color"))
	assert.False(t, q.Has("warmth"))
	assert.False(t, q.Has("formality_min"))
	assert.False(t, q.Has("formality_max"))
}

func TestFilterStateValidate(t *testing.T) {
	require.NoError(t, DefaultFilter().Validate())
	require.NoError(t, FilterState{FormalityMin: 5, FormalityMax: 5}.Validate())

	var vErr *ValidationError
	assert.ErrorAs(t, FilterState{FormalityMin: 8, FormalityMax: 2}.Validate(), &vErr)
	assert.ErrorAs(t, FilterState{FormalityMin: 0, FormalityMax: 10}.Validate(), &vErr)
	assert.ErrorAs(t, FilterState{FormalityMin: 1, FormalityMax: 11}.Validate(), &vErr)
}

func TestFilterStateIsDefault(t *testing.T) {
	assert.True(t, DefaultFilter().IsDefault())
	assert.False(t, FilterState{Color: "Blue", FormalityMin: 1, FormalityMax: 10}.IsDefault())
	assert.False(t, FilterState{FormalityMin: 2, FormalityMax: 10}.IsDefault())
}

func TestScanDraftValidate(t *testing.T) {
	require.NoError(t, ScanDraft{Title: "Shirt", Formality: 1}.Validate())
	require.NoError(t, ScanDraft{Title: "Shirt", Formality: 10}.Validate())

	var vErr *ValidationError
	assert.ErrorAs(t, ScanDraft{Title: "Shirt", Formality: 0}.Validate(), &vErr)
	assert.ErrorAs(t, ScanDraft{Title: "Shirt", Formality: 11}.Validate(), &vErr)
}

func TestItemUpdateValidate(t *testing.T) {
	var vErr *ValidationError
	assert.ErrorAs(t, ItemUpdate{}.Validate(), &vErr)

	color := "Blue"
	require.NoError(t, ItemUpdate{Color: &color}.Validate())

	bad := 0
	assert.ErrorAs(t, ItemUpdate{Formality: &bad}.Validate(), &vErr)
	good := 5
	require.NoError(t, ItemUpdate{Formality: &good}.Validate())
}

func TestSessionValid(t *testing.T) {
	assert.True(t, (&Session{AccessToken: "t", UserID: "u"}).Valid())
	assert.False(t, (&Session{AccessToken: "t"}).Valid())
	assert.False(t, (&Session{UserID: "u"}).Valid())
	assert.False(t, (*Session)(nil).Valid())
}
