package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/set-night/styleit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanTestServer(t *testing.T, failCommit *atomic.Bool) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/scan/":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			file, _, err := r.FormFile("file")
			require.NoError(t, err)
			file.Close()
			w.Write([]byte(`{"title":"Denim Jacket","description":"Classic blue","color":"Blue","warmth":"Warm","formality":4}`))
		case "/wardrobe/":
			if failCommit != nil && failCommit.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail":"storage unavailable"}`))
				return
			}
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "Denim Jacket", r.FormValue("title"))
			assert.Equal(t, "Classic blue", r.FormValue("description"))
			assert.Equal(t, "Blue", r.FormValue("color"))
			assert.Equal(t, "Warm", r.FormValue("warmth"))
			assert.Equal(t, "4", r.FormValue("formality"))

			file, _, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			data, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, []byte("jpeg-bytes"), data, "commit must reuse the originally scanned image")

			w.Write([]byte(`{"id":"i1","title":"Denim Jacket","description":"Classic blue","color":"Blue","warmth":"Warm","formality":4,"image_url":"http://x/1.jpg"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	return srv, &requests
}

func testUpload() *FileUpload {
	return &FileUpload{Name: "photo.jpg", ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}
}

func newScanFixture(t *testing.T, srvURL string) (*ScanService, *atomic.Int32) {
	t.Helper()
	gw := NewGateway(srvURL, newMemCreds())
	catalog := NewCatalogService(gw)
	var accepted atomic.Int32
	scan := NewScanService(gw, catalog, func(chatID int64) {
		accepted.Add(1)
		assert.Equal(t, testChatID, chatID)
	})
	return scan, &accepted
}

func TestScanFullCycle(t *testing.T) {
	srv, _ := scanTestServer(t, nil)
	defer srv.Close()
	scan, accepted := newScanFixture(t, srv.URL)

	draftID, draft, err := scan.Begin(context.Background(), testChatID, testUpload())
	require.NoError(t, err)
	require.NotEmpty(t, draftID)
	assert.Equal(t, "Denim Jacket", draft.Title)
	assert.Equal(t, 4, draft.Formality)
	assert.True(t, scan.Busy(testChatID))

	item, err := scan.Confirm(context.Background(), testChatID, draftID)
	require.NoError(t, err)
	assert.Equal(t, "i1", item.ID)
	assert.Equal(t, int32(1), accepted.Load())
	assert.False(t, scan.Busy(testChatID))
}

func TestScanCancelMakesNoBackendCall(t *testing.T) {
	srv, requests := scanTestServer(t, nil)
	defer srv.Close()
	scan, accepted := newScanFixture(t, srv.URL)

	draftID, _, err := scan.Begin(context.Background(), testChatID, testUpload())
	require.NoError(t, err)
	after := requests.Load()

	require.NoError(t, scan.Cancel(testChatID, draftID))
	assert.Equal(t, after, requests.Load(), "cancel must not touch the network")
	assert.Equal(t, int32(0), accepted.Load())
	assert.False(t, scan.Busy(testChatID))

	// The draft is gone; confirming it now fails.
	_, err = scan.Confirm(context.Background(), testChatID, draftID)
	require.ErrorIs(t, err, domain.ErrNoDraft)
}

func TestScanRejectsOutOfRangeFormality(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"Shirt","color":"White","warmth":"Neutral","formality":11}`))
	}))
	defer srv.Close()
	scan, _ := newScanFixture(t, srv.URL)

	_, _, err := scan.Begin(context.Background(), testChatID, testUpload())
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.False(t, scan.Busy(testChatID), "failed scan must release the cycle")
}

func TestScanStaleDraftMismatch(t *testing.T) {
	srv, _ := scanTestServer(t, nil)
	defer srv.Close()
	scan, _ := newScanFixture(t, srv.URL)

	draftID, _, err := scan.Begin(context.Background(), testChatID, testUpload())
	require.NoError(t, err)

	_, err = scan.Confirm(context.Background(), testChatID, "not-the-id")
	require.ErrorIs(t, err, domain.ErrDraftMismatch)
	require.ErrorIs(t, scan.Cancel(testChatID, "not-the-id"), domain.ErrDraftMismatch)

	// The real draft is still confirmable.
	_, err = scan.Confirm(context.Background(), testChatID, draftID)
	require.NoError(t, err)
}

func TestScanCommitFailureKeepsDraft(t *testing.T) {
	var failCommit atomic.Bool
	failCommit.Store(true)
	srv, _ := scanTestServer(t, &failCommit)
	defer srv.Close()
	scan, accepted := newScanFixture(t, srv.URL)

	draftID, _, err := scan.Begin(context.Background(), testChatID, testUpload())
	require.NoError(t, err)

	_, err = scan.Confirm(context.Background(), testChatID, draftID)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, int32(0), accepted.Load())
	assert.True(t, scan.Busy(testChatID), "draft survives a failed commit")

	// Retry succeeds without rescanning.
	failCommit.Store(false)
	item, err := scan.Confirm(context.Background(), testChatID, draftID)
	require.NoError(t, err)
	assert.Equal(t, "i1", item.ID)
	assert.Equal(t, int32(1), accepted.Load())
}

func TestScanSecondBeginBlockedWhilePreviewPending(t *testing.T) {
	srv, _ := scanTestServer(t, nil)
	defer srv.Close()
	scan, _ := newScanFixture(t, srv.URL)

	_, _, err := scan.Begin(context.Background(), testChatID, testUpload())
	require.NoError(t, err)

	_, _, err = scan.Begin(context.Background(), testChatID, testUpload())
	require.ErrorIs(t, err, domain.ErrScanInFlight)
}
