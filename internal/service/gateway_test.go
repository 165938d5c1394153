package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/set-night/styleit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCreds is an in-memory CredentialStore for tests.
type memCreds struct {
	mu   sync.Mutex
	data map[int64]map[string]string
}

func newMemCreds() *memCreds {
	return &memCreds{data: make(map[int64]map[string]string)}
}

func (m *memCreds) Get(_ context.Context, chatID int64, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[chatID][key], nil
}

func (m *memCreds) Set(_ context.Context, chatID int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[chatID] == nil {
		m.data[chatID] = make(map[string]string)
	}
	m.data[chatID][key] = value
	return nil
}

func (m *memCreds) SetAll(ctx context.Context, chatID int64, values map[string]string) error {
	for k, v := range values {
		if err := m.Set(ctx, chatID, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *memCreds) Remove(_ context.Context, chatID int64, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data[chatID], k)
	}
	return nil
}

func (m *memCreds) all(chatID int64) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data[chatID]))
	for k, v := range m.data[chatID] {
		out[k] = v
	}
	return out
}

const testChatID int64 = 42

func TestGatewayBearerInjection(t *testing.T) {
	creds := newMemCreds()
	require.NoError(t, creds.Set(context.Background(), testChatID, credKeyAccessToken, "tok-1"))

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL, creds)
	_, err := gw.Request(context.Background(), testChatID, http.MethodGet, "/wardrobe/", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestGatewayNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL, newMemCreds())
	_, err := gw.Request(context.Background(), testChatID, http.MethodPost, "/auth/login", map[string]string{"email": "a@b.c", "password": "p"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestGatewayErrorBodyParsing(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want string
	}{
		{"detail field", http.StatusUnprocessableEntity, `{"detail":"invalid email"}`, "invalid email"},
		{"message fallback", http.StatusBadRequest, `{"message":"bad request body"}`, "bad request body"},
		{"unparseable body", http.StatusBadRequest, `not json`, "400 Bad Request"},
		{"empty object", http.StatusInternalServerError, `{}`, "500 Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			gw := NewGateway(srv.URL, newMemCreds())
			_, err := gw.Request(context.Background(), testChatID, http.MethodGet, "/wardrobe/", nil)

			var apiErr *domain.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestGatewayUnauthorizedClearsSession(t *testing.T) {
	creds := newMemCreds()
	require.NoError(t, creds.SetAll(context.Background(), testChatID, map[string]string{
		credKeyAccessToken: "tok-1",
		credKeyUserID:      "user-1",
	}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	expired := 0
	gw := NewGateway(srv.URL, creds)
	gw.SetExpiryHandler(func(ctx context.Context, chatID int64) {
		expired++
		assert.Equal(t, testChatID, chatID)
	})

	_, err := gw.Request(context.Background(), testChatID, http.MethodGet, "/wardrobe/", nil)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 1, expired)
	assert.Empty(t, creds.all(testChatID))
}

func TestGatewayNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gw := NewGateway(srv.URL, newMemCreds())
	_, err := gw.Request(context.Background(), testChatID, http.MethodGet, "/wardrobe/", nil)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, errors.Is(err, domain.ErrSessionExpired))
}

func TestGatewayMultipartShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Denim Jacket", r.FormValue("title"))
		assert.Equal(t, "Blue", r.FormValue("color"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)

		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL, newMemCreds())
	_, err := gw.RequestMultipart(context.Background(), testChatID, http.MethodPost, "/wardrobe/",
		map[string]string{"title": "Denim Jacket", "color": "Blue"},
		&FileUpload{Name: "photo.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}})
	require.NoError(t, err)
}
