package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/set-night/styleit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthLoginPersistsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])
		assert.Equal(t, "secret", body["password"])
		w.Write([]byte(`{"access_token":"t1","user_id":"u1"}`))
	}))
	defer srv.Close()

	creds := newMemCreds()
	auth := NewAuthService(NewGateway(srv.URL, creds), creds)

	session, err := auth.Login(context.Background(), testChatID, "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "t1", session.AccessToken)
	assert.Equal(t, "u1", session.UserID)

	stored := creds.all(testChatID)
	assert.Equal(t, "t1", stored[credKeyAccessToken])
	assert.Equal(t, "u1", stored[credKeyUserID])

	current, err := auth.Current(context.Background(), testChatID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "u1", current.UserID)
}

func TestAuthSignupUsesSignupPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"access_token":"t1","user_id":"u1"}`))
	}))
	defer srv.Close()

	creds := newMemCreds()
	auth := NewAuthService(NewGateway(srv.URL, creds), creds)

	_, err := auth.Signup(context.Background(), testChatID, "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "/auth/signup", gotPath)
}

func TestAuthMalformedResponseNotPersisted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"t1"}`))
	}))
	defer srv.Close()

	creds := newMemCreds()
	auth := NewAuthService(NewGateway(srv.URL, creds), creds)

	_, err := auth.Login(context.Background(), testChatID, "a@b.c", "secret")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, creds.all(testChatID))
}

func TestAuthValidationSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	defer srv.Close()

	creds := newMemCreds()
	auth := NewAuthService(NewGateway(srv.URL, creds), creds)

	var vErr *domain.ValidationError
	_, err := auth.Login(context.Background(), testChatID, "", "secret")
	require.ErrorAs(t, err, &vErr)
	_, err = auth.Login(context.Background(), testChatID, "a@b.c", "")
	require.ErrorAs(t, err, &vErr)
}

func TestAuthLogoutIdempotent(t *testing.T) {
	creds := newMemCreds()
	require.NoError(t, creds.SetAll(context.Background(), testChatID, map[string]string{
		credKeyAccessToken: "t1",
		credKeyUserID:      "u1",
	}))
	auth := NewAuthService(NewGateway("http://unused", creds), creds)

	require.NoError(t, auth.Logout(context.Background(), testChatID))
	assert.Empty(t, creds.all(testChatID))

	// Logging out with no session is fine.
	require.NoError(t, auth.Logout(context.Background(), testChatID))

	current, err := auth.Current(context.Background(), testChatID)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestAuthPartialSessionReadsAsNone(t *testing.T) {
	creds := newMemCreds()
	require.NoError(t, creds.Set(context.Background(), testChatID, credKeyAccessToken, "t1"))
	auth := NewAuthService(NewGateway("http://unused", creds), creds)

	current, err := auth.Current(context.Background(), testChatID)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestAuthExpiryNotifierFires(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := newMemCreds()
	gw := NewGateway(srv.URL, creds)
	auth := NewAuthService(gw, creds)

	var expiredChat int64
	auth.SetExpiredNotifier(func(ctx context.Context, chatID int64) {
		expiredChat = chatID
	})

	_, err := gw.Request(context.Background(), testChatID, http.MethodGet, "/wardrobe/", nil)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, testChatID, expiredChat)
}
