package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/set-night/styleit/internal/domain"
)

// AuthService owns the login/signup/logout flows and is the only writer of
// credentials besides the gateway's expiry path.
type AuthService struct {
	gw        *Gateway
	creds     CredentialStore
	onExpired func(ctx context.Context, chatID int64)
}

func NewAuthService(gw *Gateway, creds CredentialStore) *AuthService {
	s := &AuthService{gw: gw, creds: creds}
	gw.SetExpiryHandler(s.expire)
	return s
}

// SetExpiredNotifier installs the UI signal emitted when a session dies
// under us (401 from any endpoint). Fired at most once per expiry.
func (s *AuthService) SetExpiredNotifier(fn func(ctx context.Context, chatID int64)) {
	s.onExpired = fn
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
}

func (s *AuthService) Login(ctx context.Context, chatID int64, email, password string) (*domain.Session, error) {
	return s.authenticate(ctx, chatID, "/auth/login", email, password)
}

func (s *AuthService) Signup(ctx context.Context, chatID int64, email, password string) (*domain.Session, error) {
	return s.authenticate(ctx, chatID, "/auth/signup", email, password)
}

func (s *AuthService) authenticate(ctx context.Context, chatID int64, path, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &domain.ValidationError{Message: "email and password are required"}
	}

	raw, err := s.gw.Request(ctx, chatID, http.MethodPost, path, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse auth response: %w", err)
	}
	if resp.AccessToken == "" || resp.UserID == "" {
		return nil, &domain.APIError{Message: "malformed auth response"}
	}

	// Both-or-neither: a partial session must never be persisted.
	if err := s.creds.SetAll(ctx, chatID, map[string]string{
		credKeyAccessToken: resp.AccessToken,
		credKeyUserID:      resp.UserID,
	}); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return &domain.Session{AccessToken: resp.AccessToken, UserID: resp.UserID}, nil
}

// Logout clears every credential field unconditionally. Safe to call with
// no session.
func (s *AuthService) Logout(ctx context.Context, chatID int64) error {
	if err := s.creds.Remove(ctx, chatID, credKeyAccessToken, credKeyRefreshToken, credKeyUserID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the stored session, or nil when no valid session exists.
// A partial session reads as no session.
func (s *AuthService) Current(ctx context.Context, chatID int64) (*domain.Session, error) {
	token, err := s.creds.Get(ctx, chatID, credKeyAccessToken)
	if err != nil {
		return nil, err
	}
	userID, err := s.creds.Get(ctx, chatID, credKeyUserID)
	if err != nil {
		return nil, err
	}
	session := &domain.Session{AccessToken: token, UserID: userID}
	if !session.Valid() {
		return nil, nil
	}
	return session, nil
}

// expire is the gateway's 401 hook. Credentials are already cleared by the
// gateway; this emits the forced-navigation signal to the UI.
func (s *AuthService) expire(ctx context.Context, chatID int64) {
	if s.onExpired != nil {
		s.onExpired(ctx, chatID)
	}
}
