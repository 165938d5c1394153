package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/set-night/styleit/internal/config"
	"github.com/set-night/styleit/internal/domain"
)

// Credential keys used by the StyleIt backend.
const (
	credKeyAccessToken  = "access_token"
	credKeyRefreshToken = "refresh_token"
	credKeyUserID       = "user_id"
)

// CredentialStore is the persistent key-value store for per-chat auth
// material. Values are opaque strings; an absent key reads as "".
type CredentialStore interface {
	Get(ctx context.Context, chatID int64, key string) (string, error)
	Set(ctx context.Context, chatID int64, key, value string) error
	SetAll(ctx context.Context, chatID int64, values map[string]string) error
	Remove(ctx context.Context, chatID int64, keys ...string) error
}

// FileUpload is an image blob sent as the multipart "file" field.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Gateway builds requests against the StyleIt API: bearer injection,
// JSON/multipart bodies, uniform error-body parsing and 401 handling.
// Each call is at-most-once; there are no retries.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialStore
	onExpired  func(ctx context.Context, chatID int64)
}

func NewGateway(baseURL string, creds CredentialStore) *Gateway {
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		creds:      creds,
	}
}

// SetExpiryHandler installs the single session-expiry path. It is invoked
// exactly once per 401 response, after the credentials have been cleared.
func (g *Gateway) SetExpiryHandler(fn func(ctx context.Context, chatID int64)) {
	g.onExpired = fn
}

// Request issues a JSON call. A nil body sends no payload. On success the
// raw JSON response body is returned for the caller to decode.
func (g *Gateway) Request(ctx context.Context, chatID int64, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return g.do(ctx, chatID, method, path, reader, contentType)
}

// RequestMultipart issues a multipart call with optional form fields plus
// the file part. No JSON content type is set; the multipart writer
// declares its own boundary.
func (g *Gateway) RequestMultipart(ctx context.Context, chatID int64, method, path string, fields map[string]string, file *FileUpload) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %q: %w", name, err)
		}
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, file.Name))
		header.Set("Content-Type", file.ContentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, fmt.Errorf("write file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	return g.do(ctx, chatID, method, path, &buf, w.FormDataContentType())
}

func (g *Gateway) do(ctx context.Context, chatID int64, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := g.creds.Get(ctx, chatID, credKeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("read access token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &domain.APIError{Message: "network error, please try again"}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		g.expireSession(ctx, chatID)
		return nil, domain.ErrSessionExpired
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.APIError{Message: "network error, please try again"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.APIError{Message: errorMessage(respBody, resp.Status)}
	}

	return respBody, nil
}

// expireSession clears the whole session and signals the expiry handler.
// This is the only path for "session became invalid" besides explicit
// logout, and both end with empty credentials.
func (g *Gateway) expireSession(ctx context.Context, chatID int64) {
	if err := g.creds.Remove(ctx, chatID, credKeyAccessToken, credKeyRefreshToken, credKeyUserID); err != nil {
		slog.Error("clear credentials on expiry", "error", err, "chat_id", chatID)
	}
	if g.onExpired != nil {
		g.onExpired(ctx, chatID)
	}
}

// errorMessage extracts the backend's structured error message, falling
// back to the transport status text for unparseable bodies.
func errorMessage(body []byte, status string) string {
	var parsed struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Detail != "" {
			return parsed.Detail
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return status
}
