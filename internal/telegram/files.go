package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/go-telegram/bot"
)

// DownloadFile downloads a Telegram file by file ID and returns its bytes,
// base name and sniffed content type. maxBytes caps the read; 0 means no cap.
func DownloadFile(ctx context.Context, b *bot.Bot, fileID string, maxBytes int64) ([]byte, string, string, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, "", "", fmt.Errorf("get file: %w", err)
	}

	fileURL := b.FileDownloadLink(file)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	reader := io.Reader(resp.Body)
	if maxBytes > 0 {
		reader = io.LimitReader(resp.Body, maxBytes)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", "", fmt.Errorf("read file data: %w", err)
	}

	name := path.Base(file.FilePath)
	if name == "." || name == "/" {
		name = fileID
	}

	return data, name, http.DetectContentType(data), nil
}
