// Package uploader moves user-supplied artwork from the chat transport to
// the pinning store.
package uploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mintforgehq/mintforge/internal/pinning"
	"github.com/mintforgehq/mintforge/internal/retry"
)

// MaxAssetBytes caps the accepted artwork size.
const MaxAssetBytes int64 = 32 << 20

const downloadTimeout = 20 * time.Second

// FileURLResolver resolves a chat-transport file reference to a direct
// download URL. *tgbotapi.BotAPI satisfies it.
type FileURLResolver interface {
	GetFileDirectURL(fileID string) (string, error)
}

// Upload is the result of republishing an asset to the pinning store.
type Upload struct {
	URL         string
	ContentType string
}

// Uploader downloads a transport file and pins it.
type Uploader struct {
	files  FileURLResolver
	pins   pinning.Client
	client *http.Client
	retry  retry.Config
	logger *slog.Logger
}

// NewUploader builds an Uploader with the default transport retry policy.
func NewUploader(log *slog.Logger, files FileURLResolver, pins pinning.Client) *Uploader {
	if log == nil {
		log = slog.Default()
	}
	return &Uploader{
		files:  files,
		pins:   pins,
		client: &http.Client{Timeout: downloadTimeout},
		retry:  retry.DefaultConfig,
		logger: log.With(slog.String("service", "uploader")),
	}
}

// Upload resolves fileID, downloads the bytes, sniffs the content type, and
// pins the result under a unique name. Every network step retries with the
// shared fixed-delay policy; exhaustion returns an error and no URL.
func (u *Uploader) Upload(ctx context.Context, fileID string) (Upload, error) {
	var directURL string
	err := retry.Do(ctx, u.retry, func() error {
		value, err := u.files.GetFileDirectURL(fileID)
		if err != nil {
			return err
		}
		directURL = value
		return nil
	})
	if err != nil {
		return Upload{}, fmt.Errorf("resolve file url: %w", err)
	}

	var data []byte
	err = retry.Do(ctx, u.retry, func() error {
		payload, err := u.download(ctx, directURL)
		if err != nil {
			return err
		}
		data = payload
		return nil
	})
	if err != nil {
		return Upload{}, fmt.Errorf("download asset: %w", err)
	}

	contentType := SniffImageType(data)
	name := fmt.Sprintf("asset-%s%s", uuid.NewString(), extensionFor(contentType))
	var url string
	err = retry.Do(ctx, u.retry, func() error {
		value, err := u.pins.Pin(ctx, data, name, contentType)
		if err != nil {
			return err
		}
		url = value
		return nil
	})
	if err != nil {
		return Upload{}, fmt.Errorf("pin asset: %w", err)
	}
	u.logger.Info("asset uploaded",
		slog.String("content_type", contentType),
		slog.Int("size", len(data)),
		slog.String("url", url))
	return Upload{URL: url, ContentType: contentType}, nil
}

func (u *Uploader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("download status: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read download: %w", err)
	}
	if int64(len(data)) > MaxAssetBytes {
		return nil, fmt.Errorf("asset exceeds %d bytes", MaxAssetBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("asset payload is empty")
	}
	return data, nil
}

// SniffImageType detects the image format from leading bytes. Unrecognized
// content defaults to PNG, matching how the mint metadata is built.
func SniffImageType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png"
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return "image/gif"
	default:
		return "image/png"
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
