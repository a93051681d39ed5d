package pinning

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
	"time"

	"github.com/mintforgehq/mintforge/internal/config"
)

const pinataTimeout = 20 * time.Second

// Pinata talks to the Pinata pinning API. Safe for concurrent use; every
// call is stateless.
type Pinata struct {
	apiBase string
	gateway string
	jwt     string
	client  *http.Client
	logger  *slog.Logger
}

// NewPinata builds a Pinata client from config. A missing JWT is a
// configuration error and fails construction.
func NewPinata(log *slog.Logger, cfg config.PinningConfig) (*Pinata, error) {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(cfg.JWT) == "" {
		return nil, ErrMissingCredentials
	}
	apiBase := strings.TrimRight(cfg.APIBase, "/")
	if apiBase == "" {
		apiBase = config.DefaultPinataAPIBase
	}
	gateway := strings.TrimRight(cfg.Gateway, "/")
	if gateway == "" {
		gateway = config.DefaultPinataGateway
	}
	return &Pinata{
		apiBase: apiBase,
		gateway: gateway,
		jwt:     cfg.JWT,
		client:  &http.Client{Timeout: pinataTimeout},
		logger:  log.With(slog.String("service", "pinning")),
	}, nil
}

type pinataResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// Pin uploads raw bytes via pinFileToIPFS and returns the gateway URL.
func (p *Pinata) Pin(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("pin: payload is empty")
	}
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if strings.TrimSpace(contentType) != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("pin: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("pin: write payload: %w", err)
	}
	meta, _ := json.Marshal(map[string]any{"name": filename})
	if err := writer.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("pin: write metadata: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("pin: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+"/pinning/pinFileToIPFS", body)
	if err != nil {
		return "", fmt.Errorf("pin: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.jwt)

	hash, err := p.do(req)
	if err != nil {
		return "", err
	}
	p.logger.Info("pinned file",
		slog.String("name", filename),
		slog.String("content_type", contentType),
		slog.Int("size", len(data)),
		slog.String("hash", hash))
	return p.gateway + "/" + hash, nil
}

// PinJSON uploads v via pinJSONToIPFS and returns the gateway URL.
func (p *Pinata) PinJSON(ctx context.Context, v any, name string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"pinataContent":  v,
		"pinataMetadata": map[string]any{"name": name},
	})
	if err != nil {
		return "", fmt.Errorf("pin json: marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+"/pinning/pinJSONToIPFS", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("pin json: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.jwt)

	hash, err := p.do(req)
	if err != nil {
		return "", err
	}
	p.logger.Info("pinned json", slog.String("name", name), slog.String("hash", hash))
	return p.gateway + "/" + hash, nil
}

// Verify confirms the configured credentials against the authentication
// test endpoint. Used by the health checks.
func (p *Pinata) Verify(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/data/testAuthentication", nil)
	if err != nil {
		return fmt.Errorf("verify: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.jwt)
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("verify: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verify: status %d", resp.StatusCode)
	}
	return nil
}

func (p *Pinata) do(req *http.Request) (string, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pin: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("pin: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pin: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var parsed pinataResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("pin: decode response: %w", err)
	}
	if strings.TrimSpace(parsed.IpfsHash) == "" {
		return "", fmt.Errorf("pin: response has no hash")
	}
	return parsed.IpfsHash, nil
}
