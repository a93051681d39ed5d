package minting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mintforgehq/mintforge/internal/config"
)

// Client calls the mint-execution service over HTTP. The service owns the
// blockchain mechanics; this client only carries the request and waits.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient builds a mint-execution client. The timeout is generous because
// Mint blocks until on-chain confirmation.
func NewClient(log *slog.Logger, cfg config.MintingConfig) *Client {
	if log == nil {
		log = slog.Default()
	}
	timeout := time.Duration(cfg.TimeoutMinutes) * time.Minute
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.ServiceURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  log.With(slog.String("service", "mint_client")),
	}
}

type mintResponse struct {
	Result
	Error string `json:"error"`
}

// Mint submits the request and blocks until the service reports confirmation
// or failure. It is never retried: a failed call may have partially executed.
func (c *Client) Mint(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("mint: marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mint", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("mint: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Info("mint submitted",
		slog.String("title", req.Title),
		slog.String("recipient", req.Recipient))
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("mint: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("mint: read response: %w", err)
	}
	var parsed mintResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Result{}, fmt.Errorf("mint: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return Result{}, fmt.Errorf("mint: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Error != "" {
		message := parsed.Error
		if message == "" {
			message = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return Result{}, fmt.Errorf("mint: %s", message)
	}
	if parsed.TransactionHash == "" {
		return Result{}, fmt.Errorf("mint: response has no transaction hash")
	}
	return parsed.Result, nil
}
