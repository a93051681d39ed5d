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

const authTimeout = 15 * time.Second

// HTTPAuthenticator logs in against the avatar identity service. The secret
// is sent once and never retained.
type HTTPAuthenticator struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewAuthenticator builds the identity client. Configured annotation is
// optional: an empty URL yields a client whose Login always fails, which the
// wizard reports as a login failure rather than crashing.
func NewAuthenticator(log *slog.Logger, cfg config.IdentityConfig) *HTTPAuthenticator {
	if log == nil {
		log = slog.Default()
	}
	return &HTTPAuthenticator{
		baseURL: strings.TrimRight(cfg.ServiceURL, "/"),
		client:  &http.Client{Timeout: authTimeout},
		logger:  log.With(slog.String("service", "identity")),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccountID string `json:"account_id"`
	Error     string `json:"error"`
}

// Login resolves the username/secret pair to an account id.
func (a *HTTPAuthenticator) Login(ctx context.Context, username, secret string) (string, error) {
	if a.baseURL == "" {
		return "", fmt.Errorf("identity service is not configured")
	}
	payload, err := json.Marshal(loginRequest{Username: username, Password: secret})
	if err != nil {
		return "", fmt.Errorf("login: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("login: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("login: read response: %w", err)
	}
	var parsed loginResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("login: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || parsed.AccountID == "" {
		a.logger.Info("login rejected", slog.String("username", username))
		if parsed.Error != "" {
			return "", fmt.Errorf("login: %s", parsed.Error)
		}
		return "", fmt.Errorf("login: status %d", resp.StatusCode)
	}
	a.logger.Info("login accepted", slog.String("username", username))
	return parsed.AccountID, nil
}
