package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const discoveryTimeout = 15 * time.Second

// DiscoveryResolver queries a DAS-style indexer (getAsset JSON-RPC) when the
// on-chain metadata account yields nothing.
type DiscoveryResolver struct {
	url    string
	client *http.Client
}

// NewDiscoveryResolver creates a resolver for the given indexer endpoint.
func NewDiscoveryResolver(url string) *DiscoveryResolver {
	return &DiscoveryResolver{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: discoveryTimeout},
	}
}

type dasRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Params  dasParams `json:"params"`
}

type dasParams struct {
	ID string `json:"id"`
}

type dasResponse struct {
	Result *dasAsset `json:"result"`
}

type dasAsset struct {
	Content struct {
		JSONURI  string `json:"json_uri"`
		Metadata struct {
			Name        string `json:"name"`
			Symbol      string `json:"symbol"`
			Description string `json:"description"`
		} `json:"metadata"`
		Links struct {
			Image string `json:"image"`
		} `json:"links"`
		Files []struct {
			URI  string `json:"uri"`
			Mime string `json:"mime"`
		} `json:"files"`
	} `json:"content"`
}

// Resolve queries the indexer. An empty result maps to ErrNotFound.
func (r *DiscoveryResolver) Resolve(ctx context.Context, mint string) (Metadata, error) {
	if r.url == "" {
		return Metadata{}, ErrNotFound
	}
	payload, err := json.Marshal(dasRequest{
		JSONRPC: "2.0",
		ID:      "mintforge",
		Method:  "getAsset",
		Params:  dasParams{ID: mint},
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("discovery: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return Metadata{}, fmt.Errorf("discovery: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("discovery: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Metadata{}, fmt.Errorf("discovery: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Metadata{}, fmt.Errorf("discovery: status %d", resp.StatusCode)
	}
	var parsed dasResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Metadata{}, fmt.Errorf("discovery: decode response: %w", err)
	}
	if parsed.Result == nil {
		return Metadata{}, ErrNotFound
	}
	asset := parsed.Result
	result := Metadata{
		Mint:        mint,
		Name:        strings.TrimSpace(asset.Content.Metadata.Name),
		Symbol:      strings.TrimSpace(asset.Content.Metadata.Symbol),
		Description: strings.TrimSpace(asset.Content.Metadata.Description),
		ImageURL:    strings.TrimSpace(asset.Content.Links.Image),
		MetadataURI: strings.TrimSpace(asset.Content.JSONURI),
	}
	if result.ImageURL == "" {
		for _, file := range asset.Content.Files {
			if strings.HasPrefix(file.Mime, "image/") || file.Mime == "" {
				result.ImageURL = strings.TrimSpace(file.URI)
				break
			}
		}
	}
	if !result.usable() {
		return Metadata{}, ErrNotFound
	}
	return result, nil
}
