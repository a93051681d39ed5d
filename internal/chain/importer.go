package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const documentTimeout = 12 * time.Second

// Importer composes the primary on-chain lookup with the secondary discovery
// API and enriches either result from the linked JSON document.
type Importer struct {
	primary   Resolver
	secondary Resolver
	client    *http.Client
	logger    *slog.Logger
}

// NewImporter wires the two resolvers. secondary may be nil.
func NewImporter(log *slog.Logger, primary, secondary Resolver) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		primary:   primary,
		secondary: secondary,
		client:    &http.Client{Timeout: documentTimeout},
		logger:    log.With(slog.String("service", "importer")),
	}
}

// Import resolves metadata for mint. The primary source is consulted first;
// only a clean miss falls through to the secondary. A usable result is
// enriched from its JSON document best-effort. Both sources missing yields
// ErrNotFound; the importer never invents placeholder metadata.
func (i *Importer) Import(ctx context.Context, mint string) (Metadata, error) {
	meta, err := i.primary.Resolve(ctx, mint)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		if i.secondary == nil {
			return Metadata{}, ErrNotFound
		}
		meta, err = i.secondary.Resolve(ctx, mint)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Metadata{}, ErrNotFound
			}
			return Metadata{}, fmt.Errorf("secondary lookup: %w", err)
		}
	default:
		// Transport failure on the primary still deserves a secondary try;
		// the indexer often answers when an RPC node is flaky.
		i.logger.Warn("primary lookup failed", slog.String("mint", mint), slog.Any("error", err))
		if i.secondary == nil {
			return Metadata{}, err
		}
		meta, err = i.secondary.Resolve(ctx, mint)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Metadata{}, ErrNotFound
			}
			return Metadata{}, fmt.Errorf("secondary lookup: %w", err)
		}
	}

	meta = i.enrich(ctx, meta)
	if !meta.usable() {
		return Metadata{}, ErrNotFound
	}
	i.logger.Info("imported asset metadata",
		slog.String("mint", mint),
		slog.String("name", meta.Name),
		slog.String("uri", meta.MetadataURI))
	return meta, nil
}

type metadataDocument struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ImageURL    string `json:"image_url"`
}

// enrich fetches the JSON document behind MetadataURI and fills gaps.
// Fetch failures are tolerated; the on-chain fields stand on their own.
func (i *Importer) enrich(ctx context.Context, meta Metadata) Metadata {
	uri := strings.TrimSpace(meta.MetadataURI)
	if uri == "" || !strings.HasPrefix(uri, "http") {
		return meta
	}
	if meta.ImageURL != "" && meta.Description != "" {
		return meta
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return meta
	}
	resp, err := i.client.Do(req)
	if err != nil {
		i.logger.Warn("metadata document fetch failed", slog.String("uri", uri), slog.Any("error", err))
		return meta
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return meta
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return meta
	}
	var doc metadataDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return meta
	}
	if meta.Name == "" {
		meta.Name = strings.TrimSpace(doc.Name)
	}
	if meta.Symbol == "" {
		meta.Symbol = strings.TrimSpace(doc.Symbol)
	}
	if meta.Description == "" {
		meta.Description = strings.TrimSpace(doc.Description)
	}
	if meta.ImageURL == "" {
		image := strings.TrimSpace(doc.Image)
		if image == "" {
			image = strings.TrimSpace(doc.ImageURL)
		}
		meta.ImageURL = image
	}
	return meta
}
