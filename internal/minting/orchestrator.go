package minting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mintforgehq/mintforge/internal/pinning"
	"github.com/mintforgehq/mintforge/internal/session"
)

// metadataDocument is the canonical JSON document referenced on chain.
type metadataDocument struct {
	Name        string             `json:"name"`
	Symbol      string             `json:"symbol"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Properties  metadataProperties `json:"properties"`
}

type metadataProperties struct {
	Files    []metadataFile `json:"files"`
	Category string         `json:"category"`
}

type metadataFile struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

// Orchestrator runs the confirmed mint: metadata upload (unless the import
// path already resolved one), the blocking mint call, and the user-facing
// outcome message.
type Orchestrator struct {
	pins             pinning.Client
	minter           Minter
	fallbackAccount  string
	explorerTxBase   string
	explorerMintBase string
	logger           *slog.Logger
}

// NewOrchestrator wires the orchestration dependencies.
func NewOrchestrator(log *slog.Logger, pins pinning.Client, minter Minter, fallbackAccount, explorerTxBase, explorerMintBase string) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		pins:             pins,
		minter:           minter,
		fallbackAccount:  strings.TrimSpace(fallbackAccount),
		explorerTxBase:   strings.TrimRight(explorerTxBase, "/"),
		explorerMintBase: strings.TrimRight(explorerMintBase, "/"),
		logger:           log.With(slog.String("service", "orchestrator")),
	}
}

// Execute performs the mint for a confirmed session and returns the message
// to show the user. It never returns an error and never panics: every
// failure mode becomes a reply, because by the time Execute runs the session
// is already gone and the worker must stay healthy.
func (o *Orchestrator) Execute(ctx context.Context, state session.State) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("orchestration panic", slog.Any("panic", r))
			reply = "Minting failed unexpectedly. Please start over."
		}
	}()

	identity := strings.TrimSpace(state.IdentityAccount)
	if identity == "" {
		identity = o.fallbackAccount
	}
	if identity == "" {
		o.logger.Error("no mintable identity", slog.String("session", state.SessionKey), slog.Any("error", ErrNoIdentity))
		return "Minting is not configured on this bot: no minting account is available. Ask the operator to set one, or log in when starting the wizard."
	}

	metadataURI := strings.TrimSpace(state.MetadataURI)
	if metadataURI == "" {
		doc := metadataDocument{
			Name:        state.Title,
			Symbol:      state.Symbol,
			Description: state.Description,
			Image:       state.AssetURL,
			Properties: metadataProperties{
				Files:    []metadataFile{{URI: state.AssetURL, Type: contentTypeOrPNG(state.AssetContentType)}},
				Category: "image",
			},
		}
		uri, err := o.pins.PinJSON(ctx, doc, fmt.Sprintf("%s-metadata.json", slugify(state.Title)))
		if err != nil {
			o.logger.Error("metadata upload failed", slog.String("session", state.SessionKey), slog.Any("error", err))
			return "Could not upload the NFT metadata. Nothing was minted; please start over."
		}
		metadataURI = uri
	}

	result, err := o.minter.Mint(ctx, Request{
		Identity:            identity,
		Title:               state.Title,
		Symbol:              state.Symbol,
		Description:         state.Description,
		ImageURL:            state.AssetURL,
		MetadataURI:         metadataURI,
		Recipient:           state.RecipientAddress,
		Amount:              1,
		WaitForConfirmation: true,
		WaitForTransfer:     true,
		Attributes:          state.ExtraAttributes,
	})
	if err != nil {
		o.logger.Error("mint failed", slog.String("session", state.SessionKey), slog.Any("error", err))
		return fmt.Sprintf("Minting failed: %v", err)
	}

	o.logger.Info("mint succeeded",
		slog.String("session", state.SessionKey),
		slog.String("tx", result.TransactionHash),
		slog.String("asset", result.AssetAddress))
	return fmt.Sprintf(
		"Minted %q and sent it to %s.\nTransaction: %s/%s\nAsset: %s/%s",
		state.Title,
		state.RecipientAddress,
		o.explorerTxBase, result.TransactionHash,
		o.explorerMintBase, result.AssetAddress,
	)
}

func contentTypeOrPNG(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return "image/png"
	}
	return contentType
}

func slugify(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "nft"
	}
	return b.String()
}
