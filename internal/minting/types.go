// Package minting invokes the external mint-execution and identity services
// and orchestrates the final confirmation step.
package minting

import (
	"context"
	"errors"
)

// ErrNoIdentity indicates neither a session account nor a configured
// fallback account is available to mint with. Operator-fixable.
var ErrNoIdentity = errors.New("minting: no mintable identity configured")

// Request is the mint-execution service call payload.
type Request struct {
	Identity    string `json:"identity"`
	Title       string `json:"title"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	MetadataURI string `json:"metadata_uri"`
	Recipient   string `json:"recipient"`
	Amount      int    `json:"amount"`
	// WaitForConfirmation blocks the call until the mint transaction and the
	// transfer to the recipient are both confirmed on chain.
	WaitForConfirmation bool              `json:"wait_for_confirmation"`
	WaitForTransfer     bool              `json:"wait_for_transfer"`
	Attributes          map[string]string `json:"attributes,omitempty"`
}

// Result is a successful mint.
type Result struct {
	TransactionHash string `json:"transaction_hash"`
	AssetAddress    string `json:"asset_address"`
}

// Minter executes a mint. Implementations must not be retried by callers: a
// failed call may still have partially applied on chain.
type Minter interface {
	Mint(ctx context.Context, req Request) (Result, error)
}

// Authenticator resolves a username/secret pair to an account id.
type Authenticator interface {
	Login(ctx context.Context, username, secret string) (string, error)
}
