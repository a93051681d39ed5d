package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
)

// Resolver looks up descriptive metadata for a mint address.
type Resolver interface {
	Resolve(ctx context.Context, mint string) (Metadata, error)
}

// MetaplexResolver reads the token-metadata PDA for a mint directly from a
// Solana RPC node.
type MetaplexResolver struct {
	rpc *client.Client
}

// NewMetaplexResolver creates a resolver over an established RPC client.
func NewMetaplexResolver(rpc *client.Client) *MetaplexResolver {
	return &MetaplexResolver{rpc: rpc}
}

// Resolve derives the metadata PDA for mint, fetches the account, and
// deserializes the Metaplex record. A missing or empty account maps to
// ErrNotFound; transport problems surface as errors.
func (r *MetaplexResolver) Resolve(ctx context.Context, mint string) (Metadata, error) {
	mintKey := common.PublicKeyFromString(mint)
	metaKey, err := token_metadata.GetTokenMetaPubkey(mintKey)
	if err != nil {
		return Metadata{}, fmt.Errorf("metadata pda for %s: %w", mint, err)
	}
	account, err := r.rpc.GetAccountInfo(ctx, metaKey.ToBase58())
	if err != nil {
		return Metadata{}, fmt.Errorf("fetch metadata account: %w", err)
	}
	if len(account.Data) == 0 {
		return Metadata{}, ErrNotFound
	}
	record, err := token_metadata.MetadataDeserialize(account.Data)
	if err != nil {
		return Metadata{}, fmt.Errorf("decode metadata account: %w", err)
	}
	result := Metadata{
		Mint:        mint,
		Name:        trimPadded(record.Data.Name),
		Symbol:      trimPadded(record.Data.Symbol),
		MetadataURI: trimPadded(record.Data.Uri),
	}
	if !result.usable() {
		return Metadata{}, ErrNotFound
	}
	return result, nil
}

// trimPadded strips the NUL padding Metaplex uses for fixed-width strings.
func trimPadded(value string) string {
	return strings.TrimSpace(strings.TrimRight(value, "\x00"))
}
