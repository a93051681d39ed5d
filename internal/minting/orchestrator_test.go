package minting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mintforgehq/mintforge/internal/session"
)

type stubPins struct {
	url     string
	err     error
	gotDoc  any
	gotName string
	calls   int
}

func (s *stubPins) Pin(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	return s.url, s.err
}

func (s *stubPins) PinJSON(ctx context.Context, v any, name string) (string, error) {
	s.calls++
	s.gotDoc = v
	s.gotName = name
	return s.url, s.err
}

type stubMinter struct {
	result Result
	err    error
	gotReq Request
	calls  int
}

func (s *stubMinter) Mint(ctx context.Context, req Request) (Result, error) {
	s.calls++
	s.gotReq = req
	return s.result, s.err
}

func confirmedState() session.State {
	return session.State{
		SessionKey:       "chat-1",
		Step:             session.StepConfirm,
		AssetURL:         "https://gw.example/ipfs/QmArt",
		AssetContentType: "image/jpeg",
		Title:            "My Badge",
		Symbol:           "BDG",
		Description:      "",
		RecipientAddress: "4Nd1mYvM6kW8opq7rstuvwXYZabcdefghijkSoL42abc",
	}
}

func TestExecuteUploadsMetadataAndMints(t *testing.T) {
	t.Parallel()

	pins := &stubPins{url: "https://gw.example/ipfs/QmMeta"}
	minter := &stubMinter{result: Result{TransactionHash: "tx123", AssetAddress: "mint456"}}
	o := NewOrchestrator(nil, pins, minter, "service-account", "https://solscan.io/tx", "https://solscan.io/token")

	reply := o.Execute(context.Background(), confirmedState())

	require.Equal(t, 1, pins.calls)
	doc, ok := pins.gotDoc.(metadataDocument)
	require.True(t, ok)
	require.Equal(t, "My Badge", doc.Name)
	require.Equal(t, "BDG", doc.Symbol)
	require.Equal(t, "https://gw.example/ipfs/QmArt", doc.Image)
	require.Equal(t, "image/jpeg", doc.Properties.Files[0].Type)
	require.Equal(t, "image", doc.Properties.Category)

	require.Equal(t, 1, minter.calls)
	require.Equal(t, "service-account", minter.gotReq.Identity)
	require.Equal(t, 1, minter.gotReq.Amount)
	require.True(t, minter.gotReq.WaitForConfirmation)
	require.True(t, minter.gotReq.WaitForTransfer)
	require.Equal(t, "https://gw.example/ipfs/QmMeta", minter.gotReq.MetadataURI)

	require.Contains(t, reply, "https://solscan.io/tx/tx123")
	require.Contains(t, reply, "https://solscan.io/token/mint456")
}

func TestExecuteReusesImportedMetadataURI(t *testing.T) {
	t.Parallel()

	pins := &stubPins{url: "https://gw.example/ipfs/QmMeta"}
	minter := &stubMinter{result: Result{TransactionHash: "tx", AssetAddress: "mint"}}
	o := NewOrchestrator(nil, pins, minter, "service-account", "https://solscan.io/tx", "https://solscan.io/token")

	state := confirmedState()
	state.MetadataURI = "https://meta.example/imported.json"
	_ = o.Execute(context.Background(), state)

	require.Zero(t, pins.calls, "import path must not re-upload metadata")
	require.Equal(t, "https://meta.example/imported.json", minter.gotReq.MetadataURI)
}

func TestExecutePrefersSessionIdentity(t *testing.T) {
	t.Parallel()

	minter := &stubMinter{result: Result{TransactionHash: "tx", AssetAddress: "mint"}}
	o := NewOrchestrator(nil, &stubPins{url: "u"}, minter, "service-account", "https://solscan.io/tx", "https://solscan.io/token")

	state := confirmedState()
	state.IdentityAccount = "avatar-77"
	_ = o.Execute(context.Background(), state)

	require.Equal(t, "avatar-77", minter.gotReq.Identity)
}

func TestExecuteWithoutAnyIdentityIsConfigError(t *testing.T) {
	t.Parallel()

	minter := &stubMinter{}
	o := NewOrchestrator(nil, &stubPins{url: "u"}, minter, "", "https://solscan.io/tx", "https://solscan.io/token")

	reply := o.Execute(context.Background(), confirmedState())

	require.Zero(t, minter.calls)
	require.Contains(t, reply, "not configured")
}

func TestExecuteMetadataUploadFailureIsTerminal(t *testing.T) {
	t.Parallel()

	minter := &stubMinter{}
	o := NewOrchestrator(nil, &stubPins{err: errors.New("pinata down")}, minter, "acct", "https://solscan.io/tx", "https://solscan.io/token")

	reply := o.Execute(context.Background(), confirmedState())

	require.Zero(t, minter.calls)
	require.Contains(t, reply, "Nothing was minted")
}

func TestExecuteSurfacesMintServiceMessage(t *testing.T) {
	t.Parallel()

	minter := &stubMinter{err: errors.New("mint: insufficient funds in fee payer")}
	o := NewOrchestrator(nil, &stubPins{url: "u"}, minter, "acct", "https://solscan.io/tx", "https://solscan.io/token")

	reply := o.Execute(context.Background(), confirmedState())
	require.Contains(t, reply, "insufficient funds in fee payer")
}

func TestExecuteContainsPanics(t *testing.T) {
	t.Parallel()

	o := NewOrchestrator(nil, nil, nil, "acct", "https://solscan.io/tx", "https://solscan.io/token")
	state := confirmedState()
	state.MetadataURI = "https://meta.example/x.json"

	// Nil minter dereference must be contained, not crash the worker.
	reply := o.Execute(context.Background(), state)
	require.Contains(t, reply, "failed")
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	require.Equal(t, "my-badge", slugify("My Badge"))
	require.Equal(t, "nft", slugify("???"))
}
