package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	require.Equal(t, DefaultSolanaRPC, cfg.Solana.RPCURL)
	require.Equal(t, DefaultStartCommand, cfg.Wizard.StartCommand)
	require.Equal(t, 30, cfg.Telegram.PollTimeoutSeconds)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[telegram]
bot_token = "123:abc"

[pinning]
jwt = "pinata-jwt"

[minting]
service_url = "https://mint.example.com"
fallback_account = "service-account"

[wizard]
confirm_token = "go!"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "123:abc", cfg.Telegram.BotToken)
	require.Equal(t, "pinata-jwt", cfg.Pinning.JWT)
	require.Equal(t, "go!", cfg.Wizard.ConfirmToken)
	require.Equal(t, DefaultCancelCommand, cfg.Wizard.CancelCommand)
	require.NoError(t, Validate(cfg))
}

func TestValidateReportsMissingCredentials(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Telegram.BotToken")
}
