package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath       = "config.toml"
	DefaultHTTPAddr         = ":8080"
	DefaultSolanaRPC        = "https://api.mainnet-beta.solana.com"
	DefaultPinataAPIBase    = "https://api.pinata.cloud"
	DefaultPinataGateway    = "https://gateway.pinata.cloud/ipfs"
	DefaultExplorerTxBase   = "https://solscan.io/tx"
	DefaultExplorerMintBase = "https://solscan.io/token"
	DefaultStartCommand     = "mint"
	DefaultCancelCommand    = "cancel"
	DefaultConfirmToken     = "mint!"
	DefaultPlaceholderAsset = "https://gateway.pinata.cloud/ipfs/QmNoImage/placeholder.png"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Telegram TelegramConfig `toml:"telegram"`
	Pinning  PinningConfig  `toml:"pinning"`
	Solana   SolanaConfig   `toml:"solana"`
	Minting  MintingConfig  `toml:"minting"`
	Identity IdentityConfig `toml:"identity"`
	Wizard   WizardConfig   `toml:"wizard"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type TelegramConfig struct {
	BotToken string `toml:"bot_token" validate:"required"`
	// PollTimeoutSeconds is the long-poll timeout passed to getUpdates.
	PollTimeoutSeconds int `toml:"poll_timeout_seconds"`
}

type PinningConfig struct {
	APIBase string `toml:"api_base"`
	JWT     string `toml:"jwt" validate:"required"`
	Gateway string `toml:"gateway"`
}

type SolanaConfig struct {
	RPCURL string `toml:"rpc_url"`
	// DiscoveryURL is the optional DAS-style indexer endpoint used when the
	// on-chain metadata account yields nothing. Empty disables the fallback.
	DiscoveryURL     string `toml:"discovery_url"`
	ExplorerTxBase   string `toml:"explorer_tx_base"`
	ExplorerMintBase string `toml:"explorer_mint_base"`
}

type MintingConfig struct {
	ServiceURL string `toml:"service_url" validate:"required,url"`
	APIKey     string `toml:"api_key"`
	// FallbackAccount mints on behalf of users who skipped login. Empty is
	// allowed; minting then requires a per-session authenticated account.
	FallbackAccount string `toml:"fallback_account"`
	TimeoutMinutes  int    `toml:"timeout_minutes"`
}

type IdentityConfig struct {
	ServiceURL string `toml:"service_url" validate:"omitempty,url"`
}

type WizardConfig struct {
	StartCommand     string `toml:"start_command"`
	CancelCommand    string `toml:"cancel_command"`
	ConfirmToken     string `toml:"confirm_token"`
	PlaceholderAsset string `toml:"placeholder_asset"`
	// WorkingAnimation is an optional GIF shown while the mint call runs.
	WorkingAnimation string `toml:"working_animation"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Telegram: TelegramConfig{
			PollTimeoutSeconds: 30,
		},
		Pinning: PinningConfig{
			APIBase: DefaultPinataAPIBase,
			Gateway: DefaultPinataGateway,
		},
		Solana: SolanaConfig{
			RPCURL:           DefaultSolanaRPC,
			ExplorerTxBase:   DefaultExplorerTxBase,
			ExplorerMintBase: DefaultExplorerMintBase,
		},
		Minting: MintingConfig{
			TimeoutMinutes: 5,
		},
		Wizard: WizardConfig{
			StartCommand:     DefaultStartCommand,
			CancelCommand:    DefaultCancelCommand,
			ConfirmToken:     DefaultConfirmToken,
			PlaceholderAsset: DefaultPlaceholderAsset,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate reports operator-fixable configuration problems with a field-level
// diagnostic. It is separate from Load so `mintforge version` and tests can
// work with partial configs.
func Validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config: field %s failed %q validation", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
