package healthcheck

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotInfoSource is the slice of the Telegram API the bot check needs.
type BotInfoSource interface {
	GetMe() (tgbotapi.User, error)
}

// TelegramChecker verifies the bot token by asking Telegram who we are.
type TelegramChecker struct {
	api BotInfoSource
}

func NewTelegramChecker(api BotInfoSource) *TelegramChecker {
	return &TelegramChecker{api: api}
}

func (c *TelegramChecker) Check(ctx context.Context) CheckResult {
	result := CheckResult{ID: "telegram.bot"}
	if c.api == nil {
		result.Status = StatusUnknown
		result.Summary = "bot API not configured"
		return result
	}
	me, err := c.api.GetMe()
	if err != nil {
		result.Status = StatusError
		result.Summary = "getMe failed"
		result.Detail = err.Error()
		return result
	}
	result.Status = StatusOK
	result.Summary = fmt.Sprintf("connected as @%s", me.UserName)
	return result
}

// CredentialVerifier is implemented by the pinning client.
type CredentialVerifier interface {
	Verify(ctx context.Context) error
}

// PinningChecker verifies the pinning store credentials.
type PinningChecker struct {
	store CredentialVerifier
}

func NewPinningChecker(store CredentialVerifier) *PinningChecker {
	return &PinningChecker{store: store}
}

func (c *PinningChecker) Check(ctx context.Context) CheckResult {
	result := CheckResult{ID: "pinning.credentials"}
	if c.store == nil {
		result.Status = StatusUnknown
		result.Summary = "pinning store not configured"
		return result
	}
	if err := c.store.Verify(ctx); err != nil {
		result.Status = StatusError
		result.Summary = "credential check failed"
		result.Detail = err.Error()
		return result
	}
	result.Status = StatusOK
	result.Summary = "credentials accepted"
	return result
}

// SlotSource is the slice of the Solana RPC client the chain check needs.
type SlotSource interface {
	GetSlot(ctx context.Context) (uint64, error)
}

// SolanaChecker verifies the RPC endpoint answers.
type SolanaChecker struct {
	rpc SlotSource
}

func NewSolanaChecker(source SlotSource) *SolanaChecker {
	return &SolanaChecker{rpc: source}
}

func (c *SolanaChecker) Check(ctx context.Context) CheckResult {
	result := CheckResult{ID: "solana.rpc"}
	if c.rpc == nil {
		result.Status = StatusUnknown
		result.Summary = "rpc client not configured"
		return result
	}
	slot, err := c.rpc.GetSlot(ctx)
	if err != nil {
		result.Status = StatusError
		result.Summary = "getSlot failed"
		result.Detail = err.Error()
		return result
	}
	result.Status = StatusOK
	result.Summary = fmt.Sprintf("slot %d", slot)
	return result
}
