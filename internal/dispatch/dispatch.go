// Package dispatch sends wizard replies back through the chat transport with
// bounded retry. Send failures are reported, never raised: the flow logs and
// keeps serving other sessions.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mintforgehq/mintforge/internal/retry"
)

const maxMessageLength = 4096

// BotSender is the slice of the Telegram API the dispatcher needs.
// *tgbotapi.BotAPI satisfies it.
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dispatcher wraps outbound sends with the shared retry policy.
type Dispatcher struct {
	bot    BotSender
	retry  retry.Config
	logger *slog.Logger
}

// NewDispatcher builds a Dispatcher with the default transport retry policy.
func NewDispatcher(log *slog.Logger, bot BotSender) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		bot:    bot,
		retry:  retry.DefaultConfig,
		logger: log.With(slog.String("service", "dispatch")),
	}
}

// SendText delivers a text reply to the chat, retrying on transport failure.
func (d *Dispatcher) SendText(ctx context.Context, chatID int64, text string) error {
	text = truncate(strings.TrimSpace(text))
	if text == "" {
		return fmt.Errorf("dispatch: text is required")
	}
	err := retry.Do(ctx, d.retry, func() error {
		_, err := d.bot.Send(tgbotapi.NewMessage(chatID, text))
		return err
	})
	if err != nil {
		d.logger.Error("send text failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return fmt.Errorf("dispatch: send text: %w", err)
	}
	return nil
}

// SendAnimation delivers an animation (the "working" indicator) by URL.
func (d *Dispatcher) SendAnimation(ctx context.Context, chatID int64, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("dispatch: animation url is required")
	}
	err := retry.Do(ctx, d.retry, func() error {
		animation := tgbotapi.NewAnimation(chatID, tgbotapi.FileURL(url))
		_, err := d.bot.Send(animation)
		return err
	})
	if err != nil {
		d.logger.Error("send animation failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return fmt.Errorf("dispatch: send animation: %w", err)
	}
	return nil
}

// SendTyping pushes a typing chat action. Best effort, single attempt.
func (d *Dispatcher) SendTyping(ctx context.Context, chatID int64) {
	if err := ctx.Err(); err != nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := d.bot.Request(action); err != nil {
		d.logger.Warn("send typing failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	const suffix = "..."
	return string(runes[:maxMessageLength-len(suffix)]) + suffix
}
