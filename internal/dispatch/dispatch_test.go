package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mintforgehq/mintforge/internal/retry"
)

type stubBot struct {
	fails int
	calls int
	sent  []tgbotapi.Chattable
}

func (s *stubBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.calls++
	if s.calls <= s.fails {
		return tgbotapi.Message{}, errors.New("transient")
	}
	s.sent = append(s.sent, c)
	return tgbotapi.Message{MessageID: s.calls}, nil
}

func (s *stubBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.sent = append(s.sent, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func newTestDispatcher(bot *stubBot) *Dispatcher {
	d := NewDispatcher(nil, bot)
	d.retry = retry.Config{MaxAttempts: 3, Delay: time.Millisecond}
	return d
}

func TestSendTextRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	bot := &stubBot{fails: 2}
	d := newTestDispatcher(bot)
	if err := d.SendText(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if bot.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", bot.calls)
	}
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	if !ok || msg.Text != "hello" || msg.ChatID != 42 {
		t.Fatalf("unexpected outbound message: %#v", bot.sent[0])
	}
}

func TestSendTextGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	bot := &stubBot{fails: 99}
	d := newTestDispatcher(bot)
	if err := d.SendText(context.Background(), 42, "hello"); err == nil {
		t.Fatal("expected failure")
	}
	if bot.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", bot.calls)
	}
}

func TestSendTextRejectsEmpty(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(&stubBot{})
	if err := d.SendText(context.Background(), 42, "   "); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestSendTextTruncatesOversized(t *testing.T) {
	t.Parallel()

	bot := &stubBot{}
	d := newTestDispatcher(bot)
	if err := d.SendText(context.Background(), 42, strings.Repeat("a", maxMessageLength+100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := bot.sent[0].(tgbotapi.MessageConfig)
	if len(msg.Text) != maxMessageLength {
		t.Fatalf("expected %d chars, got %d", maxMessageLength, len(msg.Text))
	}
	if !strings.HasSuffix(msg.Text, "...") {
		t.Fatal("expected ellipsis suffix")
	}
}

func TestSendTextTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	bot := &stubBot{}
	d := newTestDispatcher(bot)
	if err := d.SendText(context.Background(), 42, strings.Repeat("ß", maxMessageLength+100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := bot.sent[0].(tgbotapi.MessageConfig)
	if !utf8.ValidString(msg.Text) {
		t.Fatal("truncation split a multi-byte rune")
	}
	if got := len([]rune(msg.Text)); got != maxMessageLength {
		t.Fatalf("expected %d chars, got %d", maxMessageLength, got)
	}
	if !strings.HasSuffix(msg.Text, "...") {
		t.Fatal("expected ellipsis suffix")
	}
}

func TestSendAnimation(t *testing.T) {
	t.Parallel()

	bot := &stubBot{}
	d := newTestDispatcher(bot)
	if err := d.SendAnimation(context.Background(), 42, "https://cdn.example/working.gif"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := bot.sent[0].(tgbotapi.AnimationConfig); !ok {
		t.Fatalf("expected animation config, got %#v", bot.sent[0])
	}
}
