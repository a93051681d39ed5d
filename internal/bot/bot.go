// Package bot runs the Telegram long-poll loop and fans inbound updates out
// to per-chat workers so each conversation is processed strictly in order
// while different chats proceed in parallel.
package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mintforgehq/mintforge/internal/config"
)

const (
	defaultPollTimeout = 30
	mailboxDepth       = 16
	mailboxIdleTTL     = 5 * time.Minute
)

// Handler consumes one inbound message. It must not panic; the wizard
// controller already contains its own failures.
type Handler interface {
	Handle(ctx context.Context, msg *tgbotapi.Message)
}

// UpdateSource is the slice of *tgbotapi.BotAPI the poller needs.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller drives the update loop. One worker goroutine exists per active
// chat; workers that sit idle are reaped.
type Poller struct {
	api         UpdateSource
	handler     Handler
	logger      *slog.Logger
	pollTimeout int
	idleTTL     time.Duration

	mu        sync.Mutex
	mailboxes map[int64]chan *tgbotapi.Message

	wg      sync.WaitGroup
	cancel  context.CancelFunc
	updates tgbotapi.UpdatesChannel
}

// NewPoller wires a poller around an established bot API client.
func NewPoller(log *slog.Logger, api UpdateSource, handler Handler, cfg config.TelegramConfig) *Poller {
	if log == nil {
		log = slog.Default()
	}
	timeout := cfg.PollTimeoutSeconds
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	return &Poller{
		api:         api,
		handler:     handler,
		logger:      log.With(slog.String("service", "bot")),
		pollTimeout: timeout,
		idleTTL:     mailboxIdleTTL,
		mailboxes:   make(map[int64]chan *tgbotapi.Message),
	}
}

func (p *Poller) activeWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.mailboxes)
}

// Start begins long-polling. It returns immediately; the receive loop and
// the workers run until Stop.
func (p *Poller) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = p.pollTimeout
	p.updates = p.api.GetUpdatesChan(updateConfig)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	p.wg.Add(1)
	go p.receive(runCtx)
	p.logger.Info("polling started", slog.Int("timeout_seconds", p.pollTimeout))
	return nil
}

func (p *Poller) receive(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-p.updates:
			if !ok {
				p.logger.Info("updates channel closed")
				return
			}
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}
			p.dispatch(ctx, update.Message)
		}
	}
}

// dispatch routes a message to its chat's mailbox, creating the worker on
// first use. The send happens under the lock so a worker deciding to exit
// never races a message into a dead mailbox.
func (p *Poller) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	p.mu.Lock()
	defer p.mu.Unlock()
	box, ok := p.mailboxes[chatID]
	if !ok {
		box = make(chan *tgbotapi.Message, mailboxDepth)
		p.mailboxes[chatID] = box
		p.wg.Add(1)
		go p.work(ctx, chatID, box)
	}
	select {
	case box <- msg:
	default:
		// A chat flooding faster than its worker drains loses this newest
		// update; blocking here would stall every other chat.
		p.logger.Warn("mailbox full, dropping update", slog.Int64("chat_id", chatID))
	}
}

func (p *Poller) work(ctx context.Context, chatID int64, box chan *tgbotapi.Message) {
	defer p.wg.Done()
	idle := time.NewTimer(p.idleTTL)
	defer idle.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-box:
			p.handler.Handle(ctx, msg)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(p.idleTTL)
		case <-idle.C:
			p.mu.Lock()
			if len(box) == 0 {
				delete(p.mailboxes, chatID)
				p.mu.Unlock()
				return
			}
			p.mu.Unlock()
			idle.Reset(p.idleTTL)
		}
	}
}

// Stop halts polling and waits for in-flight handlers, up to the deadline
// on ctx.
func (p *Poller) Stop(ctx context.Context) error {
	p.logger.Info("polling stopping")
	p.api.StopReceivingUpdates()
	if p.cancel != nil {
		p.cancel()
	}
	// Drain remaining updates so the library's polling goroutine can finish
	// writing and exit; otherwise the in-flight long-poll holds the
	// getUpdates session open and the next start with the same token gets
	// "Conflict: terminated by other getUpdates request".
	if p.updates != nil {
		for range p.updates {
		}
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
