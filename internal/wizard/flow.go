package wizard

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mintforgehq/mintforge/internal/chain"
	"github.com/mintforgehq/mintforge/internal/config"
	"github.com/mintforgehq/mintforge/internal/session"
	"github.com/mintforgehq/mintforge/internal/uploader"
)

const (
	maxTitleLength  = 32
	maxSymbolLength = 10
	minRecipientLen = 32

	skipToken   = "skip"
	helpCommand = "help"
	startCmdAlt = "start"
)

// Importer resolves metadata for an existing on-chain asset.
type Importer interface {
	Import(ctx context.Context, mint string) (chain.Metadata, error)
}

// AssetUploader republishes a transport file to the pinning store.
type AssetUploader interface {
	Upload(ctx context.Context, fileID string) (uploader.Upload, error)
}

// Authenticator resolves avatar credentials to an account id.
type Authenticator interface {
	Login(ctx context.Context, username, secret string) (string, error)
}

// Orchestrator executes a confirmed mint and returns the user-facing outcome.
type Orchestrator interface {
	Execute(ctx context.Context, state session.State) string
}

// Replier sends wizard replies. Errors are already logged by the dispatcher;
// the flow ignores them and keeps going.
type Replier interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendAnimation(ctx context.Context, chatID int64, url string) error
	SendTyping(ctx context.Context, chatID int64)
}

// Controller is the flow state machine. One Handle call processes one
// inbound update; the bot poller guarantees per-chat serialization, and the
// session store guarantees atomic state access on top of that.
type Controller struct {
	store        *session.Store
	importer     Importer
	uploads      AssetUploader
	auth         Authenticator
	orchestrator Orchestrator
	replies      Replier
	cfg          config.WizardConfig
	logger       *slog.Logger
}

// NewController wires the flow controller.
func NewController(
	log *slog.Logger,
	store *session.Store,
	importer Importer,
	uploads AssetUploader,
	auth Authenticator,
	orchestrator Orchestrator,
	replies Replier,
	cfg config.WizardConfig,
) *Controller {
	if log == nil {
		log = slog.Default()
	}
	if cfg.StartCommand == "" {
		cfg.StartCommand = config.DefaultStartCommand
	}
	if cfg.CancelCommand == "" {
		cfg.CancelCommand = config.DefaultCancelCommand
	}
	if cfg.ConfirmToken == "" {
		cfg.ConfirmToken = config.DefaultConfirmToken
	}
	if cfg.PlaceholderAsset == "" {
		cfg.PlaceholderAsset = config.DefaultPlaceholderAsset
	}
	return &Controller{
		store:        store,
		importer:     importer,
		uploads:      uploads,
		auth:         auth,
		orchestrator: orchestrator,
		replies:      replies,
		cfg:          cfg,
		logger:       log.With(slog.String("service", "wizard")),
	}
}

// Handle processes one inbound update. It never panics out: every failure
// becomes a reply so one bad update cannot take down the worker serving
// other chats.
func (c *Controller) Handle(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	key := strconv.FormatInt(chatID, 10)

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("handler panic", slog.String("session", key), slog.Any("panic", r))
			c.reply(ctx, chatID, "Something went wrong. Send /"+c.cfg.StartCommand+" to start over.")
		}
	}()

	input := Classify(msg)

	if input.Kind == InputCommand {
		c.handleCommand(ctx, chatID, key, msg, input)
		return
	}

	state, ok := c.store.Get(key)
	if !ok {
		// Idle input: static help, no state mutation.
		c.reply(ctx, chatID, helpText(c.cfg.StartCommand, c.cfg.CancelCommand))
		return
	}

	c.logger.Debug("update",
		slog.String("session", key),
		slog.String("step", state.Step.String()),
		slog.Int("kind", int(input.Kind)))

	switch state.Step {
	case session.StepLogin:
		c.handleLogin(ctx, chatID, key, input)
	case session.StepLoginSecret:
		c.handleLoginSecret(ctx, chatID, key, state, input)
	case session.StepAsset:
		c.handleAsset(ctx, chatID, key, input)
	case session.StepTitle:
		c.handleTitle(ctx, chatID, key, input)
	case session.StepSymbol:
		c.handleSymbol(ctx, chatID, key, input)
	case session.StepDescription:
		c.handleDescription(ctx, chatID, key, input)
	case session.StepRecipient:
		c.handleRecipient(ctx, chatID, key, input)
	case session.StepConfirm:
		c.handleConfirm(ctx, chatID, key, input)
	default:
		// Unreachable with the closed enum; treated as a lost session.
		c.store.Cancel(key)
		c.reply(ctx, chatID, helpText(c.cfg.StartCommand, c.cfg.CancelCommand))
	}
}

func (c *Controller) handleCommand(ctx context.Context, chatID int64, key string, msg *tgbotapi.Message, input Input) {
	switch input.Text {
	case c.cfg.StartCommand:
		userID := ""
		if msg.From != nil {
			userID = strconv.FormatInt(msg.From.ID, 10)
		}
		c.store.Begin(key, userID)
		c.logger.Info("wizard started", slog.String("session", key), slog.String("user", userID))
		c.reply(ctx, chatID, replyLoginPrompt)
	case c.cfg.CancelCommand:
		if c.store.Cancel(key) {
			c.logger.Info("wizard cancelled", slog.String("session", key))
			c.reply(ctx, chatID, "Cancelled. Nothing was minted.")
			return
		}
		c.reply(ctx, chatID, replyNoSession)
	case helpCommand, startCmdAlt:
		c.reply(ctx, chatID, helpText(c.cfg.StartCommand, c.cfg.CancelCommand))
	default:
		c.reply(ctx, chatID, helpText(c.cfg.StartCommand, c.cfg.CancelCommand))
	}
}

func (c *Controller) handleLogin(ctx context.Context, chatID int64, key string, input Input) {
	if input.Kind != InputText {
		c.reply(ctx, chatID, replyLoginPrompt)
		return
	}
	if isSkip(input.Text) {
		c.store.Update(key, func(st *session.State) {
			st.IdentityUsername = ""
			st.IdentityAccount = ""
			st.Step = session.StepAsset
		})
		c.reply(ctx, chatID, replyAssetPrompt)
		return
	}
	c.store.Update(key, func(st *session.State) {
		st.IdentityUsername = input.Text
		st.Step = session.StepLoginSecret
	})
	c.reply(ctx, chatID, replySecretPrompt)
}

func (c *Controller) handleLoginSecret(ctx context.Context, chatID int64, key string, state session.State, input Input) {
	if input.Kind != InputText {
		c.reply(ctx, chatID, replySecretPrompt)
		return
	}
	// The secret lives only in this call frame. Authenticate outside any
	// store lock.
	account, err := c.auth.Login(ctx, state.IdentityUsername, input.Text)
	if err != nil {
		c.logger.Info("login failed", slog.String("session", key), slog.Any("error", err))
		c.store.Update(key, func(st *session.State) {
			st.IdentityUsername = ""
			st.Step = session.StepLogin
		})
		c.reply(ctx, chatID, replyLoginFailed)
		return
	}
	c.store.Update(key, func(st *session.State) {
		st.IdentityAccount = account
		st.Step = session.StepAsset
	})
	c.reply(ctx, chatID, replyAssetPrompt)
}

func (c *Controller) handleAsset(ctx context.Context, chatID int64, key string, input Input) {
	switch input.Kind {
	case InputText:
		if isSkip(input.Text) {
			c.store.Update(key, func(st *session.State) {
				st.AssetURL = c.cfg.PlaceholderAsset
				st.AssetContentType = "image/png"
				st.Step = session.StepTitle
			})
			c.reply(ctx, chatID, replyTitlePrompt)
			return
		}
		if mint, ok := ExtractMintReference(input.Text); ok {
			c.importAsset(ctx, chatID, key, mint)
			return
		}
		c.reply(ctx, chatID, replyAssetInvalid)
	case InputPhoto:
		c.uploadAsset(ctx, chatID, key, input.FileID)
	case InputAnimation, InputDocument:
		if !isImageAttachment(input) {
			c.reply(ctx, chatID, replyAssetInvalid)
			return
		}
		c.uploadAsset(ctx, chatID, key, input.FileID)
	default:
		c.reply(ctx, chatID, replyAssetInvalid)
	}
}

// importAsset runs the import path: resolve metadata for an existing asset
// and skip the manual title/symbol/description steps, which the import
// already supplies.
func (c *Controller) importAsset(ctx context.Context, chatID int64, key, mint string) {
	c.replies.SendTyping(ctx, chatID)
	meta, err := c.importer.Import(ctx, mint)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) {
			c.reply(ctx, chatID, replyImportNotFound)
			return
		}
		c.logger.Warn("import failed", slog.String("session", key), slog.String("mint", mint), slog.Any("error", err))
		c.reply(ctx, chatID, replyImportFailed)
		return
	}

	title := truncateRunes(meta.Name, maxTitleLength)
	symbol := strings.ToUpper(truncateRunes(meta.Symbol, maxSymbolLength))
	assetURL := meta.ImageURL
	if assetURL == "" {
		// Keep the asset pointer non-empty past this step even when the
		// source metadata has no image.
		assetURL = c.cfg.PlaceholderAsset
	}
	c.store.Update(key, func(st *session.State) {
		st.Title = title
		st.Symbol = symbol
		st.Description = meta.Description
		st.AssetURL = assetURL
		st.AssetContentType = "image/png"
		st.MetadataURI = meta.MetadataURI
		st.Step = session.StepRecipient
	})
	c.reply(ctx, chatID, importSummary(title, symbol))
}

func (c *Controller) uploadAsset(ctx context.Context, chatID int64, key, fileID string) {
	c.replies.SendTyping(ctx, chatID)
	result, err := c.uploads.Upload(ctx, fileID)
	if err != nil {
		c.logger.Warn("upload failed", slog.String("session", key), slog.Any("error", err))
		c.reply(ctx, chatID, replyAssetUploadFailed)
		return
	}
	c.store.Update(key, func(st *session.State) {
		st.AssetURL = result.URL
		st.AssetContentType = result.ContentType
		st.Step = session.StepTitle
	})
	c.reply(ctx, chatID, replyTitlePrompt)
}

func (c *Controller) handleTitle(ctx context.Context, chatID int64, key string, input Input) {
	if input.Kind != InputText || input.Text == "" {
		c.reply(ctx, chatID, replyTitlePrompt)
		return
	}
	c.store.Update(key, func(st *session.State) {
		st.Title = truncateRunes(input.Text, maxTitleLength)
		st.Step = session.StepSymbol
	})
	c.reply(ctx, chatID, replySymbolPrompt)
}

func (c *Controller) handleSymbol(ctx context.Context, chatID int64, key string, input Input) {
	if input.Kind != InputText || input.Text == "" {
		c.reply(ctx, chatID, replySymbolPrompt)
		return
	}
	c.store.Update(key, func(st *session.State) {
		st.Symbol = strings.ToUpper(truncateRunes(input.Text, maxSymbolLength))
		st.Step = session.StepDescription
	})
	c.reply(ctx, chatID, replyDescriptionPrompt)
}

func (c *Controller) handleDescription(ctx context.Context, chatID int64, key string, input Input) {
	if input.Kind != InputText {
		c.reply(ctx, chatID, replyDescriptionPrompt)
		return
	}
	description := input.Text
	if isSkip(description) {
		description = ""
	}
	c.store.Update(key, func(st *session.State) {
		st.Description = description
		st.Step = session.StepRecipient
	})
	c.reply(ctx, chatID, replyRecipientPrompt)
}

func (c *Controller) handleRecipient(ctx context.Context, chatID int64, key string, input Input) {
	if input.Kind != InputText {
		c.reply(ctx, chatID, replyRecipientPrompt)
		return
	}
	recipient := strings.TrimSpace(input.Text)
	if len([]rune(recipient)) < minRecipientLen {
		c.reply(ctx, chatID, replyRecipientTooShort)
		return
	}
	state, _ := c.store.Update(key, func(st *session.State) {
		st.RecipientAddress = recipient
		st.Step = session.StepConfirm
	})
	c.reply(ctx, chatID, confirmPrompt(state.Title, state.Symbol, recipient, c.cfg.ConfirmToken))
}

func (c *Controller) handleConfirm(ctx context.Context, chatID int64, key string, input Input) {
	if input.Kind != InputText || strings.TrimSpace(input.Text) != c.cfg.ConfirmToken {
		state, ok := c.store.Get(key)
		if !ok {
			c.reply(ctx, chatID, replyNoSession)
			return
		}
		c.reply(ctx, chatID, confirmPrompt(state.Title, state.Symbol, state.RecipientAddress, c.cfg.ConfirmToken))
		return
	}
	// Take is the idempotency gate: at most one confirm wins the session,
	// so duplicate delivery cannot trigger a second mint. The session is
	// gone regardless of the outcome; a failed mint requires starting over.
	state, ok := c.store.Take(key)
	if !ok {
		c.reply(ctx, chatID, replyNoSession)
		return
	}
	if c.cfg.WorkingAnimation != "" {
		_ = c.replies.SendAnimation(ctx, chatID, c.cfg.WorkingAnimation)
	} else {
		c.reply(ctx, chatID, replyWorking)
	}
	outcome := c.orchestrator.Execute(ctx, state)
	c.reply(ctx, chatID, outcome)
}

func (c *Controller) reply(ctx context.Context, chatID int64, text string) {
	if err := c.replies.SendText(ctx, chatID, text); err != nil {
		c.logger.Warn("reply failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}

func isSkip(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), skipToken)
}

func truncateRunes(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
