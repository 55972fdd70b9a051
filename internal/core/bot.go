package core

import (
	"context"
	"slices"
	"strings"

	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/chat"
	"github.com/aifusion/aifusionbot/internal/commands/describe"
	"github.com/aifusion/aifusionbot/internal/commands/keys"
	"github.com/aifusion/aifusionbot/internal/commands/transcribe"
	"github.com/aifusion/aifusionbot/internal/config"
	"github.com/aifusion/aifusionbot/internal/logger"
	"github.com/aifusion/aifusionbot/internal/queue"
	"github.com/aifusion/aifusionbot/internal/service"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

// CallbackHandler is implemented by commands that own inline keyboard
// callbacks. Callback data starts with the command name.
type CallbackHandler interface {
	HandleCallback(update telegram.Update) error
}

// AudioHandler is implemented by the transcription command to receive
// voice and audio messages directly, without a slash command.
type AudioHandler interface {
	HandleAudio(update telegram.Update) error
}

// DocumentHandler is implemented by the env upload command to receive
// .env document messages.
type DocumentHandler interface {
	HandleDocument(update telegram.Update) error
}

type Bot struct {
	commands  map[string]commands.Command
	logger    logger.Logger
	queue     *queue.Queue
	tg        telegram.Client
	cfg       *config.Config
	localizer *service.Localizer
}

func NewBot(
	tg telegram.Client,
	queue *queue.Queue,
	logger logger.Logger,
	cfg *config.Config,
	localizer *service.Localizer,
) (*Bot, error) {
	return &Bot{
		commands:  make(map[string]commands.Command),
		tg:        tg,
		queue:     queue,
		cfg:       cfg,
		logger:    logger,
		localizer: localizer,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	u := b.tg.NewUpdate(0, 60, 0)

	go b.queue.Start(ctx, b.commands)

	updates := b.tg.GetUpdatesChan(u)

	b.logger.Info("Bot started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			b.dispatch(update)
		}
	}
}

func (b *Bot) dispatch(update telegram.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update)
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}

	if !b.cfg.Telegram().IsAllowed(msg.From.ID, msg.Chat.ID) {
		b.logger.WithFields(logger.Fields{
			"user_id":  msg.From.ID,
			"username": msg.From.UserName,
			"chat_id":  msg.Chat.ID,
		}).Warn("Unauthorized access attempt")
		return
	}

	switch {
	case msg.Voice != nil || msg.Audio != nil:
		if h, ok := b.commands[transcribe.CommandName].(AudioHandler); ok {
			b.runHandler(update, h.HandleAudio)
		}
		return
	case msg.Document != nil && strings.HasSuffix(strings.ToLower(msg.Document.FileName), ".env"):
		if h, ok := b.commands[keys.UploadEnvCommandName].(DocumentHandler); ok {
			b.runHandler(update, h.HandleDocument)
		}
		return
	case len(msg.Photo) > 0 && !msg.IsCommand():
		if cmd, ok := b.commands[describe.CommandName]; ok {
			b.runHandler(update, cmd.Handle)
		}
		return
	}

	if msg.IsCommand() {
		b.handleCommand(update)
		return
	}

	// plain text goes to the chat command
	if strings.TrimSpace(msg.Text) != "" {
		if cmd, ok := b.commands[chat.CommandName]; ok {
			b.runHandler(update, cmd.Handle)
		}
	}
}

func (b *Bot) handleCallback(update telegram.Update) {
	callbackQuery := update.CallbackQuery
	params := strings.Split(callbackQuery.Data, " ")
	commandName := params[0]

	if cmd, exists := b.commands[commandName]; exists {
		if handler, ok := cmd.(CallbackHandler); ok {
			go func() {
				if err := handler.HandleCallback(update); err != nil {
					b.logger.WithError(err).Error("Failed to handle callback")
					b.sendErrorMessage(callbackQuery.Message.Chat.ID, callbackQuery.Message.MessageID)
				}
			}()
		}
	}

	callback := telegram.NewCallback(callbackQuery.ID, "")
	if _, err := b.tg.Request(callback); err != nil {
		b.logger.WithError(err).Error("Failed to answer callback query")
	}
}

func (b *Bot) handleCommand(update telegram.Update) {
	msg := update.Message

	parts := strings.Fields(msg.Text)
	if len(parts) == 0 {
		return
	}
	cmdParts := strings.Split(strings.TrimPrefix(parts[0], "/"), "@")
	command := cmdParts[0]
	if len(cmdParts) > 1 && !strings.EqualFold(cmdParts[1], b.tg.Self().UserName) {
		return // skip commands addressed to other bots
	}

	var cmd commands.Command
	for name, c := range b.commands {
		if name == command || slices.Contains(c.Aliases(), command) {
			cmd = c
			break
		}
	}
	if cmd == nil {
		return
	}

	b.logger.WithFields(logger.Fields{
		"command":  command,
		"user_id":  msg.From.ID,
		"username": msg.From.UserName,
		"args":     msg.CommandArguments(),
	}).Info("Handling command")

	b.runHandler(update, cmd.Handle)
}

func (b *Bot) runHandler(update telegram.Update, handler func(telegram.Update) error) {
	msg := update.Message
	go func() {
		if err := handler(update); err != nil {
			b.logger.WithError(err).Error("Failed to handle update")
			b.sendErrorMessage(msg.Chat.ID, msg.MessageID)
		}
	}()
}

func (b *Bot) RegisterCommand(cmd commands.Command) {
	if cmd == nil {
		b.logger.Error("Attempting to register nil command")
		return
	}

	name := cmd.Name()
	if name == "" {
		b.logger.Error("Attempting to register command with empty name")
		return
	}

	b.logger.WithFields(logger.Fields{
		"command": name,
	}).Debug("Registering command")

	b.commands[name] = cmd
}

func (b *Bot) GetCommands() map[string]commands.Command {
	return b.commands
}

func (b *Bot) sendErrorMessage(chatID int64, messageID int) {
	errorMsg := telegram.NewMessage(
		chatID,
		b.localizer.Localize("common.genericError", nil),
		messageID,
	)
	if _, err := b.tg.Send(errorMsg); err != nil {
		b.logger.WithError(err).Error("Failed to send error message")
	}
}
