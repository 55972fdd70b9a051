package base

import (
	"strings"

	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/config"
	"github.com/aifusion/aifusionbot/internal/logger"
	"github.com/aifusion/aifusionbot/internal/queue"
	"github.com/aifusion/aifusionbot/internal/service"
	"github.com/aifusion/aifusionbot/internal/session"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

type Command struct {
	command   commands.Command
	Tg        telegram.Client
	Logger    logger.Logger
	Cfg       *config.Config
	Queue     *queue.Queue
	Sessions  *session.Store
	Localizer *service.Localizer
}

func NewCommand(cmd commands.Command, di *di.Container) *Command {
	return &Command{
		command:   cmd,
		Tg:        di.BotClient,
		Logger:    di.Logger,
		Cfg:       di.Cfg,
		Queue:     di.Queue,
		Sessions:  di.Sessions,
		Localizer: di.Localizer,
	}
}

func (c *Command) Name() string {
	return ""
}

func (c *Command) Aliases() []string {
	return []string{}
}

func (c *Command) Requirements() commands.Requirements {
	return commands.Requirements{}
}

// Handle runs the declared precondition checks, then either queues the
// command or executes it inline.
func (c *Command) Handle(update telegram.Update) error {
	if !c.CheckRequirements(update) {
		return nil
	}

	cfg := c.Cfg.GetCommandConfig(c.command.Name())
	if cfg.Queue.Enabled {
		queueCfg := c.command.GetQueueConfig()
		return c.Queue.Add(c.command, update, queueCfg.MaxRetries, queueCfg.RetryDelay)
	}
	return c.command.Execute(update)
}

// CheckRequirements enforces the command's precondition set. A failed
// check replies with the matching instruction and reports false; the
// handler body must not run.
func (c *Command) CheckRequirements(update telegram.Update) bool {
	reqs := c.command.Requirements()
	msg := update.Message
	if msg == nil {
		return false
	}

	sess := c.Session(update)

	if reqs.ChatKey && sess.ChatAPIKey() == "" {
		c.ReplyMarkdown(update, c.L("common.needChatKey", nil))
		return false
	}
	if reqs.ImageKey && sess.ImageAPIKey() == "" {
		c.ReplyMarkdown(update, c.L("common.needImageKey", nil))
		return false
	}
	if reqs.Args && Arguments(msg) == "" {
		c.ReplyMarkdown(update, c.L(c.command.Name()+".usage", nil))
		return false
	}
	if reqs.History && sess.HistoryLen() == 0 {
		c.Reply(update, c.L(c.command.Name()+".empty", nil))
		return false
	}

	return true
}

func (c *Command) GetQueueConfig() commands.QueueConfig {
	cfg := c.Cfg.GetCommandConfig(c.command.Name())
	return commands.QueueConfig{
		MaxRetries: cfg.Queue.MaxRetries,
		RetryDelay: cfg.Queue.RetryDelay,
		Timeout:    cfg.Queue.Timeout,
		Throttle: commands.ThrottleConfig{
			Concurrency: cfg.Queue.Throttle.Concurrency,
			Period:      cfg.Queue.Throttle.Period,
			Requests:    cfg.Queue.Throttle.Requests,
		},
	}
}

func (c *Command) Execute(update telegram.Update) error {
	return nil
}

// Arguments returns the command arguments, or the full text for plain
// messages routed to a command without a slash prefix.
func Arguments(msg *telegram.MessageOriginal) string {
	if msg.IsCommand() {
		return strings.TrimSpace(msg.CommandArguments())
	}
	return strings.TrimSpace(msg.Text)
}

func (c *Command) L(messageID string, data map[string]any) string {
	return c.Localizer.Localize(messageID, data)
}

// Session resolves the per-user session, creating it lazily.
func (c *Command) Session(update telegram.Update) *session.Session {
	return c.Sessions.GetOrCreate(update.Message.From.ID)
}

func (c *Command) Reply(update telegram.Update, text string) error {
	msg := telegram.NewMessage(update.Message.Chat.ID, text, update.Message.MessageID)
	if _, err := c.Tg.Send(msg); err != nil {
		c.Logger.WithError(err).Error("Failed to send message")
		return err
	}
	return nil
}

func (c *Command) ReplyMarkdown(update telegram.Update, text string) error {
	msg := telegram.NewMessage(update.Message.Chat.ID, text, update.Message.MessageID)
	msg.ParseMode = telegram.ModeMarkdown
	if _, err := c.Tg.Send(msg); err != nil {
		c.Logger.WithError(err).Error("Failed to send message")
		return err
	}
	return nil
}
