package export

import (
	"errors"

	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	exporter "github.com/aifusion/aifusionbot/internal/export"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const CommandName = "export"

type Command struct {
	*base.Command
}

func New(di *di.Container) *Command {
	cmd := &Command{}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Aliases() []string {
	return []string{"save"}
}

func (c *Command) Requirements() commands.Requirements {
	return commands.Requirements{History: true}
}

func (c *Command) Execute(update telegram.Update) error {
	msg := update.Message

	format, err := exporter.ParseFormat(msg.CommandArguments())
	if err != nil {
		return c.ReplyMarkdown(update, c.L("export.invalidFormat", nil))
	}

	processing, err := c.Tg.Send(telegram.NewMessage(
		msg.Chat.ID,
		c.L("export.processing", nil),
		msg.MessageID,
	))
	if err != nil {
		c.Logger.WithError(err).Error("Failed to send processing message")
		return err
	}
	defer func() {
		if _, err := c.Tg.DeleteMessage(msg.Chat.ID, processing.MessageID); err != nil {
			c.Logger.WithError(err).Warn("Failed to delete processing message")
		}
	}()

	history := c.Session(update).History()
	data, filename, err := exporter.Export(history, format)
	if err != nil {
		if errors.Is(err, exporter.ErrEmptyHistory) {
			return c.Reply(update, c.L("export.empty", nil))
		}
		c.Logger.WithError(err).Error("Export failed")
		return c.Reply(update, c.L("export.failed", map[string]any{"Error": err.Error()}))
	}

	caption := c.L("export.captionMarkdown", nil)
	if format == exporter.FormatPDF {
		caption = c.L("export.captionPDF", nil)
	}

	doc := telegram.NewDocumentMessage(
		msg.Chat.ID,
		telegram.FileBytes{Name: filename, Bytes: data},
		caption,
		msg.MessageID,
	)
	if _, err := c.Tg.Send(doc); err != nil {
		c.Logger.WithError(err).Error("Failed to send export document")
		return err
	}
	return nil
}
