package clear

import (
	"strings"

	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const CommandName = "clear"

const (
	actionConfirm = "confirm"
	actionCancel  = "cancel"
)

// Command clears the chat history after an inline-keyboard
// confirmation round-trip.
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

func (c *Command) Requirements() commands.Requirements {
	return commands.Requirements{History: true}
}

func (c *Command) Execute(update telegram.Update) error {
	msg := update.Message

	keyboard := telegram.NewInlineKeyboardMarkup(
		telegram.NewInlineKeyboardRow(
			telegram.NewInlineKeyboardButtonData(
				c.L("clear.confirmButton", nil),
				CommandName+" "+actionConfirm,
			),
			telegram.NewInlineKeyboardButtonData(
				c.L("clear.cancelButton", nil),
				CommandName+" "+actionCancel,
			),
		),
	)

	confirm := telegram.NewMessage(msg.Chat.ID, c.L("clear.confirm", nil), msg.MessageID)
	confirm.ReplyMarkup = &keyboard
	if _, err := c.Tg.Send(confirm); err != nil {
		c.Logger.WithError(err).Error("Failed to send confirmation message")
		return err
	}
	return nil
}

// HandleCallback resolves the confirmation buttons. Only the confirm
// action mutates the session.
func (c *Command) HandleCallback(update telegram.Update) error {
	query := update.CallbackQuery
	if query == nil || query.Message == nil {
		return nil
	}

	parts := strings.Split(query.Data, " ")
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch action {
	case actionConfirm:
		c.Sessions.GetOrCreate(query.From.ID).ClearHistory()
		edit := telegram.NewEditMessageText(chatID, messageID, c.L("clear.done", nil))
		_, err := c.Tg.Request(edit)
		return err
	case actionCancel:
		edit := telegram.NewEditMessageText(chatID, messageID, c.L("clear.cancelled", nil))
		_, err := c.Tg.Request(edit)
		return err
	default:
		return nil
	}
}
