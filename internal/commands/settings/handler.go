package settings

import (
	"strconv"

	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const (
	CommandName            = "settings"
	TemperatureCommandName = "temperature"
	TokensCommandName      = "tokens"
)

// Command shows the current session settings.
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

func (c *Command) Execute(update telegram.Update) error {
	sess := c.Session(update)

	keyStatus := func(set bool) string {
		if set {
			return c.L("settings.keySet", nil)
		}
		return c.L("settings.keyNotSet", nil)
	}

	return c.ReplyMarkdown(update, c.L("settings.current", map[string]any{
		"Model":          "Groq",
		"Temperature":    strconv.FormatFloat(sess.Temperature(), 'g', -1, 64),
		"MaxTokens":      strconv.Itoa(sess.MaxTokens()),
		"ChatKeyStatus":  keyStatus(sess.ChatAPIKey() != ""),
		"ImageKeyStatus": keyStatus(sess.ImageAPIKey() != ""),
	}))
}

// TemperatureCommand sets the sampling temperature. Out-of-domain
// values are rejected without touching the session.
type TemperatureCommand struct {
	*base.Command
}

func NewTemperature(di *di.Container) *TemperatureCommand {
	cmd := &TemperatureCommand{}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *TemperatureCommand) Name() string {
	return TemperatureCommandName
}

func (c *TemperatureCommand) Requirements() commands.Requirements {
	return commands.Requirements{Args: true}
}

func (c *TemperatureCommand) Execute(update telegram.Update) error {
	arg := base.Arguments(update.Message)

	value, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return c.Reply(update, c.L("temperature.invalid", nil))
	}

	if err := c.Session(update).SetTemperature(value); err != nil {
		return c.Reply(update, c.L("temperature.invalid", nil))
	}

	return c.Reply(update, c.L("temperature.set", map[string]any{
		"Value": strconv.FormatFloat(value, 'g', -1, 64),
	}))
}

// TokensCommand sets the response token limit.
type TokensCommand struct {
	*base.Command
}

func NewTokens(di *di.Container) *TokensCommand {
	cmd := &TokensCommand{}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *TokensCommand) Name() string {
	return TokensCommandName
}

func (c *TokensCommand) Requirements() commands.Requirements {
	return commands.Requirements{Args: true}
}

func (c *TokensCommand) Execute(update telegram.Update) error {
	arg := base.Arguments(update.Message)

	value, err := strconv.Atoi(arg)
	if err != nil {
		return c.Reply(update, c.L("tokens.invalid", nil))
	}

	if err := c.Session(update).SetMaxTokens(value); err != nil {
		return c.Reply(update, c.L("tokens.invalid", nil))
	}

	return c.Reply(update, c.L("tokens.set", map[string]any{
		"Value": strconv.Itoa(value),
	}))
}
