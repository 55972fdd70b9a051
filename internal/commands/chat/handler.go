package chat

import (
	"context"

	"github.com/aifusion/aifusionbot/internal/ai"
	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/session"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const CommandName = "chat"

const systemPrompt = "You are a helpful assistant."

type Command struct {
	*base.Command
	chatAI ai.ChatClient
}

func New(di *di.Container) *Command {
	cmd := &Command{chatAI: di.ChatAI}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Requirements() commands.Requirements {
	return commands.Requirements{ChatKey: true, Args: true}
}

func (c *Command) Execute(update telegram.Update) error {
	msg := update.Message
	text := base.Arguments(msg)
	sess := c.Session(update)

	if err := c.Tg.SendChatAction(msg.Chat.ID, telegram.ActionTyping); err != nil {
		c.Logger.WithError(err).Warn("Failed to send chat action")
	}

	response, err := c.chatAI.Complete(
		context.Background(),
		[]ai.Message{
			{Role: ai.RoleSystem, Content: systemPrompt},
			{Role: ai.RoleUser, Content: text},
		},
		sess.Temperature(),
		sess.MaxTokens(),
		sess.ChatAPIKey(),
	)
	if err != nil {
		c.Logger.WithError(err).Error("Chat completion failed")
		if ai.IsAuthError(err) {
			return c.ReplyMarkdown(update, c.L("common.needChatKey", nil))
		}
		return c.Reply(update, c.L("chat.error", map[string]any{"Error": err.Error()}))
	}

	sess.AppendHistory(session.RoleUser, text)
	sess.AppendHistory(session.RoleAssistant, response)

	return c.Reply(update, response)
}
