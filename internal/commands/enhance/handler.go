package enhance

import (
	"context"
	"fmt"
	"time"

	"github.com/aifusion/aifusionbot/internal/ai"
	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const CommandName = "enhance"

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

	progress, err := c.Tg.Send(telegram.NewMessage(
		msg.Chat.ID,
		c.L("enhance.progress", nil),
		msg.MessageID,
	))
	if err != nil {
		c.Logger.WithError(err).Error("Failed to send progress message")
		return err
	}
	defer func() {
		if _, err := c.Tg.DeleteMessage(msg.Chat.ID, progress.MessageID); err != nil {
			c.Logger.WithError(err).Warn("Failed to delete progress message")
		}
	}()

	start := time.Now()
	enhanced, err := c.chatAI.EnhancePrompt(context.Background(), text, sess.ChatAPIKey())
	elapsed := time.Since(start)

	if err != nil || enhanced == "" {
		if err != nil {
			c.Logger.WithError(err).Error("Prompt enhancement failed")
			if ai.IsAuthError(err) {
				return c.ReplyMarkdown(update, c.L("common.needChatKey", nil))
			}
			return c.Reply(update, c.L("enhance.failed", map[string]any{"Error": err.Error()}))
		}
		return c.Reply(update, c.L("enhance.failed", map[string]any{"Error": "empty result"}))
	}

	sess.SetLastEnhancedPrompt(enhanced)

	return c.ReplyMarkdown(update, c.L("enhance.result", map[string]any{
		"Original": text,
		"Enhanced": enhanced,
		"Elapsed":  fmt.Sprintf("%.2f", elapsed.Seconds()),
	}))
}
