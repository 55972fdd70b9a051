package imagine

import (
	"context"
	"fmt"

	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const CommandName = "imagine"

type Command struct {
	*base.Command
	workflow *Workflow
}

func New(di *di.Container) *Command {
	cmd := &Command{workflow: NewWorkflow(di.ChatAI, di.ImageAI)}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Requirements() commands.Requirements {
	return commands.Requirements{ChatKey: true, ImageKey: true, Args: true}
}

func (c *Command) Execute(update telegram.Update) error {
	msg := update.Message
	prompt := base.Arguments(msg)
	sess := c.Session(update)

	progress, err := c.Tg.Send(telegram.NewMessage(
		msg.Chat.ID,
		c.L("imagine.progressEnhancing", nil),
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

	result := c.workflow.Run(
		context.Background(),
		prompt,
		sess.ChatAPIKey(),
		sess.ImageAPIKey(),
		func(state State) {
			if state == StateImageRequested {
				edit := telegram.NewEditMessageText(
					msg.Chat.ID,
					progress.MessageID,
					c.L("imagine.progressGenerating", nil),
				)
				if _, err := c.Tg.Request(edit); err != nil {
					c.Logger.WithError(err).Warn("Failed to update progress message")
				}
			}
		},
	)

	if result.State == StateFailed {
		if result.Err != nil {
			c.Logger.WithError(result.Err).Error("Image generation failed")
		}
		if result.FailedAt == FailStageEnhance {
			return c.Reply(update, c.L("imagine.enhancementFailed", nil))
		}
		return c.Reply(update, c.L("imagine.failed", map[string]any{"Error": result.FailReason}))
	}

	sess.SetLastEnhancedPrompt(result.EnhancedPrompt)

	caption := c.L("imagine.caption", map[string]any{
		"Original": prompt,
		"Enhanced": result.EnhancedPrompt,
		"Elapsed":  fmt.Sprintf("%.2f", result.Elapsed.Seconds()),
	})

	photo := telegram.NewPhotoMessage(
		msg.Chat.ID,
		telegram.FileBytes{Name: "generated.png", Bytes: result.Image},
		caption,
		msg.MessageID,
	)
	if _, err := c.Tg.Send(photo); err != nil {
		c.Logger.WithError(err).Error("Failed to send generated image")
		return err
	}
	return nil
}
