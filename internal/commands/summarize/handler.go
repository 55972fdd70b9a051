package summarize

import (
	"context"

	"github.com/aifusion/aifusionbot/internal/ai"
	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/service/video"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const CommandName = "summarize"

const summarySystemPrompt = "You are a helpful assistant that summarizes video transcripts and articles. " +
	"Produce a concise summary covering the main points and key takeaways."

type Command struct {
	*base.Command
	chatAI ai.ChatClient
	videos *video.Service
}

func New(di *di.Container) *Command {
	cmd := &Command{
		chatAI: di.ChatAI,
		videos: di.VideoService,
	}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Aliases() []string {
	return []string{"video"}
}

func (c *Command) Requirements() commands.Requirements {
	return commands.Requirements{ChatKey: true, Args: true}
}

func (c *Command) Execute(update telegram.Update) error {
	msg := update.Message
	url := base.Arguments(msg)
	sess := c.Session(update)

	progress, err := c.Tg.Send(telegram.NewMessage(
		msg.Chat.ID,
		c.L("summarize.processing", nil),
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

	ctx := context.Background()

	content, err := c.videos.FetchContent(ctx, url)
	if err != nil {
		c.Logger.WithError(err).WithField("url", url).Error("Failed to fetch content")
		return c.Reply(update, c.L("summarize.noTranscript", nil))
	}
	if content.Text == "" {
		return c.Reply(update, c.L("summarize.noTranscript", nil))
	}

	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: summarySystemPrompt},
		{Role: ai.RoleUser, Content: "Summarize the following:\n\nTitle: " + content.Title + "\n\n" + content.Text},
	}

	summary, err := c.chatAI.Complete(ctx, messages, sess.Temperature(), sess.MaxTokens(), sess.ChatAPIKey())
	if err != nil {
		c.Logger.WithError(err).Error("Summarization failed")
		if ai.IsAuthError(err) {
			return c.ReplyMarkdown(update, c.L("common.needChatKey", nil))
		}
		return c.Reply(update, c.L("summarize.failed", map[string]any{"Error": err.Error()}))
	}
	if summary == "" {
		return c.Reply(update, c.L("summarize.noTranscript", nil))
	}

	return c.Reply(update, c.L("summarize.result", map[string]any{"Summary": summary}))
}
