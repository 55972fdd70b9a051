package describe

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aifusion/aifusionbot/internal/ai"
	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const CommandName = "describe"

type Command struct {
	*base.Command
	chatAI     ai.ChatClient
	httpClient *http.Client
}

func New(di *di.Container) *Command {
	cmd := &Command{
		chatAI:     di.ChatAI,
		httpClient: di.HttpClient,
	}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Requirements() commands.Requirements {
	return commands.Requirements{ChatKey: true}
}

func (c *Command) Execute(update telegram.Update) error {
	sess := c.Session(update)

	imageRef, err := c.resolveImageSource(update)
	if err != nil {
		c.Logger.WithError(err).Error("Failed to resolve image source")
		return c.Reply(update, c.L("describe.failed", map[string]any{"Error": err.Error()}))
	}
	if imageRef == "" {
		return c.ReplyMarkdown(update, c.L("describe.usage", nil))
	}

	c.Reply(update, c.L("describe.analyzing", nil))

	description, err := c.chatAI.Describe(
		context.Background(),
		imageRef,
		sess.Temperature(),
		sess.MaxTokens(),
		sess.ChatAPIKey(),
	)
	if err != nil {
		c.Logger.WithError(err).Error("Image description failed")
		if ai.IsAuthError(err) {
			return c.Reply(update, c.L("describe.needKey", nil))
		}
		return c.Reply(update, c.L("describe.failed", map[string]any{"Error": err.Error()}))
	}

	return c.Reply(update, description)
}

// resolveImageSource picks exactly one image source in priority order:
// a photo on the message itself, a photo on the replied-to message,
// then a URL argument. Binary photos come back as inline data URLs.
func (c *Command) resolveImageSource(update telegram.Update) (string, error) {
	msg := update.Message

	var photos []telegram.PhotoSize
	switch {
	case len(msg.Photo) > 0:
		photos = msg.Photo
	case msg.ReplyToMessage != nil && len(msg.ReplyToMessage.Photo) > 0:
		photos = msg.ReplyToMessage.Photo
	}

	if len(photos) > 0 {
		c.Reply(update, c.L("describe.downloading", nil))
		// last entry is the highest resolution
		dataURL, err := c.downloadAsDataURL(photos[len(photos)-1].FileID)
		if err != nil {
			return "", err
		}
		return dataURL, nil
	}

	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		return strings.Fields(arg)[0], nil
	}

	return "", nil
}

func (c *Command) downloadAsDataURL(fileID string) (string, error) {
	url, err := c.Tg.GetFileURL(fileID)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}
