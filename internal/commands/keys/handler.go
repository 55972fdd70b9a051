package keys

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/envfile"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const (
	// GroupName is the config toggle shared by the key commands.
	GroupName = "keys"

	ChatKeyCommandName   = "setchatkey"
	ImageKeyCommandName  = "setimagekey"
	UploadEnvCommandName = "uploadenv"
)

// ChatKeyCommand stores the chat-service API key in the session. The
// message bearing the key is deleted before anything else happens.
type ChatKeyCommand struct {
	*base.Command
}

func NewChatKey(di *di.Container) *ChatKeyCommand {
	cmd := &ChatKeyCommand{}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *ChatKeyCommand) Name() string {
	return ChatKeyCommandName
}

func (c *ChatKeyCommand) Execute(update telegram.Update) error {
	msg := update.Message
	deleteBearingMessage(c.Command, update)

	key := strings.TrimSpace(msg.CommandArguments())
	if key == "" {
		return sendMarkdown(c.Command, update, c.L("keys.chatKeyUsage", nil))
	}

	c.Session(update).SetChatAPIKey(key)
	return sendMarkdown(c.Command, update, c.L("keys.chatKeySet", nil))
}

// ImageKeyCommand stores the image-service API key in the session.
type ImageKeyCommand struct {
	*base.Command
}

func NewImageKey(di *di.Container) *ImageKeyCommand {
	cmd := &ImageKeyCommand{}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *ImageKeyCommand) Name() string {
	return ImageKeyCommandName
}

func (c *ImageKeyCommand) Execute(update telegram.Update) error {
	msg := update.Message
	deleteBearingMessage(c.Command, update)

	key := strings.TrimSpace(msg.CommandArguments())
	if key == "" {
		return sendMarkdown(c.Command, update, c.L("keys.imageKeyUsage", nil))
	}

	c.Session(update).SetImageAPIKey(key)
	return sendMarkdown(c.Command, update, c.L("keys.imageKeySet", nil))
}

func deleteBearingMessage(c *base.Command, update telegram.Update) {
	msg := update.Message
	if _, err := c.Tg.DeleteMessage(msg.Chat.ID, msg.MessageID); err != nil {
		c.Logger.WithError(err).Warn("Failed to delete message with secret")
	}
}

// sendMarkdown replies without referencing the deleted bearing message.
func sendMarkdown(c *base.Command, update telegram.Update, text string) error {
	msg := telegram.NewMessage(update.Message.Chat.ID, text, 0)
	msg.ParseMode = telegram.ModeMarkdown
	if _, err := c.Tg.Send(msg); err != nil {
		c.Logger.WithError(err).Error("Failed to send message")
		return err
	}
	return nil
}

func sendText(c *base.Command, update telegram.Update, text string) error {
	msg := telegram.NewMessage(update.Message.Chat.ID, text, 0)
	if _, err := c.Tg.Send(msg); err != nil {
		c.Logger.WithError(err).Error("Failed to send message")
		return err
	}
	return nil
}

// UploadEnvCommand explains the .env upload flow and ingests uploaded
// key files routed to it by the bot loop.
type UploadEnvCommand struct {
	*base.Command
	httpClient *http.Client
}

func NewUploadEnv(di *di.Container) *UploadEnvCommand {
	cmd := &UploadEnvCommand{httpClient: di.HttpClient}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *UploadEnvCommand) Name() string {
	return UploadEnvCommandName
}

func (c *UploadEnvCommand) Execute(update telegram.Update) error {
	return c.ReplyMarkdown(update, c.L("keys.uploadInstructions", nil))
}

// HandleDocument processes an uploaded .env file. The bearing message
// is deleted on every path, success or failure.
func (c *UploadEnvCommand) HandleDocument(update telegram.Update) error {
	msg := update.Message
	if msg == nil || msg.Document == nil {
		return nil
	}

	// case-insensitive, same rule the dispatch loop routes by
	if !strings.HasSuffix(strings.ToLower(msg.Document.FileName), ".env") {
		return c.Reply(update, c.L("keys.notEnvFile", nil))
	}

	defer deleteBearingMessage(c.Command, update)

	content, err := c.downloadDocument(msg.Document.FileID)
	if err != nil {
		c.Logger.WithError(err).Error("Failed to download env file")
		return sendText(c.Command, update, c.L("keys.processingError", nil))
	}

	result := envfile.Parse(content)
	if result.Empty() {
		return sendText(c.Command, update, c.L("keys.noValidKeys", nil))
	}

	sess := c.Session(update)
	var recognized []string
	if result.ChatKeySet() {
		sess.SetChatAPIKey(result.ChatKey)
		recognized = append(recognized, c.L("keys.chatKeyRecognized", nil))
	}
	if result.ImageKeySet() {
		sess.SetImageAPIKey(result.ImageKey)
		recognized = append(recognized, c.L("keys.imageKeyRecognized", nil))
	}

	reply := fmt.Sprintf(
		"%s\n%s\n\n%s",
		c.L("keys.updatedHeader", nil),
		strings.Join(recognized, "\n"),
		c.L("keys.updatedFooter", nil),
	)
	return sendMarkdown(c.Command, update, reply)
}

func (c *UploadEnvCommand) downloadDocument(fileID string) (string, error) {
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
	return string(data), nil
}
