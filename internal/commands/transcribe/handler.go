package transcribe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aifusion/aifusionbot/internal/ai"
	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const (
	CommandName = "transcribe"

	chunkSize = 4000
)

// supportedExtensions mirrors what the transcription backend accepts.
// Voice notes arrive as ogg and are always in the set.
var supportedExtensions = map[string]struct{}{
	"mp3": {}, "wav": {}, "m4a": {}, "ogg": {}, "oga": {},
	"opus": {}, "mp4": {}, "mpeg": {}, "mpga": {}, "webm": {},
}

type Command struct {
	*base.Command
	transcriber ai.TranscribeClient
	httpClient  *http.Client
}

func New(di *di.Container) *Command {
	cmd := &Command{
		transcriber: di.Transcriber,
		httpClient:  di.HttpClient,
	}
	cmd.Command = base.NewCommand(cmd, di)
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Aliases() []string {
	return []string{"formats", "lang", "voice", "audio"}
}

// Execute only serves help text. Actual transcription starts when a
// voice or audio message arrives, via HandleAudio.
func (c *Command) Execute(update telegram.Update) error {
	var messageID string
	switch update.Message.Command() {
	case "formats":
		messageID = "transcribe.formats"
	case "lang":
		messageID = "transcribe.lang"
	case "voice":
		messageID = "transcribe.voice"
	case "audio":
		messageID = "transcribe.audio"
	default:
		messageID = "transcribe.help"
	}
	return c.ReplyMarkdown(update, c.L(messageID, nil))
}

// HandleAudio downloads the attached voice or audio file to a temp
// path, runs it through the transcription backend, and replies with the
// transcript in 4000-rune chunks.
func (c *Command) HandleAudio(update telegram.Update) error {
	msg := update.Message
	userID := msg.From.ID

	var fileID, fileName string
	switch {
	case msg.Voice != nil:
		fileID = msg.Voice.FileID
		fileName = fmt.Sprintf("voice_%d.ogg", userID)
	case msg.Audio != nil:
		fileID = msg.Audio.FileID
		fileName = msg.Audio.FileName
		if fileName == "" {
			fileName = fmt.Sprintf("audio_%d.mp3", userID)
		}
	default:
		return c.Reply(update, c.L("transcribe.notAudio", nil))
	}

	progress, err := c.Tg.Send(telegram.NewMessage(
		msg.Chat.ID,
		c.L("transcribe.receiving", nil),
		msg.MessageID,
	))
	if err != nil {
		c.Logger.WithError(err).Error("Failed to send progress message")
		return err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if _, ok := supportedExtensions[ext]; !ok {
		return c.editProgress(msg.Chat.ID, progress.MessageID,
			c.L("transcribe.unsupportedFormat", map[string]any{"Extension": ext}))
	}

	tempPath := filepath.Join(
		c.Cfg.Transcribe().TempDirectory,
		fmt.Sprintf("%d_%s", userID, fileName),
	)
	if err := c.downloadFile(fileID, tempPath); err != nil {
		c.Logger.WithError(err).Error("Failed to download audio file")
		return c.editProgress(msg.Chat.ID, progress.MessageID, c.L("transcribe.failed", nil))
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			c.Logger.WithError(err).Warn("Failed to remove temp audio file")
		}
	}()

	if err := c.editProgress(msg.Chat.ID, progress.MessageID, c.L("transcribe.processing", nil)); err != nil {
		return err
	}

	result, err := c.transcriber.Transcribe(context.Background(), tempPath, "en")
	if err != nil {
		c.Logger.WithError(err).Error("Transcription failed")
		return c.editProgress(msg.Chat.ID, progress.MessageID, c.L("transcribe.failed", nil))
	}

	if lang := result.DetectedLanguage; lang != "" && lang != "en" && lang != "english" {
		return c.editProgress(msg.Chat.ID, progress.MessageID,
			c.L("transcribe.nonEnglish", map[string]any{"Language": lang}))
	}

	if err := c.editProgress(msg.Chat.ID, progress.MessageID, c.L("transcribe.completed", nil)); err != nil {
		return err
	}

	return c.replyChunked(update, result.Text)
}

// replyChunked splits the transcript at rune boundaries and sends each
// chunk as its own message, numbered when there is more than one.
func (c *Command) replyChunked(update telegram.Update, text string) error {
	chunks := splitChunks(text, chunkSize)
	for i, chunk := range chunks {
		var header string
		if len(chunks) == 1 {
			header = c.L("transcribe.singleHeader", nil)
		} else {
			header = c.L("transcribe.partHeader", map[string]any{
				"Index": i + 1,
				"Total": len(chunks),
			})
		}
		if err := c.ReplyMarkdown(update, header+"\n"+chunk); err != nil {
			return err
		}
	}
	return nil
}

func (c *Command) editProgress(chatID int64, messageID int, text string) error {
	edit := telegram.NewEditMessageText(chatID, messageID, text)
	if _, err := c.Tg.Request(edit); err != nil {
		c.Logger.WithError(err).Warn("Failed to edit progress message")
		return err
	}
	return nil
}

// downloadFile writes the remote file to destPath. A failure after the
// file is created removes the partial file, so callers never see one.
func (c *Command) downloadFile(fileID, destPath string) error {
	url, err := c.Tg.GetFileURL(fileID)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(destPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return err
	}
	return nil
}

func splitChunks(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
