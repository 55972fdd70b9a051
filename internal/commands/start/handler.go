package start

import (
	"fmt"
	"strings"

	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands/base"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const CommandName = "start"

type commandGroup struct {
	title    string
	commands [][2]string
}

var helpGroups = []commandGroup{
	{"🤖 Chat Commands", [][2]string{
		{"chat", "Start a chat with AI"},
		{"temperature", "Adjust response creativity (0.0-1.0)"},
		{"tokens", "Set maximum response length (100-4096)"},
		{"clear", "Clear chat history"},
		{"export", "Export chat history as file"},
	}},
	{"🎨 Image Commands", [][2]string{
		{"imagine", "Generate an image from text description"},
		{"enhance", "Enhance your text prompt"},
		{"describe", "Analyze and describe an image (reply to an image or provide URL)"},
	}},
	{"🎵 Audio Commands", [][2]string{
		{"transcribe", "Convert English audio to text (voice or file)"},
		{"formats", "Show supported audio formats"},
		{"voice", "Send a voice message to transcribe"},
		{"audio", "Send an audio file to transcribe"},
		{"lang", "Show supported language (English only)"},
	}},
	{"🎬 Video Commands", [][2]string{
		{"summarize", "Summarize a video or article from a URL"},
	}},
	{"⚙️ Settings", [][2]string{
		{"settings", "View and modify bot settings"},
		{"setchatkey", "Set your chat API key"},
		{"setimagekey", "Set your image API key"},
		{"uploadenv", "Upload .env file to configure API keys"},
	}},
	{"ℹ️ General", [][2]string{
		{"start", "Start the bot and get welcome message"},
		{"help", "Show help message with all commands"},
	}},
}

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
	return []string{"help"}
}

func (c *Command) Execute(update telegram.Update) error {
	if update.Message.Command() == "help" {
		return c.ReplyMarkdown(update, c.helpText())
	}
	return c.ReplyMarkdown(update, c.L("start.welcome", nil))
}

func (c *Command) helpText() string {
	var sb strings.Builder
	sb.WriteString(c.L("start.helpHeader", nil))
	sb.WriteString("\n")
	for _, group := range helpGroups {
		sb.WriteString("\n" + group.title + ":\n")
		for _, cmd := range group.commands {
			fmt.Fprintf(&sb, "/%s - %s\n", cmd[0], cmd[1])
		}
	}
	sb.WriteString("\n")
	sb.WriteString(c.L("start.helpTips", nil))
	return sb.String()
}
