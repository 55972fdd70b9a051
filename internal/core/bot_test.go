package core

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/commands/cmdtest"
	"github.com/aifusion/aifusionbot/internal/config"
	"github.com/aifusion/aifusionbot/internal/logger"
	"github.com/aifusion/aifusionbot/internal/queue"
	"github.com/aifusion/aifusionbot/internal/service"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

type stubCommand struct {
	name        string
	aliases     []string
	handled     atomic.Int64
	audio       atomic.Int64
	documents   atomic.Int64
	callbacks   atomic.Int64
	lastCbkData string
}

func (s *stubCommand) Name() string                         { return s.name }
func (s *stubCommand) Aliases() []string                    { return s.aliases }
func (s *stubCommand) Requirements() commands.Requirements  { return commands.Requirements{} }
func (s *stubCommand) GetQueueConfig() commands.QueueConfig { return commands.QueueConfig{} }
func (s *stubCommand) Execute(update telegram.Update) error { return nil }

func (s *stubCommand) Handle(update telegram.Update) error {
	s.handled.Add(1)
	return nil
}

func (s *stubCommand) HandleAudio(update telegram.Update) error {
	s.audio.Add(1)
	return nil
}

func (s *stubCommand) HandleDocument(update telegram.Update) error {
	s.documents.Add(1)
	return nil
}

func (s *stubCommand) HandleCallback(update telegram.Update) error {
	s.lastCbkData = update.CallbackQuery.Data
	s.callbacks.Add(1)
	return nil
}

func newTestBot(t *testing.T) (*Bot, *telegram.TestClient) {
	t.Helper()
	t.Setenv("AIFUSION_TELEGRAM_TOKEN", "test-token")

	cfg, err := config.Load()
	require.NoError(t, err)

	localizer, err := service.NewLocalizer("en")
	require.NoError(t, err)

	log := logger.NewTestLogger()
	tg := telegram.NewTestClient()

	bot, err := NewBot(tg, queue.NewQueue(log), log, cfg, localizer)
	require.NoError(t, err)
	return bot, tg
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestDispatchRoutesCommandByName(t *testing.T) {
	bot, _ := newTestBot(t)
	cmd := &stubCommand{name: "imagine"}
	bot.RegisterCommand(cmd)

	bot.dispatch(cmdtest.CommandUpdate("imagine", "a cat"))

	eventually(t, func() bool { return cmd.handled.Load() == 1 })
}

func TestDispatchRoutesCommandByAlias(t *testing.T) {
	bot, _ := newTestBot(t)
	cmd := &stubCommand{name: "export", aliases: []string{"save"}}
	bot.RegisterCommand(cmd)

	bot.dispatch(cmdtest.CommandUpdate("save", ""))

	eventually(t, func() bool { return cmd.handled.Load() == 1 })
}

func TestDispatchSkipsCommandsForOtherBots(t *testing.T) {
	bot, _ := newTestBot(t)
	cmd := &stubCommand{name: "chat"}
	bot.RegisterCommand(cmd)

	update := cmdtest.CommandUpdate("chat@someotherbot", "hello")
	bot.dispatch(update)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, cmd.handled.Load())
}

func TestDispatchPlainTextGoesToChat(t *testing.T) {
	bot, _ := newTestBot(t)
	chatCmd := &stubCommand{name: "chat"}
	bot.RegisterCommand(chatCmd)

	bot.dispatch(cmdtest.TextUpdate("hello there"))

	eventually(t, func() bool { return chatCmd.handled.Load() == 1 })
}

func TestDispatchVoiceGoesToTranscribe(t *testing.T) {
	bot, _ := newTestBot(t)
	cmd := &stubCommand{name: "transcribe"}
	bot.RegisterCommand(cmd)

	bot.dispatch(cmdtest.VoiceUpdate("voice-file"))

	eventually(t, func() bool { return cmd.audio.Load() == 1 })
	assert.Zero(t, cmd.handled.Load())
}

func TestDispatchEnvDocumentGoesToUploadEnv(t *testing.T) {
	bot, _ := newTestBot(t)
	cmd := &stubCommand{name: "uploadenv"}
	bot.RegisterCommand(cmd)

	bot.dispatch(cmdtest.DocumentUpdate("secrets.env", "env-file"))

	eventually(t, func() bool { return cmd.documents.Load() == 1 })
}

func TestDispatchPhotoGoesToDescribe(t *testing.T) {
	bot, _ := newTestBot(t)
	cmd := &stubCommand{name: "describe"}
	bot.RegisterCommand(cmd)

	bot.dispatch(cmdtest.PhotoUpdate("small", "large"))

	eventually(t, func() bool { return cmd.handled.Load() == 1 })
}

func TestDispatchCallbackRoutedByFirstToken(t *testing.T) {
	bot, tg := newTestBot(t)
	cmd := &stubCommand{name: "clear"}
	bot.RegisterCommand(cmd)

	bot.dispatch(cmdtest.CallbackUpdate("clear confirm"))

	eventually(t, func() bool { return cmd.callbacks.Load() == 1 })
	assert.Equal(t, "clear confirm", cmd.lastCbkData)
	// callback query is answered regardless of the handler
	assert.NotNil(t, tg)
}

func TestRegisterCommandRejectsEmptyName(t *testing.T) {
	bot, _ := newTestBot(t)
	bot.RegisterCommand(&stubCommand{name: ""})
	assert.Empty(t, bot.GetCommands())
}
