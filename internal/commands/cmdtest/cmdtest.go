// Package cmdtest provides fixtures for command handler tests: a DI
// container wired with recording fakes and builders for inbound updates.
package cmdtest

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/aifusion/aifusionbot/internal/ai"
	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/config"
	"github.com/aifusion/aifusionbot/internal/logger"
	"github.com/aifusion/aifusionbot/internal/queue"
	"github.com/aifusion/aifusionbot/internal/service"
	"github.com/aifusion/aifusionbot/internal/session"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

const (
	TestUserID = int64(42)
	TestChatID = int64(100)
)

type Harness struct {
	Tg          *telegram.TestClient
	Log         *logger.TestLogger
	DI          *di.Container
	Sessions    *session.Store
	Localizer   *service.Localizer
	ChatAI      *FakeChatClient
	ImageAI     *FakeImageClient
	Transcriber *FakeTranscriber
}

func NewHarness(t *testing.T) *Harness {
	t.Helper()
	t.Setenv("AIFUSION_TELEGRAM_TOKEN", "test-token")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	localizer, err := service.NewLocalizer("en")
	if err != nil {
		t.Fatalf("create localizer: %v", err)
	}

	tg := telegram.NewTestClient()
	log := logger.NewTestLogger()
	sessions := session.NewStore()
	chatAI := &FakeChatClient{}
	imageAI := &FakeImageClient{}
	transcriber := &FakeTranscriber{}

	container := &di.Container{
		BotClient:   tg,
		Logger:      log,
		Cfg:         cfg,
		Queue:       queue.NewQueue(log),
		Sessions:    sessions,
		ChatAI:      chatAI,
		ImageAI:     imageAI,
		Transcriber: transcriber,
		Localizer:   localizer,
		HttpClient:  http.DefaultClient,
	}

	return &Harness{
		Tg:          tg,
		Log:         log,
		DI:          container,
		Sessions:    sessions,
		Localizer:   localizer,
		ChatAI:      chatAI,
		ImageAI:     imageAI,
		Transcriber: transcriber,
	}
}

// Session returns the fixture user's session, creating it if needed.
func (h *Harness) Session() *session.Session {
	return h.Sessions.GetOrCreate(TestUserID)
}

// L resolves a locale message, so assertions track the locale file.
func (h *Harness) L(messageID string, data map[string]any) string {
	return h.Localizer.Localize(messageID, data)
}

// CommandUpdate builds an update carrying "/name args" with the
// bot_command entity set, so Command() and CommandArguments() work.
func CommandUpdate(name, args string) telegram.Update {
	text := "/" + name
	if args != "" {
		text += " " + args
	}
	msg := baseMessage(text)
	msg.Entities = []telegram.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(name) + 1},
	}
	return telegram.Update{Message: msg}
}

// TextUpdate builds a plain text update without a command entity.
func TextUpdate(text string) telegram.Update {
	return telegram.Update{Message: baseMessage(text)}
}

// DocumentUpdate builds an update carrying an attached document.
func DocumentUpdate(fileName, fileID string) telegram.Update {
	msg := baseMessage("")
	msg.Document = &tgbotapi.Document{FileID: fileID, FileName: fileName}
	return telegram.Update{Message: msg}
}

// VoiceUpdate builds an update carrying a voice note.
func VoiceUpdate(fileID string) telegram.Update {
	msg := baseMessage("")
	msg.Voice = &tgbotapi.Voice{FileID: fileID}
	return telegram.Update{Message: msg}
}

// AudioUpdate builds an update carrying an audio file.
func AudioUpdate(fileName, fileID string) telegram.Update {
	msg := baseMessage("")
	msg.Audio = &tgbotapi.Audio{FileID: fileID, FileName: fileName}
	return telegram.Update{Message: msg}
}

// PhotoUpdate builds an update carrying a photo in several sizes; the
// last entry is the largest.
func PhotoUpdate(fileIDs ...string) telegram.Update {
	msg := baseMessage("")
	for _, id := range fileIDs {
		msg.Photo = append(msg.Photo, telegram.PhotoSize{FileID: id})
	}
	return telegram.Update{Message: msg}
}

// CallbackUpdate builds an inline keyboard callback update.
func CallbackUpdate(data string) telegram.Update {
	return telegram.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "callback-1",
			Data: data,
			From: &telegram.UserOriginal{ID: TestUserID, UserName: "tester"},
			Message: &telegram.MessageOriginal{
				MessageID: 9,
				Chat:      telegram.ChatOriginal{ID: TestChatID},
			},
		},
	}
}

func baseMessage(text string) *telegram.MessageOriginal {
	return &telegram.MessageOriginal{
		MessageID: 7,
		Text:      text,
		From:      &telegram.UserOriginal{ID: TestUserID, UserName: "tester"},
		Chat:      telegram.ChatOriginal{ID: TestChatID},
	}
}

type FakeChatClient struct {
	CompleteFn     func(ctx context.Context, messages []ai.Message, temperature float64, maxTokens int, apiKey string) (string, error)
	EnhanceFn      func(ctx context.Context, raw, apiKey string) (string, error)
	DescribeFn     func(ctx context.Context, imageRef string, temperature float64, maxTokens int, apiKey string) (string, error)
	CompleteCalls  atomic.Int64
	EnhanceCalls   atomic.Int64
	DescribeCalls  atomic.Int64
	LastMessages   []ai.Message
	LastAPIKey     string
	LastImageRef   string
	LastEnhanceRaw string
}

func (f *FakeChatClient) Complete(ctx context.Context, messages []ai.Message, temperature float64, maxTokens int, apiKey string) (string, error) {
	f.CompleteCalls.Add(1)
	f.LastMessages = messages
	f.LastAPIKey = apiKey
	if f.CompleteFn != nil {
		return f.CompleteFn(ctx, messages, temperature, maxTokens, apiKey)
	}
	return "fake completion", nil
}

func (f *FakeChatClient) EnhancePrompt(ctx context.Context, raw, apiKey string) (string, error) {
	f.EnhanceCalls.Add(1)
	f.LastEnhanceRaw = raw
	f.LastAPIKey = apiKey
	if f.EnhanceFn != nil {
		return f.EnhanceFn(ctx, raw, apiKey)
	}
	return "enhanced: " + raw, nil
}

func (f *FakeChatClient) Describe(ctx context.Context, imageRef string, temperature float64, maxTokens int, apiKey string) (string, error) {
	f.DescribeCalls.Add(1)
	f.LastImageRef = imageRef
	f.LastAPIKey = apiKey
	if f.DescribeFn != nil {
		return f.DescribeFn(ctx, imageRef, temperature, maxTokens, apiKey)
	}
	return "a description", nil
}

type FakeImageClient struct {
	GenerateFn    func(ctx context.Context, prompt, apiKey string) ([]byte, error)
	GenerateCalls atomic.Int64
	LastPrompt    string
}

func (f *FakeImageClient) Generate(ctx context.Context, prompt, apiKey string) ([]byte, error) {
	f.GenerateCalls.Add(1)
	f.LastPrompt = prompt
	if f.GenerateFn != nil {
		return f.GenerateFn(ctx, prompt, apiKey)
	}
	return []byte("png-bytes"), nil
}

type FakeTranscriber struct {
	TranscribeFn    func(ctx context.Context, filePath, languageHint string) (ai.Transcription, error)
	TranscribeCalls atomic.Int64
	LastFilePath    string
	LastLangHint    string
}

func (f *FakeTranscriber) Transcribe(ctx context.Context, filePath, languageHint string) (ai.Transcription, error) {
	f.TranscribeCalls.Add(1)
	f.LastFilePath = filePath
	f.LastLangHint = languageHint
	if f.TranscribeFn != nil {
		return f.TranscribeFn(ctx, filePath, languageHint)
	}
	return ai.Transcription{Text: "hello world", DetectedLanguage: "en"}, nil
}
