package di

import (
	"net/http"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/aifusion/aifusionbot/internal/ai"
	"github.com/aifusion/aifusionbot/internal/config"
	"github.com/aifusion/aifusionbot/internal/logger"
	"github.com/aifusion/aifusionbot/internal/network"
	"github.com/aifusion/aifusionbot/internal/queue"
	"github.com/aifusion/aifusionbot/internal/service"
	"github.com/aifusion/aifusionbot/internal/service/video"
	"github.com/aifusion/aifusionbot/internal/session"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

type Container struct {
	BotClient    telegram.Client
	Logger       logger.Logger
	Cfg          *config.Config
	Queue        *queue.Queue
	Sessions     *session.Store
	ChatAI       ai.ChatClient
	ImageAI      ai.ImageClient
	Transcriber  ai.TranscribeClient
	VideoService *video.Service
	Localizer    *service.Localizer
	HttpClient   *http.Client
}

func NewContainer(cfg *config.Config) (*Container, error) {
	logCfg := cfg.Log()
	l := logger.NewLogrusLogger(&logCfg)

	localizer, err := service.NewLocalizer(cfg.Global().InterfaceLanguage)
	if err != nil {
		l.WithError(err).Fatal("Error create localizer")
	}

	container := &Container{
		Logger:    l,
		Cfg:       cfg,
		Queue:     queue.NewQueue(l),
		Sessions:  session.NewStore(),
		Localizer: localizer,
	}

	httpCfg := network.NewDefaultHTTPClientConfig(cfg.HTTP())
	container.HttpClient = network.SetupHTTPClient(httpCfg, l)

	aiCfg := cfg.AI()
	groq := ai.NewGroqClient(container.HttpClient, ai.GroqConfig{
		BaseURL:       aiCfg.ChatBaseURL,
		ChatModel:     aiCfg.ChatModel,
		UtilityModel:  aiCfg.UtilityModel,
		VisionModel:   aiCfg.VisionModel,
		WhisperModel:  aiCfg.WhisperModel,
		TranscribeKey: aiCfg.APIKey,
	}, l)
	container.ChatAI = groq
	container.Transcriber = groq
	l.WithField("provider", groq.Name()).Info("Initialized chat provider")

	together := ai.NewTogetherClient(container.HttpClient, ai.TogetherConfig{
		BaseURL: aiCfg.ImageBaseURL,
		Model:   aiCfg.ImageModel,
	}, l)
	container.ImageAI = together
	l.WithField("provider", together.Name()).Info("Initialized image provider")

	fetchClient := network.SetupHTTPClient(network.NewFetchHTTPClientConfig(cfg.HTTP()), l)
	videoService := video.NewService(l, fetchClient, video.Config{
		Proxy: cfg.HTTP().GetProxy(),
	})
	container.VideoService = &videoService

	api, err := tgbotapi.NewBotAPI(cfg.Telegram().Token)
	if err != nil {
		l.WithError(err).Fatal("Bot API client initialization error")
	}
	l.Info("Bot API initialized")

	container.BotClient = telegram.NewBotClient(api, l)

	return container, nil
}
