package app

import (
	"context"
	"flag"

	"github.com/aifusion/aifusionbot/internal/app/di"
	"github.com/aifusion/aifusionbot/internal/commands/chat"
	"github.com/aifusion/aifusionbot/internal/commands/clear"
	"github.com/aifusion/aifusionbot/internal/commands/describe"
	"github.com/aifusion/aifusionbot/internal/commands/enhance"
	"github.com/aifusion/aifusionbot/internal/commands/export"
	"github.com/aifusion/aifusionbot/internal/commands/imagine"
	"github.com/aifusion/aifusionbot/internal/commands/keys"
	"github.com/aifusion/aifusionbot/internal/commands/settings"
	"github.com/aifusion/aifusionbot/internal/commands/start"
	"github.com/aifusion/aifusionbot/internal/commands/summarize"
	"github.com/aifusion/aifusionbot/internal/commands/transcribe"
	"github.com/aifusion/aifusionbot/internal/config"
	"github.com/aifusion/aifusionbot/internal/core"
	"github.com/aifusion/aifusionbot/internal/logger"
)

type Application struct {
	Logger logger.Logger
	cfg    *config.Config
	bot    *core.Bot
	di     *di.Container
	ctx    context.Context
	cancel context.CancelFunc
}

func New() (*Application, error) {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	cfg, err := config.Load()
	if err != nil {
		cancel()
		return nil, err
	}

	di, err := di.NewContainer(cfg)
	if err != nil {
		cancel()
		return nil, err
	}
	di.Logger.Info("DI Container created")

	botInstance, err := core.NewBot(
		di.BotClient,
		di.Queue,
		di.Logger,
		cfg,
		di.Localizer,
	)
	if err != nil {
		di.Logger.Fatal(err)
	}
	di.Logger.Info("Bot instance created")

	app := &Application{
		cfg:    cfg,
		bot:    botInstance,
		di:     di,
		Logger: di.Logger,
		ctx:    ctx,
		cancel: cancel,
	}

	app.registerCommands()

	return app, nil
}

func (a *Application) Start() error {
	a.Logger.Info("Starting application")
	return a.bot.Start(a.ctx)
}

func (a *Application) registerCommands() {
	if a.cfg.GetCommandConfig(start.CommandName).Enabled {
		a.bot.RegisterCommand(start.New(a.di))
	}
	if a.cfg.GetCommandConfig(chat.CommandName).Enabled {
		a.bot.RegisterCommand(chat.New(a.di))
	}
	if a.cfg.GetCommandConfig(imagine.CommandName).Enabled {
		a.bot.RegisterCommand(imagine.New(a.di))
	}
	if a.cfg.GetCommandConfig(enhance.CommandName).Enabled {
		a.bot.RegisterCommand(enhance.New(a.di))
	}
	if a.cfg.GetCommandConfig(describe.CommandName).Enabled {
		a.bot.RegisterCommand(describe.New(a.di))
	}
	if a.cfg.GetCommandConfig(transcribe.CommandName).Enabled {
		a.bot.RegisterCommand(transcribe.New(a.di))
	}
	if a.cfg.GetCommandConfig(summarize.CommandName).Enabled {
		a.bot.RegisterCommand(summarize.New(a.di))
	}
	if a.cfg.GetCommandConfig(settings.CommandName).Enabled {
		a.bot.RegisterCommand(settings.New(a.di))
		a.bot.RegisterCommand(settings.NewTemperature(a.di))
		a.bot.RegisterCommand(settings.NewTokens(a.di))
	}
	if a.cfg.GetCommandConfig(clear.CommandName).Enabled {
		a.bot.RegisterCommand(clear.New(a.di))
	}
	if a.cfg.GetCommandConfig(export.CommandName).Enabled {
		a.bot.RegisterCommand(export.New(a.di))
	}
	if a.cfg.GetCommandConfig(keys.GroupName).Enabled {
		a.bot.RegisterCommand(keys.NewChatKey(a.di))
		a.bot.RegisterCommand(keys.NewImageKey(a.di))
		a.bot.RegisterCommand(keys.NewUploadEnv(a.di))
	}
}

func (a *Application) WaitForShutdown() {
	<-a.ctx.Done()
	a.Logger.Info("Application stopped")
}
