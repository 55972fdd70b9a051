package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const (
	GLOBAL_LANGUAGE          = "global.interface_language"
	HTTP_PROXY               = "http.proxy"
	TELEGRAM_TOKEN           = "telegram.token"
	TELEGRAM_ALLOWED_USERS   = "telegram.allowed_users"
	TELEGRAM_ALLOWED_CHATS   = "telegram.allowed_chats"
	AI_API_KEY               = "ai.api_key"
	AI_CHAT_BASE_URL         = "ai.chat_base_url"
	AI_CHAT_MODEL            = "ai.chat_model"
	AI_UTILITY_MODEL         = "ai.utility_model"
	AI_VISION_MODEL          = "ai.vision_model"
	AI_WHISPER_MODEL         = "ai.whisper_model"
	AI_IMAGE_BASE_URL        = "ai.image_base_url"
	AI_IMAGE_MODEL           = "ai.image_model"
	TRANSCRIBE_TEMP_DIR      = "transcribe.temp_directory"
	TRANSCRIBE_MAX_FILE_SIZE = "transcribe.max_file_size"
	LOGGING_LEVEL            = "logging.level"
	LOGGING_WRITE_IN_FILE    = "logging.write_in_file"
	LOGGING_FILE_PATH        = "logging.file_path"
)

type Config struct {
	k *koanf.Koanf
}

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "Path to config file")
}

func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		GLOBAL_LANGUAGE:          "en",
		TELEGRAM_TOKEN:           "",
		HTTP_PROXY:               nil,
		LOGGING_LEVEL:            "info",
		LOGGING_WRITE_IN_FILE:    false,
		AI_CHAT_BASE_URL:         "https://api.groq.com/openai/v1",
		AI_CHAT_MODEL:            "llama3-8b-8192",
		AI_UTILITY_MODEL:         "mixtral-8x7b-32768",
		AI_VISION_MODEL:          "llama-3.2-11b-vision-preview",
		AI_WHISPER_MODEL:         "whisper-large-v3",
		AI_IMAGE_BASE_URL:        "https://api.together.xyz/v1",
		AI_IMAGE_MODEL:           "black-forest-labs/FLUX.1-schnell-Free",
		TRANSCRIBE_TEMP_DIR:      "",
		TRANSCRIBE_MAX_FILE_SIZE: "20M",

		"commands.start.enabled":                   true,
		"commands.start.queue.enabled":             false,
		"commands.chat.enabled":                    true,
		"commands.chat.queue.enabled":              false,
		"commands.keys.enabled":                    true,
		"commands.keys.queue.enabled":              false,
		"commands.settings.enabled":                true,
		"commands.settings.queue.enabled":          false,
		"commands.clear.enabled":                   true,
		"commands.clear.queue.enabled":             false,
		"commands.export.enabled":                  true,
		"commands.export.queue.enabled":            false,
		"commands.describe.enabled":                true,
		"commands.describe.queue.enabled":          false,
		"commands.enhance.enabled":                 true,
		"commands.enhance.queue.enabled":           false,
		"commands.transcribe.enabled":              true,
		"commands.transcribe.queue.enabled":        false,
		"commands.imagine.enabled":                 true,
		"commands.imagine.queue.enabled":           true,
		"commands.imagine.queue.max_retries":       0,
		"commands.imagine.queue.timeout":           3 * time.Minute,
		"commands.imagine.queue.throttle.period":   30 * time.Second,
		"commands.imagine.queue.throttle.requests": 3,
		"commands.summarize.enabled":               true,
		"commands.summarize.queue.enabled":         true,
		"commands.summarize.queue.max_retries":     0,
		"commands.summarize.queue.timeout":         5 * time.Minute,
		"commands.summarize.queue.throttle.period": 30 * time.Second,
	}
	k.Load(confmap.Provider(defaults, "."), nil)

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config %s: %v", path, err)
			}
			break
		}
	}

	k.Load(env.Provider("AIFUSION_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "AIFUSION_")),
			"_", ".",
		)
	}), nil)

	if k.Get(TELEGRAM_TOKEN) == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	return &Config{k: k}, nil
}

func (c *Config) GetCommandConfig(name string) *CommandConfig {
	concurrency := c.k.Int(fmt.Sprintf("commands.%s.queue.throttle.concurrency", name))
	if concurrency == 0 {
		concurrency = 1
	}
	requests := c.k.Int(fmt.Sprintf("commands.%s.queue.throttle.requests", name))
	if requests == 0 {
		requests = 1
	}
	period := c.k.Duration(fmt.Sprintf("commands.%s.queue.throttle.period", name))
	if period == 0 {
		period = 10 * time.Second
	}
	timeout := c.k.Duration(fmt.Sprintf("commands.%s.queue.timeout", name))
	if timeout == 0 {
		timeout = 1 * time.Minute
	}
	return &CommandConfig{
		Enabled: c.k.Bool(fmt.Sprintf("commands.%s.enabled", name)),
		Queue: queueOptions{
			Enabled:    c.k.Bool(fmt.Sprintf("commands.%s.queue.enabled", name)),
			MaxRetries: c.k.Int(fmt.Sprintf("commands.%s.queue.max_retries", name)),
			RetryDelay: c.k.Duration(fmt.Sprintf("commands.%s.queue.retry_delay", name)),
			Timeout:    timeout,
			Throttle: queueThrottleOptions{
				Concurrency: concurrency,
				Period:      period,
				Requests:    requests,
			},
		},
	}
}

func (c *Config) Telegram() TelegramConfig {
	var cfg TelegramConfig
	if err := c.k.Unmarshal("telegram", &cfg); err != nil {
		log.Fatalf("telegramConfig unmarshal error: %v", err)
		return TelegramConfig{}
	}
	return cfg
}

func (c *Config) AI() AIConfig {
	return AIConfig{
		APIKey:       c.k.String(AI_API_KEY),
		ChatBaseURL:  c.k.String(AI_CHAT_BASE_URL),
		ChatModel:    c.k.String(AI_CHAT_MODEL),
		UtilityModel: c.k.String(AI_UTILITY_MODEL),
		VisionModel:  c.k.String(AI_VISION_MODEL),
		WhisperModel: c.k.String(AI_WHISPER_MODEL),
		ImageBaseURL: c.k.String(AI_IMAGE_BASE_URL),
		ImageModel:   c.k.String(AI_IMAGE_MODEL),
	}
}

func (c *Config) Transcribe() TranscribeConfig {
	dir := c.k.String(TRANSCRIBE_TEMP_DIR)
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "audio_transcribe")
	}
	return TranscribeConfig{
		TempDirectory: dir,
		MaxFileSize:   c.k.String(TRANSCRIBE_MAX_FILE_SIZE),
	}
}

func (c *Config) Log() LoggingConfig {
	return LoggingConfig{
		LogLevel:    c.k.String(LOGGING_LEVEL),
		WriteInFile: c.k.Bool(LOGGING_WRITE_IN_FILE),
		FilePath:    c.k.String(LOGGING_FILE_PATH),
	}
}

func (c *Config) Global() globalConfig {
	return globalConfig{
		InterfaceLanguage: c.k.String(GLOBAL_LANGUAGE),
	}
}

func (c *Config) HTTP() HTTPConfig {
	var proxy string
	if proxyValue := c.k.Get(HTTP_PROXY); proxyValue != nil {
		proxy = proxyValue.(string)
	}

	return HTTPConfig{
		proxy:   &proxy,
		noProxy: c.k.Strings("http.no_proxy"),
	}
}

func getConfigPaths() []string {
	if configPath != "" {
		return []string{configPath}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, _ := os.UserHomeDir()
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		"aifusion.toml",
		"config.toml",
		filepath.Join(xdgConfig, "aifusion", "config.toml"),
		"/etc/aifusion/config.toml",
	}
}
