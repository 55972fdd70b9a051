package config

import (
	"os"
	"slices"
	"strings"
	"time"
)

type globalConfig struct {
	InterfaceLanguage string `koanf:"interface_language"`
}

type HTTPConfig struct {
	proxy   *string  `koanf:"proxy"`
	noProxy []string `koanf:"no_proxy"`
}

func (c HTTPConfig) GetProxy() string {
	if c.proxy != nil && *c.proxy != "" {
		return *c.proxy
	}
	if proxyURL := os.Getenv("HTTPS_PROXY"); proxyURL != "" {
		return proxyURL
	}
	if proxyURL := os.Getenv("https_proxy"); proxyURL != "" {
		return proxyURL
	}
	if proxyURL := os.Getenv("HTTP_PROXY"); proxyURL != "" {
		return proxyURL
	}
	if proxyURL := os.Getenv("http_proxy"); proxyURL != "" {
		return proxyURL
	}
	return ""
}

func (c HTTPConfig) GetNoProxy() []string {
	return c.noProxy
}

type LoggingConfig struct {
	LogLevel    string `koanf:"level"`
	WriteInFile bool   `koanf:"write_in_file"`
	FilePath    string `koanf:"file_path"`
}

func (c LoggingConfig) Level() string {
	return strings.ToLower(c.LogLevel)
}

func (c LoggingConfig) IsDebug() bool {
	return c.Level() == "debug" || c.Level() == "trace"
}

type TelegramConfig struct {
	Token        string  `koanf:"token"`
	AllowedUsers []int64 `koanf:"allowed_users"`
	AllowedChats []int64 `koanf:"allowed_chats"`
}

// IsAllowed is open when no allowlist is configured. With at least one
// list set, membership in either is enough.
func (c TelegramConfig) IsAllowed(userID int64, chatID int64) bool {
	if len(c.AllowedUsers) == 0 && len(c.AllowedChats) == 0 {
		return true
	}
	return slices.Contains(c.AllowedUsers, userID) || slices.Contains(c.AllowedChats, chatID)
}

type AIConfig struct {
	APIKey       string `koanf:"api_key"`
	ChatBaseURL  string `koanf:"chat_base_url"`
	ChatModel    string `koanf:"chat_model"`
	UtilityModel string `koanf:"utility_model"`
	VisionModel  string `koanf:"vision_model"`
	WhisperModel string `koanf:"whisper_model"`
	ImageBaseURL string `koanf:"image_base_url"`
	ImageModel   string `koanf:"image_model"`
}

type TranscribeConfig struct {
	TempDirectory string `koanf:"temp_directory"`
	MaxFileSize   string `koanf:"max_file_size"`
}

type queueThrottleOptions struct {
	Concurrency int
	Period      time.Duration
	Requests    int
}

type queueOptions struct {
	Enabled    bool
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
	Throttle   queueThrottleOptions
}

type CommandConfig struct {
	Enabled bool
	Queue   queueOptions
}
