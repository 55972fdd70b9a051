package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat-completion turn. Content is either a plain string
// or a slice of content parts for multimodal requests.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ImageURLContent struct {
	Type     string   `json:"type"`
	ImageURL ImageURL `json:"image_url"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// Transcription is the result of a speech-to-text call. DetectedLanguage
// is the provider's reported language code, e.g. "en".
type Transcription struct {
	Text             string
	DetectedLanguage string
}

// ChatClient covers the text capabilities of the chat provider.
type ChatClient interface {
	Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int, apiKey string) (string, error)
	EnhancePrompt(ctx context.Context, raw string, apiKey string) (string, error)
	Describe(ctx context.Context, imageRef string, temperature float64, maxTokens int, apiKey string) (string, error)
}

// ImageClient generates an image from a text prompt.
type ImageClient interface {
	Generate(ctx context.Context, prompt string, apiKey string) ([]byte, error)
}

// TranscribeClient converts an audio file to text, forcing the given
// language hint.
type TranscribeClient interface {
	Transcribe(ctx context.Context, filePath string, languageHint string) (Transcription, error)
}

type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

type CompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *ProviderError `json:"error"`
}

type ProviderError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type"`
}

// Error is an enriched error from a capability provider.
type Error struct {
	OriginalErr    error  `json:"-"`
	ProviderName   string `json:"provider_name"`
	ModelName      string `json:"model_name"`
	HTTPStatusCode int    `json:"http_status_code"`
	ErrorCode      string `json:"error_code"`
	Message        string `json:"message"`
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.OriginalErr != nil {
		msg = e.OriginalErr.Error()
	}
	if e.ProviderName != "" && e.ModelName != "" {
		msg = fmt.Sprintf("[%s:%s] %s", e.ProviderName, e.ModelName, msg)
	}
	if e.ErrorCode != "" {
		msg = fmt.Sprintf("%s (code: %s)", msg, e.ErrorCode)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.OriginalErr
}

// ErrorType classifies the error by HTTP status and provider error code.
func (e *Error) ErrorType() ErrorType {
	switch {
	case e.HTTPStatusCode == 401 || e.HTTPStatusCode == 403:
		return ErrorTypeAuth
	case e.ErrorCode == "invalid_api_key" || e.ErrorCode == "invalid_request_error" && strings.Contains(strings.ToLower(e.Message), "api key"):
		return ErrorTypeAuth
	case e.HTTPStatusCode == 429:
		return ErrorTypeRateLimit
	case e.HTTPStatusCode >= 500:
		return ErrorTypeServer
	case e.HTTPStatusCode >= 400 && e.HTTPStatusCode < 500:
		return ErrorTypeClient
	case e.HTTPStatusCode == 0 && e.OriginalErr != nil:
		return ErrorTypeNetwork
	default:
		return ErrorTypeUnknown
	}
}

type ErrorType string

const (
	ErrorTypeAuth      ErrorType = "auth"       // 401/403, rejected API key
	ErrorTypeNetwork   ErrorType = "network"    // transport failure, timeout
	ErrorTypeRateLimit ErrorType = "rate_limit" // 429, provider limits
	ErrorTypeServer    ErrorType = "server"     // 5xx, provider-side error
	ErrorTypeClient    ErrorType = "client"     // other 4xx, invalid request
	ErrorTypeUnknown   ErrorType = "unknown"
)

func GetErrorType(err error) ErrorType {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.ErrorType()
	}
	return ErrorTypeUnknown
}

// IsAuthError reports whether the capability rejected the provided key.
func IsAuthError(err error) bool {
	return GetErrorType(err) == ErrorTypeAuth
}

// enhancementLeadIns are boilerplate phrases the utility model sometimes
// prepends despite being told not to.
var enhancementLeadIns = []string{
	"Here's an enhanced version of the prompt:",
	"Enhanced prompt:",
	"Here's a more detailed version:",
	"Here's the enhanced prompt:",
}

// StripEnhancementLeadIn removes a known boilerplate lead-in phrase from
// the start of an enhanced prompt, if present.
func StripEnhancementLeadIn(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, leadIn := range enhancementLeadIns {
		if strings.HasPrefix(trimmed, leadIn) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, leadIn))
		}
	}
	return trimmed
}
