package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aifusion/aifusionbot/internal/logger"
)

const enhanceSystemPrompt = "You are an advanced AI creative assistant specialized in enhancing " +
	"image generation prompts. Transform user prompts into highly detailed, visually rich " +
	"descriptions that leverage cutting-edge AI image generation capabilities. Focus on artistic " +
	"elements including lighting, composition, style, mood, and technical aspects. Maintain " +
	"conciseness while maximizing visual impact. IMPORTANT: Return only the enhanced prompt " +
	"without any prefixes or explanatory text."

const describeInstruction = "What's in this image? Provide a detailed description."

// GroqClient talks to the Groq OpenAI-compatible API. It implements
// ChatClient and TranscribeClient. API keys are supplied per request;
// transcription falls back to the service-level key.
type GroqClient struct {
	httpClient      *baseHTTPClient
	logger          logger.Logger
	chatModel       string
	utilityModel    string
	visionModel     string
	whisperModel    string
	transcribeKey   string
	enhanceMaxToken int
}

type GroqConfig struct {
	BaseURL       string
	ChatModel     string
	UtilityModel  string
	VisionModel   string
	WhisperModel  string
	TranscribeKey string
}

func NewGroqClient(httpClient *http.Client, cfg GroqConfig, log logger.Logger) *GroqClient {
	return &GroqClient{
		httpClient:      newBaseHTTPClient(httpClient, cfg.BaseURL, log),
		logger:          log,
		chatModel:       cfg.ChatModel,
		utilityModel:    cfg.UtilityModel,
		visionModel:     cfg.VisionModel,
		whisperModel:    cfg.WhisperModel,
		transcribeKey:   cfg.TranscribeKey,
		enhanceMaxToken: 256,
	}
}

func (c *GroqClient) Name() string {
	return "groq"
}

func (c *GroqClient) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int, apiKey string) (string, error) {
	request := CompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        1,
	}
	return c.complete(ctx, request, apiKey)
}

func (c *GroqClient) EnhancePrompt(ctx context.Context, raw string, apiKey string) (string, error) {
	request := CompletionRequest{
		Model: c.utilityModel,
		Messages: []Message{
			{Role: RoleSystem, Content: enhanceSystemPrompt},
			{Role: RoleUser, Content: "Enhance this image prompt: " + raw},
		},
		Temperature: 0.7,
		MaxTokens:   c.enhanceMaxToken,
	}

	enhanced, err := c.complete(ctx, request, apiKey)
	if err != nil {
		return "", err
	}
	return StripEnhancementLeadIn(enhanced), nil
}

func (c *GroqClient) Describe(ctx context.Context, imageRef string, temperature float64, maxTokens int, apiKey string) (string, error) {
	request := CompletionRequest{
		Model: c.visionModel,
		Messages: []Message{
			{
				Role: RoleUser,
				Content: []any{
					TextContent{Type: "text", Text: describeInstruction},
					ImageURLContent{Type: "image_url", ImageURL: ImageURL{URL: imageRef}},
				},
			},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	return c.complete(ctx, request, apiKey)
}

func (c *GroqClient) complete(ctx context.Context, request CompletionRequest, apiKey string) (string, error) {
	body, err := jsonBody(request)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/chat/completions", body)
	if err != nil {
		return "", fmt.Errorf("create request error: %w", err)
	}

	resp, err := c.httpClient.Do(req, apiKey)
	if err != nil {
		return "", &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    request.Model,
			Message:      "network request failed",
		}
	}

	responseBody, err := drainBody(resp)
	if err != nil {
		return "", &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    request.Model,
			Message:      "failed to read response body",
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		aiErr := readProviderError(c.Name(), resp, responseBody)
		aiErr.ModelName = request.Model
		return "", aiErr
	}

	var result CompletionResponse
	if err := json.Unmarshal(responseBody, &result); err != nil {
		return "", &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    request.Model,
			Message:      "failed to unmarshal response",
		}
	}

	// some providers put errors in a 200 OK body
	if result.Error != nil {
		return "", &Error{
			ProviderName: c.Name(),
			ModelName:    request.Model,
			ErrorCode:    result.Error.Code,
			Message:      result.Error.Message,
		}
	}

	if len(result.Choices) == 0 {
		return "", &Error{
			ProviderName: c.Name(),
			ModelName:    request.Model,
			Message:      "no choices in response",
		}
	}

	return result.Choices[0].Message.Content, nil
}

// Transcribe uploads the audio file to the translations endpoint with a
// forced language hint and returns the transcript plus the language the
// model actually detected.
func (c *GroqClient) Transcribe(ctx context.Context, filePath string, languageHint string) (Transcription, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Transcription{}, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return Transcription{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return Transcription{}, fmt.Errorf("read audio file: %w", err)
	}

	writer.WriteField("model", c.whisperModel)
	writer.WriteField("prompt", "This is English audio, transcribe accurately")
	writer.WriteField("response_format", "verbose_json")
	writer.WriteField("temperature", "0")
	writer.WriteField("language", languageHint)
	if err := writer.Close(); err != nil {
		return Transcription{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/audio/translations", &buf)
	if err != nil {
		return Transcription{}, fmt.Errorf("create request error: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req, c.transcribeKey)
	if err != nil {
		return Transcription{}, &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    c.whisperModel,
			Message:      "network request failed",
		}
	}

	responseBody, err := drainBody(resp)
	if err != nil {
		return Transcription{}, &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    c.whisperModel,
			Message:      "failed to read response body",
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		aiErr := readProviderError(c.Name(), resp, responseBody)
		aiErr.ModelName = c.whisperModel
		return Transcription{}, aiErr
	}

	var result struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.Unmarshal(responseBody, &result); err != nil {
		return Transcription{}, &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    c.whisperModel,
			Message:      "failed to unmarshal response",
		}
	}

	return Transcription{
		Text:             result.Text,
		DetectedLanguage: strings.ToLower(result.Language),
	}, nil
}
