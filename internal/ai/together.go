package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aifusion/aifusionbot/internal/logger"
)

// TogetherClient generates images through the Together API.
type TogetherClient struct {
	httpClient *baseHTTPClient
	logger     logger.Logger
	model      string
}

type TogetherConfig struct {
	BaseURL string
	Model   string
}

func NewTogetherClient(httpClient *http.Client, cfg TogetherConfig, log logger.Logger) *TogetherClient {
	return &TogetherClient{
		httpClient: newBaseHTTPClient(httpClient, cfg.BaseURL, log),
		logger:     log,
		model:      cfg.Model,
	}
}

func (c *TogetherClient) Name() string {
	return "together"
}

type imageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Steps          int    `json:"steps"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *ProviderError `json:"error"`
}

// Generate returns the raw bytes of a single generated image.
func (c *TogetherClient) Generate(ctx context.Context, prompt string, apiKey string) ([]byte, error) {
	request := imageGenerationRequest{
		Model:          c.model,
		Prompt:         prompt,
		Width:          1024,
		Height:         768,
		Steps:          4,
		N:              1,
		ResponseFormat: "b64_json",
	}

	body, err := jsonBody(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/images/generations", body)
	if err != nil {
		return nil, fmt.Errorf("create request error: %w", err)
	}

	resp, err := c.httpClient.Do(req, apiKey)
	if err != nil {
		return nil, &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    c.model,
			Message:      "network request failed",
		}
	}

	responseBody, err := drainBody(resp)
	if err != nil {
		return nil, &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    c.model,
			Message:      "failed to read response body",
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		aiErr := readProviderError(c.Name(), resp, responseBody)
		aiErr.ModelName = c.model
		return nil, aiErr
	}

	var result imageGenerationResponse
	if err := json.Unmarshal(responseBody, &result); err != nil {
		return nil, &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    c.model,
			Message:      "failed to unmarshal response",
		}
	}

	if result.Error != nil {
		return nil, &Error{
			ProviderName: c.Name(),
			ModelName:    c.model,
			ErrorCode:    result.Error.Code,
			Message:      result.Error.Message,
		}
	}

	if len(result.Data) == 0 || result.Data[0].B64JSON == "" {
		return nil, &Error{
			ProviderName: c.Name(),
			ModelName:    c.model,
			Message:      "no image data in response",
		}
	}

	imageBytes, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		return nil, &Error{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    c.model,
			Message:      "failed to decode image data",
		}
	}

	return imageBytes, nil
}
