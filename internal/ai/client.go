package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aifusion/aifusionbot/internal/logger"
)

type baseHTTPClient struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

func newBaseHTTPClient(client *http.Client, baseURL string, log logger.Logger) *baseHTTPClient {
	return &baseHTTPClient{
		client:  client,
		baseURL: baseURL,
		logger:  log,
	}
}

// Do resolves relative endpoints against the base URL and attaches the
// per-request bearer key. Keys are never logged.
func (c *baseHTTPClient) Do(req *http.Request, apiKey string) (*http.Response, error) {
	if c.baseURL != "" && !strings.HasPrefix(req.URL.String(), "http") {
		req.URL, _ = url.Parse(fmt.Sprintf(
			"%s/%s",
			strings.TrimSuffix(c.baseURL, "/"),
			strings.TrimPrefix(req.URL.String(), "/"),
		))
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.WithFields(logger.Fields{
		"url":    req.URL.String(),
		"method": req.Method,
	}).Debug("HTTP request")

	return c.client.Do(req)
}

// readProviderError turns a non-2xx response into an *Error, preserving
// the provider's own message and code when the body carries them.
func readProviderError(provider string, resp *http.Response, body []byte) *Error {
	aiErr := &Error{
		ProviderName:   provider,
		HTTPStatusCode: resp.StatusCode,
		Message:        fmt.Sprintf("HTTP request failed with status code: %d", resp.StatusCode),
	}

	if len(body) > 0 {
		var providerError struct {
			Error ProviderError `json:"error"`
		}
		json.Unmarshal(body, &providerError)
		if providerError.Error.Message != "" {
			aiErr.Message = providerError.Error.Message
			aiErr.ErrorCode = providerError.Error.Code
		}
	}

	return aiErr
}

func drainBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func jsonBody(v any) (*bytes.Buffer, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}
	return bytes.NewBuffer(data), nil
}
