package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripEnhancementLeadIn(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "enhanced prompt prefix",
			input:    "Enhanced prompt: a castle at dusk",
			expected: "a castle at dusk",
		},
		{
			name:     "heres an enhanced version",
			input:    "Here's an enhanced version of the prompt: a red fox in snow",
			expected: "a red fox in snow",
		},
		{
			name:     "heres the enhanced prompt with newline",
			input:    "Here's the enhanced prompt:\n\na neon city street",
			expected: "a neon city street",
		},
		{
			name:     "no prefix untouched",
			input:    "a quiet harbor at dawn",
			expected: "a quiet harbor at dawn",
		},
		{
			name:     "prefix in the middle stays",
			input:    "a poster saying Enhanced prompt: buy now",
			expected: "a poster saying Enhanced prompt: buy now",
		},
		{
			name:     "whitespace only",
			input:    "   \n ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripEnhancementLeadIn(tt.input))
		})
	}
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected ErrorType
	}{
		{
			name:     "unauthorized status",
			err:      &Error{HTTPStatusCode: 401},
			expected: ErrorTypeAuth,
		},
		{
			name:     "forbidden status",
			err:      &Error{HTTPStatusCode: 403},
			expected: ErrorTypeAuth,
		},
		{
			name:     "invalid api key code without status",
			err:      &Error{ErrorCode: "invalid_api_key"},
			expected: ErrorTypeAuth,
		},
		{
			name:     "rate limited",
			err:      &Error{HTTPStatusCode: 429},
			expected: ErrorTypeRateLimit,
		},
		{
			name:     "server error",
			err:      &Error{HTTPStatusCode: 503},
			expected: ErrorTypeServer,
		},
		{
			name:     "bad request",
			err:      &Error{HTTPStatusCode: 400},
			expected: ErrorTypeClient,
		},
		{
			name:     "transport failure",
			err:      &Error{OriginalErr: errors.New("connection refused")},
			expected: ErrorTypeNetwork,
		},
		{
			name:     "nothing known",
			err:      &Error{},
			expected: ErrorTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.ErrorType())
		})
	}
}

func TestGetErrorTypeUnwrapsWrappedErrors(t *testing.T) {
	inner := &Error{HTTPStatusCode: 401, ProviderName: "groq"}
	wrapped := fmt.Errorf("chat failed: %w", inner)

	assert.Equal(t, ErrorTypeAuth, GetErrorType(wrapped))
	assert.True(t, IsAuthError(wrapped))
	assert.False(t, IsAuthError(errors.New("plain error")))
}

func TestErrorMessageFormat(t *testing.T) {
	err := &Error{
		ProviderName: "groq",
		ModelName:    "llama3-8b-8192",
		Message:      "invalid request",
		ErrorCode:    "invalid_request_error",
	}
	assert.Equal(t, "[groq:llama3-8b-8192] invalid request (code: invalid_request_error)", err.Error())
}
