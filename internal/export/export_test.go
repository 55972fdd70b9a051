package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusion/aifusionbot/internal/session"
)

func sampleHistory() []session.Message {
	return []session.Message{
		{Role: session.RoleUser, Content: "What is Go?"},
		{Role: session.RoleAssistant, Content: "Go is a programming language."},
		{Role: session.RoleUser, Content: "Thanks!"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{input: "", expected: FormatMarkdown},
		{input: "markdown", expected: FormatMarkdown},
		{input: "pdf", expected: FormatPDF},
		{input: "PDF", expected: FormatPDF},
		{input: "json", wantErr: true},
		{input: "docx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("format "+tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var formatErr *FormatError
				require.ErrorAs(t, err, &formatErr)
				assert.Equal(t, tt.input, formatErr.Format)
				assert.Contains(t, err.Error(), tt.input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestExportEmptyHistory(t *testing.T) {
	_, _, err := Export(nil, FormatMarkdown)
	assert.ErrorIs(t, err, ErrEmptyHistory)

	_, _, err = Export([]session.Message{}, FormatPDF)
	assert.ErrorIs(t, err, ErrEmptyHistory)
}

func TestExportMarkdown(t *testing.T) {
	data, filename, err := Export(sampleHistory(), FormatMarkdown)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "chat_history_"))
	assert.True(t, strings.HasSuffix(filename, ".md"))

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# AIFusion Chat History\n\n"))
	assert.Contains(t, content, "### 👤 You:\nWhat is Go?\n\n")
	assert.Contains(t, content, "### 🤖 Assistant:\nGo is a programming language.\n\n")

	// messages keep their original order
	userIdx := strings.Index(content, "What is Go?")
	assistantIdx := strings.Index(content, "Go is a programming language.")
	thanksIdx := strings.Index(content, "Thanks!")
	assert.Less(t, userIdx, assistantIdx)
	assert.Less(t, assistantIdx, thanksIdx)
}

func TestExportPDF(t *testing.T) {
	data, filename, err := Export(sampleHistory(), FormatPDF)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportPDFLongLines(t *testing.T) {
	history := []session.Message{
		{Role: session.RoleAssistant, Content: strings.Repeat("x", 500)},
	}
	data, _, err := Export(history, FormatPDF)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{""}, wrapLine("", 90))
	assert.Equal(t, []string{"short"}, wrapLine("short", 90))

	chunks := wrapLine(strings.Repeat("a", 200), 90)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 90)
	assert.Len(t, chunks[1], 90)
	assert.Len(t, chunks[2], 20)
}
