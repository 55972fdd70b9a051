package envfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected Result
	}{
		{
			name:     "both keys",
			content:  "GROQ_API_KEY=gsk_abc\nTOGETHER_API_KEY=tok_xyz\n",
			expected: Result{ChatKey: "gsk_abc", ImageKey: "tok_xyz"},
		},
		{
			name:     "double quoted value",
			content:  `GROQ_API_KEY="gsk_abc"`,
			expected: Result{ChatKey: "gsk_abc"},
		},
		{
			name:     "single quoted value",
			content:  "TOGETHER_API_KEY='tok_xyz'",
			expected: Result{ImageKey: "tok_xyz"},
		},
		{
			name:     "surrounding whitespace trimmed",
			content:  "  GROQ_API_KEY =  gsk_abc  ",
			expected: Result{ChatKey: "gsk_abc"},
		},
		{
			name:     "value keeps equals signs after the first",
			content:  "GROQ_API_KEY=gsk_a=b=c",
			expected: Result{ChatKey: "gsk_a=b=c"},
		},
		{
			name:     "comments and blank lines skipped",
			content:  "# service keys\n\nGROQ_API_KEY=gsk_abc\n",
			expected: Result{ChatKey: "gsk_abc"},
		},
		{
			name:     "malformed lines skipped silently",
			content:  "not a pair\nGROQ_API_KEY=gsk_abc\njust-words\n",
			expected: Result{ChatKey: "gsk_abc"},
		},
		{
			name:     "unrecognized keys ignored",
			content:  "OPENAI_API_KEY=sk_other\nDATABASE_URL=postgres://x\n",
			expected: Result{},
		},
		{
			name:     "empty value ignored",
			content:  "GROQ_API_KEY=\nTOGETHER_API_KEY=\"\"\n",
			expected: Result{},
		},
		{
			name:     "last assignment wins",
			content:  "GROQ_API_KEY=first\nGROQ_API_KEY=second\n",
			expected: Result{ChatKey: "second"},
		},
		{
			name:     "mismatched quotes kept",
			content:  `GROQ_API_KEY="gsk_abc'`,
			expected: Result{ChatKey: `"gsk_abc'`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.content))
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	content := "GROQ_API_KEY=gsk_abc\nTOGETHER_API_KEY=tok_xyz\n"
	first := Parse(content)
	second := Parse(content)
	assert.Equal(t, first, second)
}

func TestResultEmpty(t *testing.T) {
	assert.True(t, Result{}.Empty())
	assert.False(t, Result{ChatKey: "x"}.Empty())
	assert.True(t, Result{ChatKey: "x"}.ChatKeySet())
	assert.False(t, Result{ChatKey: "x"}.ImageKeySet())
}
