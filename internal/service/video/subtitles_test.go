package video

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lrstanley/go-ytdlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifusion/aifusionbot/internal/logger"
)

func TestSrtToText(t *testing.T) {
	tests := []struct {
		name     string
		srt      string
		expected string
	}{
		{
			name: "sequence numbers and timestamps removed",
			srt: `1
00:00:00,000 --> 00:00:02,000
Hello world!

2
00:00:02,000 --> 00:00:04,000
This is a test.`,
			expected: "Hello world! This is a test.",
		},
		{
			name:     "empty input",
			srt:      "",
			expected: "",
		},
		{
			name:     "only timestamps",
			srt:      "1\n00:00:00,000 --> 00:00:02,000\n\n2\n00:00:02,000 --> 00:00:04,000",
			expected: "",
		},
		{
			name: "whitespace trimmed",
			srt: `1
00:00:00,000 --> 00:00:02,000
  Hello world!  `,
			expected: "Hello world!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, srtToText(tt.srt))
		})
	}
}

func TestSubtitleFetcherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("1\n00:00:00,000 --> 00:00:02,000\nHello from captions\n"))
	}))
	defer server.Close()

	lang := "en"
	info := &ytdlp.ExtractedInfo{
		ExtractedFormat: &ytdlp.ExtractedFormat{
			Language: &lang,
		},
		AutomaticCaptions: map[string][]*ytdlp.ExtractedSubtitle{
			"en": {
				{URL: server.URL + "/caps?fmt=srt"},
			},
		},
	}

	sf := NewSubtitleFetcher(server.Client(), logger.NewTestLogger())
	content, err := sf.Fetch(info)

	require.NoError(t, err)
	assert.Equal(t, "Hello from captions", content)
}

func TestSubtitleFetcherFetchNoLanguage(t *testing.T) {
	sf := NewSubtitleFetcher(http.DefaultClient, logger.NewTestLogger())
	_, err := sf.Fetch(&ytdlp.ExtractedInfo{ExtractedFormat: &ytdlp.ExtractedFormat{}})
	assert.ErrorIs(t, err, ErrNoVideoLanguage)
}

func TestSubtitleURLFallsBackToBaseLanguage(t *testing.T) {
	lang := "en-US"
	info := &ytdlp.ExtractedInfo{
		ExtractedFormat: &ytdlp.ExtractedFormat{
			Language: &lang,
		},
		AutomaticCaptions: map[string][]*ytdlp.ExtractedSubtitle{
			"en": {
				{URL: "https://captions.example/track?fmt=srt"},
			},
		},
	}

	sf := NewSubtitleFetcher(http.DefaultClient, logger.NewTestLogger())
	url, err := sf.subtitleURL(info, lang)

	require.NoError(t, err)
	assert.Equal(t, "https://captions.example/track?fmt=srt", url)
}

func TestSubtitleURLRequiresSRTFormat(t *testing.T) {
	lang := "en"
	info := &ytdlp.ExtractedInfo{
		ExtractedFormat: &ytdlp.ExtractedFormat{
			Language: &lang,
		},
		AutomaticCaptions: map[string][]*ytdlp.ExtractedSubtitle{
			"en": {
				{URL: "https://captions.example/track?fmt=vtt"},
			},
		},
	}

	sf := NewSubtitleFetcher(http.DefaultClient, logger.NewTestLogger())
	_, err := sf.subtitleURL(info, lang)
	assert.Error(t, err)
}
