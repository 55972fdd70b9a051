package video

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/aifusion/aifusionbot/internal/logger"
)

var (
	ErrNoVideoLanguage = errors.New("video language not available")
	ErrGetSubtitleURL  = errors.New("failed to get subtitle URL")
	ErrFetchTranscript = errors.New("failed to fetch transcript")
)

type HTTPClient interface {
	Get(url string) (*http.Response, error)
}

var _ HTTPClient = (*http.Client)(nil)

type SubtitleFetcher struct {
	httpClient HTTPClient
	logger     logger.Logger
}

func NewSubtitleFetcher(httpClient HTTPClient, logger logger.Logger) *SubtitleFetcher {
	return &SubtitleFetcher{
		httpClient: httpClient,
		logger:     logger,
	}
}

func (sf *SubtitleFetcher) Fetch(info *ytdlp.ExtractedInfo) (string, error) {
	if info.Language == nil {
		return "", ErrNoVideoLanguage
	}
	lang := *info.Language

	subtitleURL, err := sf.subtitleURL(info, lang)
	if err != nil {
		return "", errors.Join(ErrGetSubtitleURL, err)
	}

	content, err := sf.fetchSubtitles(subtitleURL)
	if err != nil {
		return "", errors.Join(ErrFetchTranscript, err)
	}

	return content, nil
}

func (sf *SubtitleFetcher) fetchSubtitles(url string) (string, error) {
	resp, err := sf.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return srtToText(string(body)), nil
}

// srtToText strips SRT sequence numbers and timestamps, joining the
// remaining caption lines with spaces.
func srtToText(srt string) string {
	var textLines []string
	for _, line := range strings.Split(srt, "\n") {
		if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			continue
		}
		if strings.Contains(line, "-->") {
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			textLines = append(textLines, trimmed)
		}
	}
	return strings.Join(textLines, " ")
}

func (sf *SubtitleFetcher) subtitleURL(info *ytdlp.ExtractedInfo, language string) (string, error) {
	if info.AutomaticCaptions == nil {
		return "", errors.New("no captions available for this video")
	}

	captions, exists := info.AutomaticCaptions[language]
	if !exists {
		// en-US falls back to en
		baseLanguage := strings.Split(language, "-")[0]
		captions, exists = info.AutomaticCaptions[baseLanguage]
	}
	if !exists {
		return "", fmt.Errorf("no captions available for language: %s", language)
	}

	sf.logger.WithFields(logger.Fields{
		"language":           language,
		"available_captions": len(captions),
	}).Debug("Available captions")

	for _, caption := range captions {
		if caption.URL != "" && strings.Contains(strings.ToLower(caption.URL), "fmt=srt") {
			return caption.URL, nil
		}
	}

	return "", errors.New("no subtitle URL found")
}
