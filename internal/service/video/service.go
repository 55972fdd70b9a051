package video

import (
	"context"
	"errors"
	"regexp"

	"github.com/lrstanley/go-ytdlp"

	"github.com/aifusion/aifusionbot/internal/logger"
)

var (
	ErrExtractVideoData = errors.New("failed to extract video data")
	ErrExtractVideoInfo = errors.New("failed to extract video info")
	ErrNoVideoInfo      = errors.New("no video info available")
)

var videoURLRe = regexp.MustCompile(`(?i)(youtube\.com|youtu\.be|vimeo\.com)`)

type ContentExtractor interface {
	Extract(ctx context.Context, url string, options FetchOptions) (*ytdlp.Result, error)
}

type Config struct {
	Proxy string
}

// Service turns a URL into summarizable text: subtitle transcripts for
// video links, extracted body text for everything else.
type Service struct {
	config           Config
	logger           logger.Logger
	contentExtractor ContentExtractor
	subtitleFetcher  *SubtitleFetcher
	articleExtractor *ArticleExtractor
}

func NewService(l logger.Logger, httpClient HTTPClient, config Config) Service {
	return Service{
		config:           config,
		logger:           l,
		contentExtractor: &YtdlpContentExtractor{},
		subtitleFetcher:  NewSubtitleFetcher(httpClient, l),
		articleExtractor: NewArticleExtractor(httpClient),
	}
}

type Content struct {
	Title string
	Text  string
}

// IsVideoURL reports whether the URL points at a known video host.
func IsVideoURL(url string) bool {
	return videoURLRe.MatchString(url)
}

func (s *Service) FetchContent(ctx context.Context, url string) (*Content, error) {
	if IsVideoURL(url) {
		return s.fetchTranscript(ctx, url)
	}
	return s.fetchArticle(url)
}

func (s *Service) fetchTranscript(ctx context.Context, url string) (*Content, error) {
	output, err := s.contentExtractor.Extract(ctx, url, FetchOptions{
		SkipDownload: true,
		PrintJSON:    true,
		Proxy:        s.config.Proxy,
	})
	if err != nil {
		return nil, errors.Join(ErrExtractVideoData, err)
	}

	info, err := output.GetExtractedInfo()
	if err != nil {
		return nil, errors.Join(ErrExtractVideoInfo, err)
	}
	if len(info) == 0 || info[0] == nil {
		return nil, ErrNoVideoInfo
	}

	file := info[0]
	content := &Content{}
	if file.Title != nil {
		content.Title = *file.Title
	}

	transcript, err := s.subtitleFetcher.Fetch(file)
	if err != nil {
		return nil, err
	}
	content.Text = transcript

	return content, nil
}

func (s *Service) fetchArticle(url string) (*Content, error) {
	title, text, err := s.articleExtractor.Extract(url)
	if err != nil {
		return nil, err
	}
	return &Content{Title: title, Text: text}, nil
}
