package video

import (
	"context"

	"github.com/lrstanley/go-ytdlp"
)

type FetchOptions struct {
	SkipDownload bool
	PrintJSON    bool
	Proxy        string
}

type YtdlpContentExtractor struct{}

func NewYtdlpExtractor() ContentExtractor {
	return &YtdlpContentExtractor{}
}

func (f *YtdlpContentExtractor) Extract(
	ctx context.Context,
	url string,
	options FetchOptions,
) (*ytdlp.Result, error) {
	dl := ytdlp.New()

	if options.SkipDownload {
		dl = dl.SkipDownload()
	}

	if options.PrintJSON {
		dl = dl.PrintJSON()
	}

	if options.Proxy != "" {
		dl = dl.Proxy(options.Proxy)
	}

	return dl.Run(ctx, url)
}
