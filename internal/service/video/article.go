package video

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// ArticleExtractor pulls readable text out of a web page, used when a
// URL points at an article rather than a video.
type ArticleExtractor struct {
	httpClient HTTPClient
}

func NewArticleExtractor(httpClient HTTPClient) *ArticleExtractor {
	return &ArticleExtractor{httpClient: httpClient}
}

func (e *ArticleExtractor) Extract(url string) (title string, text string, err error) {
	resp, err := e.httpClient.Get(url)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}

	return parseArticle(string(body))
}

func parseArticle(html string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", err
	}

	doc.Find("script, style, footer, nav, aside").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	title := strings.TrimSpace(doc.Find("title").First().Text())

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}

	var parts []string
	root.Find("p").Each(func(i int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		if text := cleanText(root.Text()); text != "" {
			parts = append(parts, text)
		}
	}

	return title, strings.Join(parts, "\n\n"), nil
}

func cleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
