package envfile

import (
	"bufio"
	"strings"
)

const (
	KeyChat  = "GROQ_API_KEY"
	KeyImage = "TOGETHER_API_KEY"
)

// Result reports which recognized keys a block carried.
type Result struct {
	ChatKey  string
	ImageKey string
}

func (r Result) ChatKeySet() bool {
	return r.ChatKey != ""
}

func (r Result) ImageKeySet() bool {
	return r.ImageKey != ""
}

func (r Result) Empty() bool {
	return r.ChatKey == "" && r.ImageKey == ""
}

// Parse scans a block of KEY=VALUE lines and extracts the two recognized
// service keys. Blank lines, comments and lines without a "=" are
// skipped silently. Later assignments to the same key win.
func Parse(content string) Result {
	var result Result

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))
		if value == "" {
			continue
		}

		switch key {
		case KeyChat:
			result.ChatKey = value
		case KeyImage:
			result.ImageKey = value
		}
	}

	return result
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
