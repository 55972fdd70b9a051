package telegram

import (
	"sync"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// TestClient records every outbound transport call for assertions in tests.
type TestClient struct {
	mu            sync.Mutex
	Sent          []MessageConfig
	Edited        []EditMessageTextConfig
	Deleted       [][2]int64 // chatID, messageID pairs
	Actions       []ChatAction
	FileURLs      map[string]string
	nextMessageID int
}

func NewTestClient() *TestClient {
	return &TestClient{
		FileURLs:      make(map[string]string),
		nextMessageID: 1,
	}
}

func (c *TestClient) Send(msg MessageConfig) (*Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Sent = append(c.Sent, msg)
	id := c.nextMessageID
	c.nextMessageID++
	return &Message{MessageID: id}, nil
}

func (c *TestClient) SendWithRetry(msg MessageConfig, maxRetryCount int) (*Message, error) {
	return c.Send(msg)
}

func (c *TestClient) Request(message MessageConfig) (*APIResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if edit, ok := message.(EditMessageTextConfig); ok {
		c.Edited = append(c.Edited, edit)
	}
	return &APIResponse{Ok: true}, nil
}

func (c *TestClient) DeleteMessage(chatID int64, messageID int) (*APIResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Deleted = append(c.Deleted, [2]int64{chatID, int64(messageID)})
	return &APIResponse{Ok: true}, nil
}

func (c *TestClient) SendChatAction(chatID int64, action ChatAction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Actions = append(c.Actions, action)
	return nil
}

func (c *TestClient) GetFileURL(fileID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.FileURLs[fileID], nil
}

func (c *TestClient) EscapeText(text string) string {
	return tgbotapi.EscapeText(ModeMarkdownV2, text)
}

func (c *TestClient) GetUpdatesChan(config UpdateConfig) <-chan tgbotapi.Update {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (c *TestClient) NewUpdate(offset, timeout, limit int) UpdateConfig {
	return UpdateConfig{Offset: offset, Limit: limit, Timeout: timeout}
}

func (c *TestClient) Self() User {
	return User{ID: 1, UserName: "aifusionbot"}
}

// SentTexts returns the text of every plain text message sent, in order.
func (c *TestClient) SentTexts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	texts := make([]string, 0, len(c.Sent))
	for _, msg := range c.Sent {
		if text, ok := msg.(TextMessage); ok {
			texts = append(texts, text.Text)
		}
	}
	return texts
}

// LastText returns the most recently sent plain text message, or "".
func (c *TestClient) LastText() string {
	texts := c.SentTexts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}
