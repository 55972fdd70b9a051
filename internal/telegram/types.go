package telegram

import (
	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

type ParseMode = string

const (
	ModeMarkdown   = "Markdown"
	ModeMarkdownV2 = "MarkdownV2"
)

type (
	Update          = tgbotapi.Update
	MessageOriginal = tgbotapi.Message
	MessageEntity   = tgbotapi.MessageEntity
	UserOriginal    = tgbotapi.User
	ChatOriginal    = tgbotapi.Chat
	PhotoSize       = tgbotapi.PhotoSize
	FileBytes       = tgbotapi.FileBytes
	FileURL         = tgbotapi.FileURL
	Chattable       = tgbotapi.Chattable
	RequestFileData = tgbotapi.RequestFileData
	APIResponse     = tgbotapi.APIResponse

	InlineKeyboardMarkup = tgbotapi.InlineKeyboardMarkup
	InlineKeyboardButton = tgbotapi.InlineKeyboardButton
)

func NewInlineKeyboardMarkup(rows ...[]InlineKeyboardButton) InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func NewInlineKeyboardRow(buttons ...InlineKeyboardButton) []InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(buttons...)
}

func NewInlineKeyboardButtonData(text, data string) InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

type Message struct {
	MessageID int
	Chat      Chat
	Text      string
	From      User
	Command   string
}

type User struct {
	ID        int64
	FirstName string
	UserName  string
}

type Chat struct {
	ID   int64
	Type string
}

type MessageConfig interface {
	ToChattable() tgbotapi.Chattable
}

type CallbackConfig struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

func NewCallback(id, text string) CallbackConfig {
	return CallbackConfig{
		CallbackQueryID: id,
		Text:            text,
		ShowAlert:       false,
	}
}

func (c CallbackConfig) ToChattable() tgbotapi.Chattable {
	config := tgbotapi.NewCallback(c.CallbackQueryID, c.Text)
	config.ShowAlert = c.ShowAlert
	return config
}

type TextMessage struct {
	ChatID              int64
	Text                string
	ReplyTo             int
	ReplyMarkup         *InlineKeyboardMarkup
	LinkPreviewDisabled bool
	ParseMode           ParseMode
}

func NewMessage(chatID int64, text string, replyTo int) TextMessage {
	return TextMessage{
		ChatID:  chatID,
		Text:    text,
		ReplyTo: replyTo,
	}
}

func (m TextMessage) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyParameters.MessageID = m.ReplyTo
	msg.ParseMode = m.ParseMode
	if m.ReplyMarkup != nil {
		msg.ReplyMarkup = m.ReplyMarkup
	}
	msg.LinkPreviewOptions.IsDisabled = m.LinkPreviewDisabled
	return msg
}

type PhotoMessage struct {
	ChatID    int64
	Photo     RequestFileData
	Caption   string
	ReplyTo   int
	ParseMode string
}

func NewPhotoMessage(chatID int64, photo RequestFileData, caption string, replyTo int) PhotoMessage {
	return PhotoMessage{
		ChatID:  chatID,
		Photo:   photo,
		Caption: caption,
		ReplyTo: replyTo,
	}
}

func (m PhotoMessage) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewPhoto(m.ChatID, m.Photo)
	msg.Caption = m.Caption
	msg.ReplyParameters.MessageID = m.ReplyTo
	msg.ParseMode = m.ParseMode
	return msg
}

type DocumentMessage struct {
	ChatID   int64
	Document RequestFileData
	Caption  string
	ReplyTo  int
}

func NewDocumentMessage(chatID int64, document RequestFileData, caption string, replyTo int) DocumentMessage {
	return DocumentMessage{
		ChatID:   chatID,
		Document: document,
		Caption:  caption,
		ReplyTo:  replyTo,
	}
}

func (m DocumentMessage) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewDocument(m.ChatID, m.Document)
	msg.Caption = m.Caption
	msg.ReplyParameters.MessageID = m.ReplyTo
	return msg
}

type EditMessageTextConfig struct {
	ChatID      int64
	MessageID   int
	Text        string
	ParseMode   string
	ReplyMarkup *InlineKeyboardMarkup
}

func NewEditMessageText(chatID int64, messageID int, text string) EditMessageTextConfig {
	return EditMessageTextConfig{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}
}

func (m EditMessageTextConfig) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewEditMessageText(m.ChatID, m.MessageID, m.Text)
	msg.ParseMode = m.ParseMode
	msg.ReplyMarkup = m.ReplyMarkup
	return msg
}

type UpdateConfig struct {
	Offset  int
	Limit   int
	Timeout int
}

type ChatAction string

const (
	ActionTyping         ChatAction = "typing"
	ActionUploadPhoto    ChatAction = "upload_photo"
	ActionUploadDocument ChatAction = "upload_document"
)

type Client interface {
	Send(msg MessageConfig) (*Message, error)
	SendWithRetry(msg MessageConfig, maxRetryCount int) (*Message, error)
	Request(message MessageConfig) (*APIResponse, error)
	DeleteMessage(chatID int64, messageID int) (*APIResponse, error)
	SendChatAction(chatID int64, action ChatAction) error
	GetFileURL(fileID string) (string, error)
	EscapeText(text string) string
	GetUpdatesChan(config UpdateConfig) <-chan tgbotapi.Update
	NewUpdate(offset, timeout, limit int) UpdateConfig
	Self() User
}
