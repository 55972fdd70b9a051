package session

import (
	"fmt"
	"sync"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	DefaultTemperature = 0.5
	DefaultMaxTokens   = 1024

	MinTemperature = 0.0
	MaxTemperature = 1.0
	MinTokens      = 100
	MaxTokens      = 4096
)

// Message is a single chat history entry. Entries are immutable once
// appended; order is chronological.
type Message struct {
	Role    string
	Content string
}

// Session holds one user's mutable bot state. It lives for the process
// lifetime only and is mutated exclusively by that user's own handlers;
// the mutex guards against concurrent reads from formatting code.
type Session struct {
	UserID int64

	mu                 sync.RWMutex
	temperature        float64
	maxTokens          int
	history            []Message
	chatAPIKey         string
	imageAPIKey        string
	lastEnhancedPrompt string
}

func New(userID int64) *Session {
	return &Session{
		UserID:      userID,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
}

func (s *Session) Temperature() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.temperature
}

// SetTemperature rejects values outside [0.0, 1.0] without mutating state.
func (s *Session) SetTemperature(value float64) error {
	if value < MinTemperature || value > MaxTemperature {
		return fmt.Errorf("temperature must be between %.1f and %.1f", MinTemperature, MaxTemperature)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temperature = value
	return nil
}

func (s *Session) MaxTokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxTokens
}

// SetMaxTokens rejects values outside [100, 4096] without mutating state.
func (s *Session) SetMaxTokens(value int) error {
	if value < MinTokens || value > MaxTokens {
		return fmt.Errorf("max tokens must be between %d and %d", MinTokens, MaxTokens)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxTokens = value
	return nil
}

func (s *Session) ChatAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatAPIKey
}

func (s *Session) SetChatAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatAPIKey = key
}

func (s *Session) ImageAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imageAPIKey
}

func (s *Session) SetImageAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imageAPIKey = key
}

func (s *Session) LastEnhancedPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastEnhancedPrompt
}

func (s *Session) SetLastEnhancedPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEnhancedPrompt = prompt
}

// AppendHistory records a user or assistant message at the end of the
// chronological history.
func (s *Session) AppendHistory(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Message{Role: role, Content: content})
}

// History returns a snapshot copy; callers cannot mutate stored entries.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.history...)
}

func (s *Session) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// ClearHistory drops all entries atomically.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
