package service

import (
	"sync"
	"time"

	"github.com/clausecloud/backend/model"
)

// ChatStore keeps per-contract conversation logs in memory. Each contract's
// history is one append-only ordered log; turns are never edited or removed
// individually.
type ChatStore struct {
	mu            sync.RWMutex
	conversations map[string][]model.ChatMessage
}

// NewChatStore creates an empty chat store
func NewChatStore() *ChatStore {
	return &ChatStore{
		conversations: make(map[string][]model.ChatMessage),
	}
}

// AddMessage appends one turn to a contract's history. A zero timestamp is
// set at append time.
func (s *ChatStore) AddMessage(contractID string, message model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(contractID, message)
}

// AddExchange appends a user/assistant pair under one lock so concurrent
// chats on the same contract cannot interleave inside a pair.
func (s *ChatStore) AddExchange(contractID string, userMessage, assistantMessage model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(contractID, userMessage)
	s.append(contractID, assistantMessage)
}

// append must be called with the lock held
func (s *ChatStore) append(contractID string, message model.ChatMessage) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	s.conversations[contractID] = append(s.conversations[contractID], message)
}

// GetHistory returns a copy of a contract's history, empty when absent
func (s *ChatStore) GetHistory(contractID string) []model.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.conversations[contractID]
	result := make([]model.ChatMessage, len(history))
	copy(result, history)
	return result
}

// ClearHistory removes one contract's conversation
func (s *ChatStore) ClearHistory(contractID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, contractID)
}

// ClearAll removes every conversation
func (s *ChatStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = make(map[string][]model.ChatMessage)
}
