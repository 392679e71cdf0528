package storage

import (
	"sync"
	"time"
)

// QuestionMessage is the chat message that shows the current question.
type QuestionMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// MessageStorage remembers which message to edit when a chat's question
// changes or its verse context arrives.
type MessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]QuestionMessage
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[int64]QuestionMessage),
	}
}

func (s *MessageStorage) Get(chatID int64) (QuestionMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *MessageStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}

// UpsertAndGetPrev stores the new question message and returns the one it
// replaced, so the caller can strip its keyboard.
func (s *MessageStorage) UpsertAndGetPrev(chatID int64, messageID int) (prev QuestionMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[chatID]

	s.messages[chatID] = QuestionMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}

	return prev, hadPrev
}
