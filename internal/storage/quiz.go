package storage

import (
	"errors"
	"sync"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

var ErrSessionNotFound = errors.New("quiz session not found")

// QuizStorage provides in-memory storage for quiz sessions by chat ID.
// Callers only ever see copies; changes go through Update.
type QuizStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.QuizSession
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		sessions: make(map[int64]*entities.QuizSession),
	}
}

// Put saves a session, replacing any previous session of the chat.
func (s *QuizStorage) Put(session *entities.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ChatID] = session.Clone()
}

// Get returns a copy of the chat's session.
func (s *QuizStorage) Get(chatID int64) (*entities.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return nil, false
	}
	return session.Clone(), true
}

// Update runs fn on the stored session under the write lock and returns a
// copy of the result. fn must leave the session untouched when it fails.
func (s *QuizStorage) Update(chatID int64, fn func(*entities.QuizSession) error) (*entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	return session.Clone(), nil
}

// Delete removes the chat's session.
func (s *QuizStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
