package service

import (
	"context"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/repository"
)

// IndexRepository is the read-only mushaf index the sampler draws from.
type IndexRepository interface {
	PageRange(ctx context.Context, juz int) (repository.PageRange, error)
	VersesOnPage(ctx context.Context, page int) ([]entities.VerseRef, error)
}

// VerseSource fetches the text of a single verse.
type VerseSource interface {
	VerseText(ctx context.Context, ref entities.VerseRef) (string, error)
}

// ChapterLengths reports how many verses a chapter has.
type ChapterLengths interface {
	VerseCount(ctx context.Context, chapter int) (int, error)
}

type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, selected []int) ([]entities.Question, error)
}

type VerseContextResolver interface {
	ResolveContext(ctx context.Context, ref entities.VerseRef) (*entities.VerseContext, error)
}

// SessionStore keeps one quiz session per chat.
type SessionStore interface {
	Get(chatID int64) (*entities.QuizSession, bool)
	Put(s *entities.QuizSession)
	Update(chatID int64, fn func(s *entities.QuizSession) error) (*entities.QuizSession, error)
	Delete(chatID int64)
}

// InflightRegistry tracks the running context resolution of each chat.
type InflightRegistry interface {
	Replace(chatID int64, cancel context.CancelFunc) uint64
	Release(chatID int64, token uint64)
	Cancel(chatID int64)
}
