package service

import (
	"context"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

type ChapterRepository interface {
	GetByNumber(ctx context.Context, number int) (*entities.Chapter, error)
	GetAll(ctx context.Context) ([]*entities.Chapter, error)
}

type ChapterService struct {
	repository ChapterRepository
}

func NewChapterService(repository ChapterRepository) *ChapterService {
	return &ChapterService{repository: repository}
}

func (s *ChapterService) GetByNumber(ctx context.Context, number int) (*entities.Chapter, error) {
	return s.repository.GetByNumber(ctx, number)
}

func (s *ChapterService) GetAll(ctx context.Context) ([]*entities.Chapter, error) {
	return s.repository.GetAll(ctx)
}

// Names maps chapter numbers to chapters for rendering option buttons.
// Unknown numbers are left out.
func (s *ChapterService) Names(ctx context.Context, numbers ...int) map[int]*entities.Chapter {
	out := make(map[int]*entities.Chapter, len(numbers))
	for _, n := range numbers {
		if ch, err := s.repository.GetByNumber(ctx, n); err == nil {
			out[n] = ch
		}
	}
	return out
}
