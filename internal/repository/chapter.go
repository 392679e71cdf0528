package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrInvalidChapter  = errors.New("invalid chapter number")
)

// ChapterRepository provides access to the 114 surahs of the Qur'an.
// The table is read once from a JSON file and kept in memory.
type ChapterRepository struct {
	chapters []*entities.Chapter
}

// NewChapterRepository creates a new ChapterRepository from the JSON file at path.
func NewChapterRepository(path string) (*ChapterRepository, error) {
	chapters, err := get114Chapters(path)
	if err != nil {
		return nil, err
	}

	return NewChapterRepositoryFrom(chapters)
}

// NewChapterRepositoryFrom creates a repository from an already loaded table.
func NewChapterRepositoryFrom(chapters []*entities.Chapter) (*ChapterRepository, error) {
	if len(chapters) != entities.LastChapter {
		return nil, fmt.Errorf("expected %d chapters, got %d", entities.LastChapter, len(chapters))
	}

	ordered := make([]*entities.Chapter, entities.LastChapter)
	for _, c := range chapters {
		if c.Number < entities.FirstChapter || c.Number > entities.LastChapter {
			return nil, fmt.Errorf("chapter %d: %w", c.Number, ErrInvalidChapter)
		}
		if ordered[c.Number-1] != nil {
			return nil, fmt.Errorf("duplicate chapter %d", c.Number)
		}
		ordered[c.Number-1] = c
	}

	return &ChapterRepository{chapters: ordered}, nil
}

// GetByNumber retrieves a chapter by its number (1-114).
func (r *ChapterRepository) GetByNumber(_ context.Context, number int) (*entities.Chapter, error) {
	if number < entities.FirstChapter || number > entities.LastChapter {
		return nil, ErrInvalidChapter
	}

	c := r.chapters[number-1]
	if c == nil {
		return nil, ErrChapterNotFound
	}

	return c, nil
}

// GetAll retrieves all 114 chapters in mushaf order.
func (r *ChapterRepository) GetAll(_ context.Context) ([]*entities.Chapter, error) {
	return r.chapters, nil
}

// VerseCount returns the number of verses of a chapter as recorded in the
// local table. Zero means the table does not know it.
func (r *ChapterRepository) VerseCount(ctx context.Context, number int) (int, error) {
	c, err := r.GetByNumber(ctx, number)
	if err != nil {
		return 0, err
	}
	return c.VersesCount, nil
}

func get114Chapters(path string) ([]*entities.Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Chapters []*entities.Chapter `json:"chapters"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chapters JSON: %w", err)
	}

	return wrapper.Chapters, nil
}
