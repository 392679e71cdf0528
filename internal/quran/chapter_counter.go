package quran

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

type LocalChapters interface {
	VerseCount(ctx context.Context, chapter int) (int, error)
}

type RemoteChapters interface {
	ChapterVerseCount(ctx context.Context, chapter int) (int, error)
}

// ChapterCounter answers chapter lengths from the bundled chapter table and
// falls back to the API for anything the table cannot answer.
// Remote answers are cached for the life of the process.
type ChapterCounter struct {
	local  LocalChapters
	remote RemoteChapters
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[int]int
}

// NewChapterCounter accepts a nil local table or a nil remote, but not both.
func NewChapterCounter(local LocalChapters, remote RemoteChapters, logger *zap.Logger) *ChapterCounter {
	return &ChapterCounter{
		local:  local,
		remote: remote,
		logger: logger,
		cache:  make(map[int]int),
	}
}

func (c *ChapterCounter) VerseCount(ctx context.Context, chapter int) (int, error) {
	if chapter < entities.FirstChapter || chapter > entities.LastChapter {
		return 0, fmt.Errorf("chapter %d: %w", chapter, ErrChapterNotFound)
	}

	if c.local != nil {
		n, err := c.local.VerseCount(ctx, chapter)
		if err == nil && n > 0 {
			return n, nil
		}
		if err != nil {
			c.logger.Debug("local chapter table miss", zap.Int("chapter", chapter), zap.Error(err))
		}
	}

	c.mu.RLock()
	n, ok := c.cache[chapter]
	c.mu.RUnlock()
	if ok {
		return n, nil
	}

	if c.remote == nil {
		return 0, fmt.Errorf("chapter %d: %w", chapter, ErrChapterNotFound)
	}

	n, err := c.remote.ChapterVerseCount(ctx, chapter)
	if err != nil {
		if !errors.Is(err, ErrChapterNotFound) {
			c.logger.Warn("failed to fetch chapter length", zap.Int("chapter", chapter), zap.Error(err))
		}
		return 0, err
	}

	c.mu.Lock()
	c.cache[chapter] = n
	c.mu.Unlock()

	return n, nil
}
