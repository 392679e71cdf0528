package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/quran"
)

const neighbours = 2

var (
	ErrVerseResolutionFailed = errors.New("verse resolution failed")
	ErrInvalidReference      = errors.New("invalid verse reference")
)

// ContextResolver builds the verse bundle for a question: the verse, the two
// verses after it and the two verses before it, crossing chapter boundaries
// where needed.
type ContextResolver struct {
	verses   VerseSource
	chapters ChapterLengths
	logger   *zap.Logger
}

func NewContextResolver(verses VerseSource, chapters ChapterLengths, logger *zap.Logger) *ContextResolver {
	return &ContextResolver{
		verses:   verses,
		chapters: chapters,
		logger:   logger,
	}
}

// ResolveContext fails only when the main verse cannot be fetched. A failure
// while walking forward or backward ends that walk and the verses already
// fetched are returned.
func (r *ContextResolver) ResolveContext(ctx context.Context, ref entities.VerseRef) (*entities.VerseContext, error) {
	if !ref.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, ref)
	}

	main, err := r.verses.VerseText(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerseResolutionFailed, err)
	}

	vc := &entities.VerseContext{Ref: ref, Main: main}

	var g errgroup.Group
	g.Go(func() error {
		vc.Next = r.walkForward(ctx, ref)
		return nil
	})
	g.Go(func() error {
		vc.Prev = r.walkBackward(ctx, ref)
		return nil
	})
	_ = g.Wait()

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerseResolutionFailed, err)
	}

	if vc.Partial() {
		r.logger.Debug("partial verse context",
			zap.String("verse", ref.Key()),
			zap.Int("next", len(vc.Next)),
			zap.Int("prev", len(vc.Prev)),
		)
	}

	return vc, nil
}

func (r *ContextResolver) walkForward(ctx context.Context, ref entities.VerseRef) []entities.VerseText {
	out := make([]entities.VerseText, 0, neighbours)

	cur := ref
	for len(out) < neighbours {
		count, err := r.chapters.VerseCount(ctx, cur.Chapter)
		if err != nil {
			r.warn("next", cur, err)
			break
		}

		next, ok := entities.NextRef(cur, count)
		if !ok {
			break
		}

		text, err := r.verses.VerseText(ctx, next)
		if err != nil {
			r.warn("next", next, err)
			break
		}

		out = append(out, entities.VerseText{Ref: next, Text: text})
		cur = next
	}

	return out
}

// walkBackward collects nearest first and returns reading order.
func (r *ContextResolver) walkBackward(ctx context.Context, ref entities.VerseRef) []entities.VerseText {
	out := make([]entities.VerseText, 0, neighbours)

	cur := ref
	for len(out) < neighbours {
		prevCount := 0
		if cur.Verse == 1 && cur.Chapter > entities.FirstChapter {
			n, err := r.chapters.VerseCount(ctx, cur.Chapter-1)
			if err != nil {
				r.warn("prev", cur, err)
				break
			}
			prevCount = n
		}

		prev, ok := entities.PrevRef(cur, prevCount)
		if !ok {
			break
		}

		text, err := r.verses.VerseText(ctx, prev)
		if err != nil {
			r.warn("prev", prev, err)
			break
		}

		out = append(out, entities.VerseText{Ref: prev, Text: text})
		cur = prev
	}

	return lo.Reverse(out)
}

func (r *ContextResolver) warn(direction string, ref entities.VerseRef, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	r.logger.Warn("stopped extending verse context",
		zap.String("direction", direction),
		zap.String("verse", ref.Key()),
		zap.Bool("not_found", errors.Is(err, quran.ErrVerseNotFound) || errors.Is(err, quran.ErrChapterNotFound)),
		zap.Error(err),
	)
}
