package quran

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

// MushafPages is the page count of the Madani mushaf.
const MushafPages = 604

type PageSource interface {
	PageVerses(ctx context.Context, page int) ([]entities.VerseRef, error)
}

// BuildPageIndex fetches the verse list of pages 1..pages with at most
// concurrency requests in flight. The first failure aborts the build.
func BuildPageIndex(ctx context.Context, src PageSource, pages, concurrency int) (map[int][]entities.VerseRef, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu    sync.Mutex
		index = make(map[int][]entities.VerseRef, pages)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for page := 1; page <= pages; page++ {
		page := page
		g.Go(func() error {
			refs, err := src.PageVerses(gctx, page)
			if err != nil {
				return err
			}

			mu.Lock()
			index[page] = refs
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return index, nil
}
