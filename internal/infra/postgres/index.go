package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/repository"
)

// LoadIndex reads the juz and page tables once and builds the same
// in-memory index the JSON loader produces.
//
// Expected schema:
//
//	juz_pages(juz int primary key, start_page int, end_page int)
//	page_verses(page int, position int, chapter int, verse int)
func LoadIndex(ctx context.Context, pool *pgxpool.Pool) (*repository.IndexRepository, error) {
	juz, err := loadJuzPages(ctx, pool)
	if err != nil {
		return nil, err
	}

	pages, err := loadPageVerses(ctx, pool)
	if err != nil {
		return nil, err
	}

	return repository.NewIndexRepository(juz, pages)
}

func loadJuzPages(ctx context.Context, pool *pgxpool.Pool) (map[int]repository.PageRange, error) {
	query := `
		SELECT juz, start_page, end_page
		FROM juz_pages
		ORDER BY juz
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query juz pages: %w", err)
	}
	defer rows.Close()

	juz := make(map[int]repository.PageRange, entities.TotalJuz)
	for rows.Next() {
		var (
			n  int
			pr repository.PageRange
		)
		if err = rows.Scan(&n, &pr.Start, &pr.End); err != nil {
			return nil, fmt.Errorf("scan juz pages: %w", err)
		}
		juz[n] = pr
	}

	return juz, rows.Err()
}

func loadPageVerses(ctx context.Context, pool *pgxpool.Pool) (map[int][]entities.VerseRef, error) {
	query := `
		SELECT page, chapter, verse
		FROM page_verses
		ORDER BY page, position
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query page verses: %w", err)
	}
	defer rows.Close()

	pages := make(map[int][]entities.VerseRef)
	for rows.Next() {
		var (
			page int
			ref  entities.VerseRef
		)
		if err = rows.Scan(&page, &ref.Chapter, &ref.Verse); err != nil {
			return nil, fmt.Errorf("scan page verses: %w", err)
		}
		pages[page] = append(pages[page], ref)
	}

	return pages, rows.Err()
}

// StoreIndex replaces both index tables with the given index in one
// transaction, so readers never see a half written table.
func StoreIndex(ctx context.Context, t *Transactor, index *repository.IndexRepository) (int64, error) {
	juz, pages := index.Snapshot()

	var copied int64
	err := t.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE juz_pages, page_verses`); err != nil {
			return fmt.Errorf("truncate index: %w", err)
		}

		batch := &pgx.Batch{}
		for n, pr := range juz {
			batch.Queue(`INSERT INTO juz_pages (juz, start_page, end_page) VALUES ($1, $2, $3)`, n, pr.Start, pr.End)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert juz pages: %w", err)
		}

		rows := make([][]any, 0, len(pages)*16)
		for page, refs := range pages {
			for pos, ref := range refs {
				rows = append(rows, []any{page, pos, ref.Chapter, ref.Verse})
			}
		}

		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"page_verses"},
			[]string{"page", "position", "chapter", "verse"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy page verses: %w", err)
		}
		copied = n
		return nil
	})

	return copied, err
}
