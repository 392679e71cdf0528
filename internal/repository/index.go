package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

var (
	ErrSectionNotFound = errors.New("juz not found")
	ErrPageNotFound    = errors.New("page has no verses")
	ErrInvalidIndex    = errors.New("invalid page index")
)

// PageRange is an inclusive range of mushaf pages.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IndexRepository holds the two precomputed mushaf tables the quiz samples
// from: juz -> page range and page -> verse keys on that page.
type IndexRepository struct {
	juz   map[int]PageRange
	pages map[int][]entities.VerseRef
}

// NewIndexRepository validates the tables and wraps them.
func NewIndexRepository(juz map[int]PageRange, pages map[int][]entities.VerseRef) (*IndexRepository, error) {
	for n, r := range juz {
		if n < 1 || n > entities.TotalJuz {
			return nil, fmt.Errorf("juz %d: %w", n, ErrInvalidIndex)
		}
		if r.Start < 1 || r.End < r.Start {
			return nil, fmt.Errorf("juz %d range %d-%d: %w", n, r.Start, r.End, ErrInvalidIndex)
		}
	}

	for page, refs := range pages {
		for _, ref := range refs {
			if !ref.Valid() {
				return nil, fmt.Errorf("page %d verse %s: %w", page, ref, ErrInvalidIndex)
			}
		}
	}

	return &IndexRepository{juz: juz, pages: pages}, nil
}

// LoadIndexFromFiles reads juz.json ({"1": {"start": 1, "end": 21}, ...}) and
// pages.json ({"1": ["1:1", "1:2", ...], ...}).
func LoadIndexFromFiles(juzPath, pagesPath string) (*IndexRepository, error) {
	var rawJuz map[string]PageRange
	if err := readJSON(juzPath, &rawJuz); err != nil {
		return nil, fmt.Errorf("load juz index: %w", err)
	}

	var rawPages map[string][]string
	if err := readJSON(pagesPath, &rawPages); err != nil {
		return nil, fmt.Errorf("load page index: %w", err)
	}

	juz := make(map[int]PageRange, len(rawJuz))
	for k, r := range rawJuz {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("juz key %q: %w", k, ErrInvalidIndex)
		}
		juz[n] = r
	}

	pages := make(map[int][]entities.VerseRef, len(rawPages))
	for k, keys := range rawPages {
		page, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("page key %q: %w", k, ErrInvalidIndex)
		}

		refs := make([]entities.VerseRef, 0, len(keys))
		for _, key := range keys {
			ref, err := entities.ParseVerseRef(key)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", page, err)
			}
			refs = append(refs, ref)
		}
		pages[page] = refs
	}

	return NewIndexRepository(juz, pages)
}

// PageRange returns the inclusive page range of a juz (1-30).
func (r *IndexRepository) PageRange(_ context.Context, juz int) (PageRange, error) {
	pr, ok := r.juz[juz]
	if !ok {
		return PageRange{}, ErrSectionNotFound
	}
	return pr, nil
}

// VersesOnPage returns the ordered verse references printed on a page.
func (r *IndexRepository) VersesOnPage(_ context.Context, page int) ([]entities.VerseRef, error) {
	refs := r.pages[page]
	if len(refs) == 0 {
		return nil, ErrPageNotFound
	}
	return refs, nil
}

// Snapshot returns copies of both tables.
func (r *IndexRepository) Snapshot() (map[int]PageRange, map[int][]entities.VerseRef) {
	juz := make(map[int]PageRange, len(r.juz))
	for n, pr := range r.juz {
		juz[n] = pr
	}

	pages := make(map[int][]entities.VerseRef, len(r.pages))
	for page, refs := range r.pages {
		pages[page] = slices.Clone(refs)
	}

	return juz, pages
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

// WritePageIndex writes a page table in the format LoadIndexFromFiles reads.
func WritePageIndex(path string, pages map[int][]entities.VerseRef) error {
	raw := make(map[string][]string, len(pages))
	for page, refs := range pages {
		keys := make([]string, 0, len(refs))
		for _, ref := range refs {
			keys = append(keys, ref.Key())
		}
		raw[strconv.Itoa(page)] = keys
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}
