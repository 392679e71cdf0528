package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/repository"
)

var (
	ErrInvalidSection       = errors.New("juz must be between 1 and 30")
	ErrNoSectionsSelected   = errors.New("no juz selected")
	ErrNoQuestionsAvailable = errors.New("no questions available")
)

// QuestionSampler draws one verse from each tenth of the selected pages.
type QuestionSampler struct {
	index IndexRepository
	rnd   Rand
}

func NewQuestionSampler(index IndexRepository, rnd Rand) *QuestionSampler {
	if rnd == nil {
		rnd = DefaultRand()
	}
	return &QuestionSampler{index: index, rnd: rnd}
}

// GenerateQuestions returns at most SectionsPerQuiz questions in random order.
// Each question comes from a different page group, so the quiz covers the
// whole selection evenly.
func (s *QuestionSampler) GenerateQuestions(ctx context.Context, selected []int) ([]entities.Question, error) {
	pages, err := s.CandidatePages(ctx, selected)
	if err != nil {
		return nil, err
	}

	seen := make(map[entities.VerseRef]struct{}, SectionsPerQuiz)
	questions := make([]entities.Question, 0, SectionsPerQuiz)

	for _, group := range Partition(pages, SectionsPerQuiz) {
		if len(group) == 0 {
			continue
		}

		page := group[s.rnd.Intn(len(group))]

		refs, err := s.index.VersesOnPage(ctx, page)
		if errors.Is(err, repository.ErrPageNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("verses on page %d: %w", page, err)
		}

		ref := refs[s.rnd.Intn(len(refs))]
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		questions = append(questions, entities.Question{
			Chapter: ref.Chapter,
			Verse:   ref.Verse,
			Page:    page,
		})
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	s.rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return questions, nil
}

// CandidatePages validates the selection and returns the pages it covers in
// ascending juz order, each page once.
func (s *QuestionSampler) CandidatePages(ctx context.Context, selected []int) ([]int, error) {
	if len(selected) == 0 {
		return nil, ErrNoSectionsSelected
	}

	for _, juz := range selected {
		if juz < 1 || juz > entities.TotalJuz {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSection, juz)
		}
	}

	sections := lo.Uniq(selected)
	slices.Sort(sections)

	var pages []int
	seen := make(map[int]struct{})
	for _, juz := range sections {
		pr, err := s.index.PageRange(ctx, juz)
		if err != nil {
			return nil, fmt.Errorf("juz %d: %w", juz, err)
		}

		for p := pr.Start; p <= pr.End; p++ {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			pages = append(pages, p)
		}
	}

	return pages, nil
}
