package service

import (
	"github.com/samber/lo"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

const (
	optionsPerQuestion = 4
	nearBand           = 3
	mediumBand         = 10
)

// OptionGenerator builds the "which surah" multiple choice. Distractors are
// biased towards neighbouring surahs so the question is not trivial.
type OptionGenerator struct {
	rnd Rand
}

// NewOptionGenerator creates a new option generator.
func NewOptionGenerator(rnd Rand) *OptionGenerator {
	if rnd == nil {
		rnd = DefaultRand()
	}
	return &OptionGenerator{rnd: rnd}
}

// Options returns four shuffled options with exactly one correct: two
// distractors within 3 surahs of the answer, one within 10 but farther than
// 3, and random surahs for whatever a band could not supply.
func (g *OptionGenerator) Options(correct int) []entities.ChapterOption {
	used := map[int]bool{correct: true}
	distractors := make([]int, 0, optionsPerQuestion-1)

	near := band(correct, 0, nearBand)
	medium := band(correct, nearBand, mediumBand)

	for i := 0; i < 2; i++ {
		if n, ok := g.pick(near, used); ok {
			distractors = append(distractors, n)
			used[n] = true
		}
	}
	if n, ok := g.pick(medium, used); ok {
		distractors = append(distractors, n)
		used[n] = true
	}

	all := lo.RangeFrom(entities.FirstChapter, entities.LastChapter-entities.FirstChapter+1)
	for len(distractors) < optionsPerQuestion-1 {
		n, ok := g.pick(all, used)
		if !ok {
			break
		}
		distractors = append(distractors, n)
		used[n] = true
	}

	options := make([]entities.ChapterOption, 0, optionsPerQuestion)
	options = append(options, entities.ChapterOption{Chapter: correct, Correct: true})
	for _, n := range distractors {
		options = append(options, entities.ChapterOption{Chapter: n})
	}

	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}

func (g *OptionGenerator) pick(candidates []int, used map[int]bool) (int, bool) {
	free := lo.Filter(candidates, func(n int, _ int) bool { return !used[n] })
	if len(free) == 0 {
		return 0, false
	}
	return free[g.rnd.Intn(len(free))], true
}

// band returns the valid surahs whose distance from center is in (minDist, maxDist].
func band(center, minDist, maxDist int) []int {
	low := max(center-maxDist, entities.FirstChapter)
	high := min(center+maxDist, entities.LastChapter)

	out := make([]int, 0, 2*maxDist)
	for n := low; n <= high; n++ {
		d := n - center
		if d < 0 {
			d = -d
		}
		if d > minDist {
			out = append(out, n)
		}
	}
	return out
}
