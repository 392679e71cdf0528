package service

import (
	"testing"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

func TestOptions(t *testing.T) {
	g := NewOptionGenerator(NewSeededRand(11))

	for correct := entities.FirstChapter; correct <= entities.LastChapter; correct++ {
		for run := 0; run < 5; run++ {
			options := g.Options(correct)

			if len(options) != 4 {
				t.Fatalf("correct=%d: got %d options", correct, len(options))
			}

			seen := make(map[int]bool)
			var corrects, near, medium int
			for _, o := range options {
				if o.Chapter < entities.FirstChapter || o.Chapter > entities.LastChapter {
					t.Fatalf("correct=%d: option %d out of range", correct, o.Chapter)
				}
				if seen[o.Chapter] {
					t.Fatalf("correct=%d: duplicate option %d", correct, o.Chapter)
				}
				seen[o.Chapter] = true

				if o.Correct {
					corrects++
					if o.Chapter != correct {
						t.Fatalf("correct=%d: option %d marked correct", correct, o.Chapter)
					}
					continue
				}

				switch d := abs(o.Chapter - correct); {
				case d <= nearBand:
					near++
				case d <= mediumBand:
					medium++
				}
			}

			if corrects != 1 {
				t.Fatalf("correct=%d: %d correct options", correct, corrects)
			}
			if near != 2 || medium != 1 {
				t.Fatalf("correct=%d: near=%d medium=%d, want 2 and 1", correct, near, medium)
			}
		}
	}
}

func TestOptionsCorrectPositionVaries(t *testing.T) {
	g := NewOptionGenerator(NewSeededRand(5))

	positions := make(map[int]bool)
	for i := 0; i < 200; i++ {
		for idx, o := range g.Options(50) {
			if o.Correct {
				positions[idx] = true
			}
		}
	}

	if len(positions) != 4 {
		t.Errorf("correct answer appeared only at positions %v", positions)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
