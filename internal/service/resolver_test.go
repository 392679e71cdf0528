package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/auth"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/quran"
)

var testChapterLengths = map[int]int{1: 7, 2: 286, 3: 200, 112: 4, 113: 5, 114: 6}

type fakeChapters map[int]int

func (f fakeChapters) VerseCount(_ context.Context, chapter int) (int, error) {
	n, ok := f[chapter]
	if !ok {
		return 0, quran.ErrChapterNotFound
	}
	return n, nil
}

// fakeVerses serves "c:v" as the text of every verse that exists.
type fakeVerses struct {
	chapters fakeChapters
	fail     map[entities.VerseRef]error

	mu      sync.Mutex
	fetched []entities.VerseRef
}

func (f *fakeVerses) VerseText(_ context.Context, ref entities.VerseRef) (string, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, ref)
	f.mu.Unlock()

	if err, ok := f.fail[ref]; ok {
		return "", err
	}
	if n, ok := f.chapters[ref.Chapter]; !ok || ref.Verse > n {
		return "", quran.ErrVerseNotFound
	}
	return ref.Key(), nil
}

func newTestResolver(fail map[entities.VerseRef]error) (*ContextResolver, *fakeVerses) {
	chapters := fakeChapters(testChapterLengths)
	verses := &fakeVerses{chapters: chapters, fail: fail}
	return NewContextResolver(verses, chapters, zap.NewNop()), verses
}

func keys(vs []entities.VerseText) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Ref.Key())
	}
	return out
}

func TestResolveContext(t *testing.T) {
	tests := []struct {
		ref  entities.VerseRef
		next []string
		prev []string
	}{
		{entities.VerseRef{Chapter: 2, Verse: 255}, []string{"2:256", "2:257"}, []string{"2:253", "2:254"}},
		{entities.VerseRef{Chapter: 2, Verse: 286}, []string{"3:1", "3:2"}, []string{"2:284", "2:285"}},
		{entities.VerseRef{Chapter: 2, Verse: 285}, []string{"2:286", "3:1"}, []string{"2:283", "2:284"}},
		{entities.VerseRef{Chapter: 2, Verse: 1}, []string{"2:2", "2:3"}, []string{"1:6", "1:7"}},
		{entities.VerseRef{Chapter: 2, Verse: 2}, []string{"2:3", "2:4"}, []string{"1:7", "2:1"}},
		{entities.VerseRef{Chapter: 1, Verse: 1}, []string{"1:2", "1:3"}, []string{}},
		{entities.VerseRef{Chapter: 1, Verse: 2}, []string{"1:3", "1:4"}, []string{"1:1"}},
		{entities.VerseRef{Chapter: 114, Verse: 6}, []string{}, []string{"114:4", "114:5"}},
		{entities.VerseRef{Chapter: 114, Verse: 5}, []string{"114:6"}, []string{"114:3", "114:4"}},
		{entities.VerseRef{Chapter: 114, Verse: 1}, []string{"114:2", "114:3"}, []string{"113:4", "113:5"}},
	}

	for _, tt := range tests {
		t.Run(tt.ref.Key(), func(t *testing.T) {
			r, _ := newTestResolver(nil)

			vc, err := r.ResolveContext(context.Background(), tt.ref)
			if err != nil {
				t.Fatalf("ResolveContext: %v", err)
			}

			if vc.Main != tt.ref.Key() {
				t.Errorf("main = %q", vc.Main)
			}
			if got := keys(vc.Next); fmt.Sprint(got) != fmt.Sprint(tt.next) {
				t.Errorf("next = %v, want %v", got, tt.next)
			}
			if got := keys(vc.Prev); fmt.Sprint(got) != fmt.Sprint(tt.prev) {
				t.Errorf("prev = %v, want %v", got, tt.prev)
			}
			if want := len(tt.next) < 2 || len(tt.prev) < 2; vc.Partial() != want {
				t.Errorf("Partial() = %v, want %v", vc.Partial(), want)
			}
		})
	}
}

func TestResolveContextMainFailure(t *testing.T) {
	ref := entities.VerseRef{Chapter: 2, Verse: 255}

	tests := []struct {
		name  string
		cause error
	}{
		{"not found", quran.ErrVerseNotFound},
		{"upstream error", quran.ErrUnexpectedStatus},
		{"token", auth.ErrTokenAcquisitionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, verses := newTestResolver(map[entities.VerseRef]error{ref: tt.cause})

			vc, err := r.ResolveContext(context.Background(), ref)
			if vc != nil {
				t.Error("expected no context")
			}
			if !errors.Is(err, ErrVerseResolutionFailed) {
				t.Errorf("error = %v, want ErrVerseResolutionFailed", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want it to wrap %v", err, tt.cause)
			}
			if len(verses.fetched) != 1 {
				t.Errorf("fetched %v after the main verse failed", verses.fetched)
			}
		})
	}
}

func TestResolveContextKeepsPartialResults(t *testing.T) {
	ref := entities.VerseRef{Chapter: 2, Verse: 10}
	r, _ := newTestResolver(map[entities.VerseRef]error{
		{Chapter: 2, Verse: 12}: quran.ErrUnexpectedStatus,
		{Chapter: 2, Verse: 9}:  quran.ErrVerseNotFound,
	})

	vc, err := r.ResolveContext(context.Background(), ref)
	if err != nil {
		t.Fatalf("ResolveContext: %v", err)
	}

	if got := keys(vc.Next); fmt.Sprint(got) != "[2:11]" {
		t.Errorf("next = %v, want [2:11]", got)
	}
	if len(vc.Prev) != 0 {
		t.Errorf("prev = %v, want empty", keys(vc.Prev))
	}
	if !vc.Partial() {
		t.Error("context should be partial")
	}
}

func TestResolveContextErrorIsNotABoundary(t *testing.T) {
	// 2:286 failing with a server error must not be read as "chapter 2 ended
	// at 285" and jump to 3:1.
	ref := entities.VerseRef{Chapter: 2, Verse: 285}
	r, verses := newTestResolver(map[entities.VerseRef]error{
		{Chapter: 2, Verse: 286}: quran.ErrUnexpectedStatus,
	})

	vc, err := r.ResolveContext(context.Background(), ref)
	if err != nil {
		t.Fatalf("ResolveContext: %v", err)
	}
	if len(vc.Next) != 0 {
		t.Errorf("next = %v, want empty", keys(vc.Next))
	}
	for _, f := range verses.fetched {
		if f.Chapter == 3 {
			t.Errorf("fetched %s across a boundary that was never reached", f)
		}
	}
}

func TestResolveContextChapterLengthFailure(t *testing.T) {
	chapters := fakeChapters{2: 286}
	verses := &fakeVerses{chapters: fakeChapters(testChapterLengths)}
	r := NewContextResolver(verses, chapters, zap.NewNop())

	vc, err := r.ResolveContext(context.Background(), entities.VerseRef{Chapter: 2, Verse: 1})
	if err != nil {
		t.Fatalf("ResolveContext: %v", err)
	}
	if len(vc.Prev) != 0 {
		t.Errorf("prev = %v, want empty when chapter 1 length is unknown", keys(vc.Prev))
	}
	if len(vc.Next) != 2 {
		t.Errorf("next = %v", keys(vc.Next))
	}
}

func TestResolveContextInvalidReference(t *testing.T) {
	r, verses := newTestResolver(nil)

	for _, ref := range []entities.VerseRef{{Chapter: 0, Verse: 1}, {Chapter: 115, Verse: 1}, {Chapter: 2, Verse: 0}} {
		if _, err := r.ResolveContext(context.Background(), ref); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("ResolveContext(%s) error = %v, want ErrInvalidReference", ref, err)
		}
	}
	if len(verses.fetched) != 0 {
		t.Error("invalid references reached the upstream")
	}
}

func TestResolveContextCancelled(t *testing.T) {
	r, _ := newTestResolver(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.ResolveContext(ctx, entities.VerseRef{Chapter: 2, Verse: 2}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
