package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	FirstChapter = 1   // Al-Fatiha
	LastChapter  = 114 // An-Nas
	TotalJuz     = 30
)

var ErrInvalidVerseKey = errors.New("invalid verse key")

// VerseRef addresses a single verse (ayah) by chapter (surah) and verse number.
type VerseRef struct {
	Chapter int `json:"chapter"` // surah number, 1..114
	Verse   int `json:"verse"`   // ayah number inside the surah, from 1
}

// Key returns the "chapter:verse" form used by the upstream API and the page index.
func (r VerseRef) Key() string {
	return strconv.Itoa(r.Chapter) + ":" + strconv.Itoa(r.Verse)
}

func (r VerseRef) String() string {
	return r.Key()
}

// Valid reports whether the reference can exist at all. It does not know
// chapter lengths, so the upper verse bound is not checked.
func (r VerseRef) Valid() bool {
	return r.Chapter >= FirstChapter && r.Chapter <= LastChapter && r.Verse >= 1
}

// ParseVerseRef parses a "chapter:verse" key.
func ParseVerseRef(key string) (VerseRef, error) {
	chapterStr, verseStr, ok := strings.Cut(strings.TrimSpace(key), ":")
	if !ok {
		return VerseRef{}, fmt.Errorf("%w: %q", ErrInvalidVerseKey, key)
	}

	chapter, err := strconv.Atoi(chapterStr)
	if err != nil {
		return VerseRef{}, fmt.Errorf("%w: %q", ErrInvalidVerseKey, key)
	}
	verse, err := strconv.Atoi(verseStr)
	if err != nil {
		return VerseRef{}, fmt.Errorf("%w: %q", ErrInvalidVerseKey, key)
	}

	ref := VerseRef{Chapter: chapter, Verse: verse}
	if !ref.Valid() {
		return VerseRef{}, fmt.Errorf("%w: %q", ErrInvalidVerseKey, key)
	}

	return ref, nil
}

// NextRef returns the verse that follows ref in mushaf order.
// verseCount is the number of verses in ref's chapter.
// After the last verse of a chapter comes verse 1 of the next one;
// after the last verse of chapter 114 there is nothing.
func NextRef(ref VerseRef, verseCount int) (VerseRef, bool) {
	if ref.Verse < verseCount {
		return VerseRef{Chapter: ref.Chapter, Verse: ref.Verse + 1}, true
	}
	if ref.Chapter >= LastChapter {
		return VerseRef{}, false
	}
	return VerseRef{Chapter: ref.Chapter + 1, Verse: 1}, true
}

// PrevRef returns the verse that precedes ref in mushaf order.
// prevChapterVerseCount is only consulted when ref is the first verse of
// its chapter, and must then hold the length of chapter ref.Chapter-1.
func PrevRef(ref VerseRef, prevChapterVerseCount int) (VerseRef, bool) {
	if ref.Verse > 1 {
		return VerseRef{Chapter: ref.Chapter, Verse: ref.Verse - 1}, true
	}
	if ref.Chapter <= FirstChapter || prevChapterVerseCount < 1 {
		return VerseRef{}, false
	}
	return VerseRef{Chapter: ref.Chapter - 1, Verse: prevChapterVerseCount}, true
}

// VerseText is a resolved verse together with its reference.
type VerseText struct {
	Ref  VerseRef
	Text string
}

// VerseContext is the bundle shown for one question: the verse itself,
// up to two verses after it and up to two verses before it.
type VerseContext struct {
	Ref  VerseRef
	Main string
	Next []VerseText // nearest first
	Prev []VerseText // reading order: farthest first, nearest last
}

// Partial reports whether fewer than two neighbours were resolved on
// either side, because of a corpus edge or a failed lookup.
func (c *VerseContext) Partial() bool {
	return len(c.Next) < 2 || len(c.Prev) < 2
}

// NextTexts returns the following verses' texts in order.
func (c *VerseContext) NextTexts() []string {
	return texts(c.Next)
}

// PrevTexts returns the preceding verses' texts in reading order.
func (c *VerseContext) PrevTexts() []string {
	return texts(c.Prev)
}

func texts(vs []VerseText) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Text)
	}
	return out
}
