package entities

// Question is one sampled verse. It is fixed for the whole session.
type Question struct {
	Chapter int `json:"chapter"` // surah the verse belongs to
	Verse   int `json:"verse"`   // ayah number
	Page    int `json:"page"`    // mushaf page the verse was sampled from
}

// Ref returns the verse reference of the question.
func (q Question) Ref() VerseRef {
	return VerseRef{Chapter: q.Chapter, Verse: q.Verse}
}

// ChapterOption is one answer of the "which surah" multiple choice.
type ChapterOption struct {
	Chapter int
	Correct bool
}
