package entities

import (
	"errors"
	"time"
)

// Stage is the step of the current question a quiz session is in.
type Stage string

const (
	StageMultipleChoice Stage = "multiple_choice" // guess the surah
	StageRecallNext     Stage = "recall_next"     // recite the next two verses
	StageRecallPrev     Stage = "recall_prev"     // recite the previous two verses
	StageComplete       Stage = "complete"        // all questions answered
)

// Points awarded per stage. Wrong or negative answers award nothing.
const (
	PointsChapter    = 25
	PointsRecallNext = 50
	PointsRecallPrev = 100
)

var (
	ErrNoQuestions       = errors.New("quiz session has no questions")
	ErrInvalidTransition = errors.New("action is not allowed at the current stage")
	ErrChoiceLocked      = errors.New("answer is already locked")
	ErrAnswerHidden      = errors.New("answer must be revealed first")
	ErrInvalidOption     = errors.New("invalid option index")
	ErrSessionComplete   = errors.New("quiz session is complete")
)

// QuizSession represents a single quiz run for a chat.
// It tracks the sampled questions, the stage of the current question and the score.
type QuizSession struct {
	ID        string     // unique session ID
	ChatID    int64      // chat the quiz is played in
	Questions []Question // fixed question order for the session
	Current   int        // index of the current question
	Stage     Stage      // stage of the current question
	Score     int        // accumulated points, never decreases

	Options  []ChapterOption // options of the current multiple choice
	Selected int             // selected option index, -1 until submitted
	Locked   bool            // multiple choice answer is submitted
	Revealed bool            // answer text of the current recall stage is shown

	// Generation changes every time the current question changes, so that a
	// context resolved for an earlier question can be recognised and dropped.
	Generation uint64
	Context    *VerseContext // resolved context of the current question
	ContextErr error         // resolution failure of the current question

	StartedAt   time.Time  // timestamp when the quiz started
	CompletedAt *time.Time // timestamp when the quiz was completed (nullable)
}

// NewQuizSession creates a session positioned on the first question.
func NewQuizSession(id string, chatID int64, questions []Question) (*QuizSession, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	qs := make([]Question, len(questions))
	copy(qs, questions)

	return &QuizSession{
		ID:         id,
		ChatID:     chatID,
		Questions:  qs,
		Stage:      StageMultipleChoice,
		Selected:   -1,
		Generation: 1,
		StartedAt:  time.Now(),
	}, nil
}

// CurrentQuestion returns the question being played, or false once complete.
func (qs *QuizSession) CurrentQuestion() (Question, bool) {
	if qs.Stage == StageComplete || qs.Current >= len(qs.Questions) {
		return Question{}, false
	}
	return qs.Questions[qs.Current], true
}

// QuestionNumber returns the 1-based number of the current question.
func (qs *QuizSession) QuestionNumber() int {
	return qs.Current + 1
}

// Total returns the number of questions in the session.
func (qs *QuizSession) Total() int {
	return len(qs.Questions)
}

// IsComplete reports whether the session reached its terminal stage.
func (qs *QuizSession) IsComplete() bool {
	return qs.Stage == StageComplete
}

// SetOptions replaces the multiple choice options of the current question.
func (qs *QuizSession) SetOptions(options []ChapterOption) {
	qs.Options = options
}

// SubmitChoice locks the selected option. It can be called once per question
// and awards PointsChapter for the correct surah.
func (qs *QuizSession) SubmitChoice(index int) (bool, error) {
	if qs.Stage == StageComplete {
		return false, ErrSessionComplete
	}
	if qs.Stage != StageMultipleChoice {
		return false, ErrInvalidTransition
	}
	if qs.Locked {
		return false, ErrChoiceLocked
	}
	if index < 0 || index >= len(qs.Options) {
		return false, ErrInvalidOption
	}

	qs.Selected = index
	qs.Locked = true

	correct := qs.Options[index].Correct
	if correct {
		qs.Score += PointsChapter
	}

	return correct, nil
}

// Continue moves from the locked multiple choice to recalling the next verses.
func (qs *QuizSession) Continue() error {
	if qs.Stage == StageComplete {
		return ErrSessionComplete
	}
	if qs.Stage != StageMultipleChoice || !qs.Locked {
		return ErrInvalidTransition
	}

	qs.Stage = StageRecallNext
	qs.Revealed = false
	return nil
}

// Reveal shows the answer of the current recall stage. It cannot be undone.
func (qs *QuizSession) Reveal() error {
	switch qs.Stage {
	case StageRecallNext, StageRecallPrev:
		qs.Revealed = true
		return nil
	case StageComplete:
		return ErrSessionComplete
	default:
		return ErrInvalidTransition
	}
}

// AnswerRecallNext records the self-reported recall of the next two verses.
func (qs *QuizSession) AnswerRecallNext(yes bool) error {
	if err := qs.checkRecall(StageRecallNext); err != nil {
		return err
	}

	if yes {
		qs.Score += PointsRecallNext
	}
	qs.Stage = StageRecallPrev
	qs.Revealed = false
	return nil
}

// AnswerRecallPrev records the self-reported recall of the previous two verses
// and moves on to the next question or completes the session.
func (qs *QuizSession) AnswerRecallPrev(yes bool) error {
	if err := qs.checkRecall(StageRecallPrev); err != nil {
		return err
	}

	if yes {
		qs.Score += PointsRecallPrev
	}
	qs.advance()
	return nil
}

func (qs *QuizSession) checkRecall(stage Stage) error {
	if qs.Stage == StageComplete {
		return ErrSessionComplete
	}
	if qs.Stage != stage {
		return ErrInvalidTransition
	}
	if !qs.Revealed {
		return ErrAnswerHidden
	}
	return nil
}

func (qs *QuizSession) advance() {
	qs.Options = nil
	qs.Selected = -1
	qs.Locked = false
	qs.Revealed = false
	qs.Context = nil
	qs.ContextErr = nil
	qs.Generation++

	if qs.Current+1 >= len(qs.Questions) {
		qs.Complete()
		return
	}

	qs.Current++
	qs.Stage = StageMultipleChoice
}

// Complete marks the quiz session as completed and sets the completion timestamp.
func (qs *QuizSession) Complete() {
	qs.Stage = StageComplete
	now := time.Now()
	qs.CompletedAt = &now
}

// SetContext stores a resolved context if it belongs to the current question.
// It returns false and leaves the session untouched for a stale generation.
func (qs *QuizSession) SetContext(generation uint64, vc *VerseContext, err error) bool {
	if generation != qs.Generation || qs.Stage == StageComplete {
		return false
	}
	qs.Context = vc
	qs.ContextErr = err
	return true
}

// QuizzedRefs returns the references of all questions in quiz order.
func (qs *QuizSession) QuizzedRefs() []VerseRef {
	refs := make([]VerseRef, 0, len(qs.Questions))
	for _, q := range qs.Questions {
		refs = append(refs, q.Ref())
	}
	return refs
}

// Clone returns a copy that can be read without holding the storage lock.
func (qs *QuizSession) Clone() *QuizSession {
	c := *qs
	c.Questions = append([]Question(nil), qs.Questions...)
	c.Options = append([]ChapterOption(nil), qs.Options...)
	if qs.CompletedAt != nil {
		t := *qs.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
