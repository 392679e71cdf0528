package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/storage"
)

var (
	ErrNoSession    = errors.New("no active quiz")
	ErrStaleContext = errors.New("verse context belongs to an earlier question")
)

// QuizService runs quiz sessions, one per chat.
type QuizService struct {
	sampler  QuestionGenerator
	resolver VerseContextResolver
	options  *OptionGenerator
	sessions SessionStore
	inflight InflightRegistry
	logger   *zap.Logger
}

func NewQuizService(
	sampler QuestionGenerator,
	resolver VerseContextResolver,
	options *OptionGenerator,
	sessions SessionStore,
	inflight InflightRegistry,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		sampler:  sampler,
		resolver: resolver,
		options:  options,
		sessions: sessions,
		inflight: inflight,
		logger:   logger,
	}
}

// Start samples a fresh set of questions for the selection and replaces any
// session the chat already had.
func (s *QuizService) Start(ctx context.Context, chatID int64, selected []int) (*entities.QuizSession, error) {
	questions, err := s.sampler.GenerateQuestions(ctx, selected)
	if err != nil {
		return nil, err
	}

	session, err := entities.NewQuizSession(uuid.NewString(), chatID, questions)
	if err != nil {
		return nil, err
	}
	s.prepareOptions(session)

	s.inflight.Cancel(chatID)
	s.sessions.Put(session)

	s.logger.Info("quiz started",
		zap.Int64("chat_id", chatID),
		zap.String("session_id", session.ID),
		zap.Ints("juz", selected),
		zap.Int("questions", session.Total()),
	)

	return session.Clone(), nil
}

// SubmitChoice locks the multiple choice answer of the current question.
func (s *QuizService) SubmitChoice(chatID int64, index int) (*entities.QuizSession, bool, error) {
	var correct bool
	session, err := s.update(chatID, func(qs *entities.QuizSession) error {
		var err error
		correct, err = qs.SubmitChoice(index)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return session, correct, nil
}

func (s *QuizService) Continue(chatID int64) (*entities.QuizSession, error) {
	return s.update(chatID, func(qs *entities.QuizSession) error {
		return qs.Continue()
	})
}

func (s *QuizService) Reveal(chatID int64) (*entities.QuizSession, error) {
	return s.update(chatID, func(qs *entities.QuizSession) error {
		return qs.Reveal()
	})
}

func (s *QuizService) AnswerRecallNext(chatID int64, yes bool) (*entities.QuizSession, error) {
	return s.update(chatID, func(qs *entities.QuizSession) error {
		return qs.AnswerRecallNext(yes)
	})
}

// AnswerRecallPrev finishes the current question. The next question gets
// new options; a resolution still running for the old one is cancelled.
func (s *QuizService) AnswerRecallPrev(chatID int64, yes bool) (*entities.QuizSession, error) {
	session, err := s.update(chatID, func(qs *entities.QuizSession) error {
		if err := qs.AnswerRecallPrev(yes); err != nil {
			return err
		}
		s.prepareOptions(qs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.inflight.Cancel(chatID)

	if session.IsComplete() {
		s.logger.Info("quiz completed",
			zap.Int64("chat_id", chatID),
			zap.String("session_id", session.ID),
			zap.Int("score", session.Score),
		)
	}

	return session, nil
}

// LoadContext resolves the verse bundle of the current question and stores
// it in the session. Only one resolution per chat runs at a time; starting a
// new one cancels the previous. A result that arrives after the session has
// moved to another question is dropped with ErrStaleContext.
//
// A resolution failure is stored in the session and also returned.
func (s *QuizService) LoadContext(ctx context.Context, chatID int64) (*entities.QuizSession, error) {
	current, ok := s.sessions.Get(chatID)
	if !ok {
		return nil, ErrNoSession
	}
	if current.IsComplete() {
		return nil, entities.ErrSessionComplete
	}
	if current.Context != nil {
		return current, nil
	}

	question, _ := current.CurrentQuestion()
	sessionID, generation := current.ID, current.Generation

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	token := s.inflight.Replace(chatID, cancel)
	defer s.inflight.Release(chatID, token)

	vc, resolveErr := s.resolver.ResolveContext(ctx, question.Ref())
	if ctx.Err() != nil {
		return nil, ErrStaleContext
	}

	session, err := s.update(chatID, func(qs *entities.QuizSession) error {
		if qs.ID != sessionID || !qs.SetContext(generation, vc, resolveErr) {
			return ErrStaleContext
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStaleContext) {
			s.logger.Debug("dropped stale verse context",
				zap.Int64("chat_id", chatID),
				zap.String("verse", question.Ref().Key()),
			)
		}
		return nil, err
	}

	if resolveErr != nil {
		s.logger.Error("failed to resolve verse context",
			zap.Int64("chat_id", chatID),
			zap.String("verse", question.Ref().Key()),
			zap.Error(resolveErr),
		)
		return session, resolveErr
	}

	return session, nil
}

// Session returns a snapshot of the chat's session.
func (s *QuizService) Session(chatID int64) (*entities.QuizSession, bool) {
	return s.sessions.Get(chatID)
}

// Reset drops the chat's session and cancels its pending resolution.
func (s *QuizService) Reset(chatID int64) {
	s.inflight.Cancel(chatID)
	s.sessions.Delete(chatID)
}

func (s *QuizService) update(chatID int64, fn func(qs *entities.QuizSession) error) (*entities.QuizSession, error) {
	session, err := s.sessions.Update(chatID, fn)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("chat %d: %w", chatID, err)
	}
	return session, nil
}

func (s *QuizService) prepareOptions(qs *entities.QuizSession) {
	q, ok := qs.CurrentQuestion()
	if !ok {
		return
	}
	qs.SetOptions(s.options.Options(q.Chapter))
}
