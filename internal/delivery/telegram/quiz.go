package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/service"
)

// startQuiz starts a quiz over the chat's selected juz and sends the first
// question as a new message.
func (h *Handler) startQuiz(ctx context.Context, chatID int64, selectionMsgID int) (string, error) {
	selected := h.selections.Selected(chatID)
	if len(selected) == 0 {
		return msgSelectJuzFirst, nil
	}

	session, err := h.quizService.Start(ctx, chatID, selected)
	switch {
	case errors.Is(err, service.ErrNoQuestionsAvailable):
		return "", h.send(newPlainMessage(chatID, msgNoQuestions))
	case errors.Is(err, service.ErrNoSectionsSelected):
		return msgSelectJuzFirst, nil
	case err != nil:
		h.logger.Error("failed to start quiz",
			zap.Int64("chat_id", chatID),
			zap.Ints("juz", selected),
			zap.Error(err),
		)
		return "", h.send(newPlainMessage(chatID, msgQuizUnavailable))
	}

	_ = h.send(newEdit(chatID, selectionMsgID, msgQuizStarting(selected, session.Total()), emptyKeyboard()))

	if err := h.sendQuestion(ctx, session); err != nil {
		return "", err
	}

	h.loadContextAsync(ctx, chatID)
	return "", nil
}

// sendQuestion sends the session's question message and makes it the one
// later updates edit. The keyboard of the message it replaces is removed.
func (h *Handler) sendQuestion(ctx context.Context, session *entities.QuizSession) error {
	mu := h.chatLock(session.ChatID)
	mu.Lock()
	defer mu.Unlock()

	names := h.chapters.Names(ctx, chaptersOf(session)...)
	msg := newMessage(session.ChatID, renderQuestion(session, names))
	msg.ReplyMarkup = buildQuestionKeyboard(session, names)

	sent, err := h.sendMessage(msg)
	if err != nil {
		return err
	}

	prev, ok := h.messages.UpsertAndGetPrev(session.ChatID, sent.MessageID)
	if ok && prev.MessageID != sent.MessageID {
		h.stripKeyboard(session.ChatID, prev.MessageID)
	}

	return nil
}

// refresh re-renders the question message from the chat's latest session.
func (h *Handler) refresh(ctx context.Context, chatID int64) error {
	mu := h.chatLock(chatID)
	mu.Lock()
	defer mu.Unlock()

	session, ok := h.quizService.Session(chatID)
	if !ok {
		return nil
	}

	stored, ok := h.messages.Get(chatID)
	if !ok {
		return nil
	}

	names := h.chapters.Names(ctx, chaptersOf(session)...)
	kb := buildQuestionKeyboard(session, names)
	return h.send(newEdit(chatID, stored.MessageID, renderQuestion(session, names), &kb))
}

// loadContextAsync resolves the current question's verses in the background
// and re-renders the question message when they arrive.
func (h *Handler) loadContextAsync(ctx context.Context, chatID int64) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.recoverPanic(chatID)

		session, err := h.quizService.LoadContext(ctx, chatID)
		if session == nil {
			if err != nil && !errors.Is(err, service.ErrStaleContext) && ctx.Err() == nil {
				h.logger.Warn("verse context not loaded",
					zap.Int64("chat_id", chatID),
					zap.Error(err),
				)
			}
			return
		}

		current, ok := h.quizService.Session(chatID)
		if !ok || current.ID != session.ID || current.Generation != session.Generation {
			return
		}

		if err := h.refresh(ctx, chatID); err != nil {
			h.logger.Warn("failed to update question message",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}()
}

func (h *Handler) stripKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, *emptyKeyboard())
	_ = h.send(edit)
}

// chaptersOf lists the chapters a render of the session can mention.
func chaptersOf(s *entities.QuizSession) []int {
	chapters := lo.Map(s.Options, func(o entities.ChapterOption, _ int) int {
		return o.Chapter
	})
	for _, ref := range s.QuizzedRefs() {
		chapters = append(chapters, ref.Chapter)
	}
	if q, ok := s.CurrentQuestion(); ok {
		chapters = append(chapters, q.Chapter)
	}
	return lo.Uniq(chapters)
}
