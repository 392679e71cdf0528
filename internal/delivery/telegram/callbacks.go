package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb, "")
		return
	}

	cd := decodeCallback(cb.Data)

	var (
		toast string
		err   error
	)

	switch cd.Action {
	case actionJuz:
		toast, err = h.handleJuzCallback(ctx, cb, cd)
	case actionQuiz:
		toast, err = h.handleQuizCallback(ctx, cb, cd)
	default:
		err = errInvalidCallback
	}

	if err != nil {
		toast = h.callbackErrorText(cb, err)
	}

	// Remove the user's "clock".
	h.answerCallback(cb, toast)
}

func (h *Handler) callbackErrorText(cb *tgbotapi.CallbackQuery, err error) string {
	switch {
	case errors.Is(err, errInvalidCallback):
		h.logger.Warn("invalid callback", zap.String("data", cb.Data))
		return msgOutdatedButton
	case errors.Is(err, service.ErrNoSession):
		return msgNoActiveQuiz
	case errors.Is(err, entities.ErrInvalidTransition),
		errors.Is(err, entities.ErrChoiceLocked),
		errors.Is(err, entities.ErrAnswerHidden),
		errors.Is(err, entities.ErrInvalidOption),
		errors.Is(err, entities.ErrSessionComplete):
		return msgActionNotAvailable
	default:
		h.logger.Error("callback error",
			zap.Int64("chat_id", cb.Message.Chat.ID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		return msgInternalError
	}
}

func (h *Handler) handleJuzCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) (string, error) {
	cmd, err := parseJuzCallback(cd)
	if err != nil {
		return "", err
	}

	chatID := cb.Message.Chat.ID

	switch cmd.SubAction {
	case juzToggle:
		h.selections.Toggle(chatID, cmd.Value)
	case juzGroup:
		h.selections.ToggleGroup(chatID, juzGroupMembers(cmd.Value))
	case juzAll:
		h.selections.ToggleAll(chatID)
	case juzStart:
		return h.startQuiz(ctx, chatID, cb.Message.MessageID)
	}

	kb := h.juzKeyboard(chatID)
	edit := newEdit(chatID, cb.Message.MessageID, msgSelectJuz(h.selections.Selected(chatID)), &kb)
	return "", h.send(edit)
}

func (h *Handler) handleQuizCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) (string, error) {
	cmd, err := parseQuizCallback(cd)
	if err != nil {
		return "", err
	}

	chatID := cb.Message.Chat.ID

	if cmd.SubAction == quizRestart {
		h.quizService.Reset(chatID)
		h.stripKeyboard(chatID, cb.Message.MessageID)
		h.messages.Delete(chatID)
		return "", h.sendJuzSelection(chatID)
	}

	session, ok := h.quizService.Session(chatID)
	if !ok {
		return "", service.ErrNoSession
	}
	if session.IsComplete() || cmd.Question != session.QuestionNumber() || !h.isQuestionMessage(chatID, cb.Message.MessageID) {
		return msgOutdatedButton, nil
	}

	var toast string

	switch cmd.SubAction {
	case quizChoice:
		var correct bool
		if _, correct, err = h.quizService.SubmitChoice(chatID, cmd.Index); err != nil {
			return "", err
		}
		toast = "❌ Not quite"
		if correct {
			toast = "✅ Correct!"
		}

	case quizContinue:
		_, err = h.quizService.Continue(chatID)

	case quizReveal:
		_, err = h.quizService.Reveal(chatID)

	case quizNext:
		_, err = h.quizService.AnswerRecallNext(chatID, cmd.Yes)

	case quizPrev:
		var next *entities.QuizSession
		if next, err = h.quizService.AnswerRecallPrev(chatID, cmd.Yes); err != nil {
			return "", err
		}
		if !next.IsComplete() {
			h.loadContextAsync(ctx, chatID)
		}
	}
	if err != nil {
		return "", err
	}

	return toast, h.refresh(ctx, chatID)
}

func (h *Handler) isQuestionMessage(chatID int64, messageID int) bool {
	msg, ok := h.messages.Get(chatID)
	return ok && msg.MessageID == messageID
}
