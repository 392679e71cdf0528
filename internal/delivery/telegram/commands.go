package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// startHandler shows the introduction.
func (h *Handler) startHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, msgWelcome()))
	}
}

func (h *Handler) helpHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, msgHelp()))
	}
}

// quizHandler shows the juz selection keyboard. The previous selection is kept.
func (h *Handler) quizHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.sendJuzSelection(chatID)
	}
}

func (h *Handler) scoreHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, ok := h.quizService.Session(chatID)
		if !ok {
			return h.send(newPlainMessage(chatID, msgNoActiveQuiz))
		}
		return h.send(newMessage(chatID, msgScore(session)))
	}
}

func (h *Handler) sendJuzSelection(chatID int64) error {
	msg := newMessage(chatID, msgSelectJuz(h.selections.Selected(chatID)))
	msg.ReplyMarkup = h.juzKeyboard(chatID)
	return h.send(msg)
}

func (h *Handler) juzKeyboard(chatID int64) tgbotapi.InlineKeyboardMarkup {
	return buildJuzKeyboard(func(juz int) bool {
		return h.selections.IsSelected(chatID, juz)
	})
}
