package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/storage"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type QuizService interface {
	Start(ctx context.Context, chatID int64, selected []int) (*entities.QuizSession, error)
	SubmitChoice(chatID int64, index int) (*entities.QuizSession, bool, error)
	Continue(chatID int64) (*entities.QuizSession, error)
	Reveal(chatID int64) (*entities.QuizSession, error)
	AnswerRecallNext(chatID int64, yes bool) (*entities.QuizSession, error)
	AnswerRecallPrev(chatID int64, yes bool) (*entities.QuizSession, error)
	LoadContext(ctx context.Context, chatID int64) (*entities.QuizSession, error)
	Session(chatID int64) (*entities.QuizSession, bool)
	Reset(chatID int64)
}

type ChapterService interface {
	Names(ctx context.Context, numbers ...int) map[int]*entities.Chapter
}

type SelectionStorage interface {
	Toggle(chatID int64, juz int) bool
	ToggleGroup(chatID int64, group []int)
	ToggleAll(chatID int64)
	Selected(chatID int64) []int
	IsSelected(chatID int64, juz int) bool
	Clear(chatID int64)
}

type MessageStorage interface {
	Get(chatID int64) (storage.QuestionMessage, bool)
	Delete(chatID int64)
	UpsertAndGetPrev(chatID int64, messageID int) (storage.QuestionMessage, bool)
}
