package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/service"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/storage"
)

const testChatID int64 = 42

type fakeBot struct {
	mu        sync.Mutex
	nextID    int
	sent      []tgbotapi.Chattable
	callbacks []tgbotapi.CallbackConfig
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		b.callbacks = append(b.callbacks, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) StopReceivingUpdates() {}

// lastText returns the text of the most recent message or edit.
func (b *fakeBot) lastText() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(b.sent) - 1; i >= 0; i-- {
		switch c := b.sent[i].(type) {
		case tgbotapi.MessageConfig:
			return c.Text
		case tgbotapi.EditMessageTextConfig:
			return c.Text
		}
	}
	return ""
}

func (b *fakeBot) lastToast() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.callbacks) == 0 {
		return ""
	}
	return b.callbacks[len(b.callbacks)-1].Text
}

type fixedQuestions []entities.Question

func (f fixedQuestions) GenerateQuestions(context.Context, []int) ([]entities.Question, error) {
	return f, nil
}

type echoResolver struct{}

func (echoResolver) ResolveContext(_ context.Context, ref entities.VerseRef) (*entities.VerseContext, error) {
	return &entities.VerseContext{Ref: ref, Main: "verse " + ref.Key()}, nil
}

type staticChapters struct{}

func (staticChapters) Names(_ context.Context, numbers ...int) map[int]*entities.Chapter {
	out := make(map[int]*entities.Chapter, len(numbers))
	for _, n := range numbers {
		out[n] = &entities.Chapter{Number: n, EnglishName: "Surah"}
	}
	return out
}

func newTestHandler(t *testing.T) (*Handler, *fakeBot, *service.QuizService) {
	t.Helper()

	quiz := service.NewQuizService(
		fixedQuestions{{Chapter: 112, Verse: 1, Page: 604}},
		echoResolver{},
		service.NewOptionGenerator(service.NewSeededRand(1)),
		storage.NewQuizStorage(),
		storage.NewInflightRegistry(),
		zap.NewNop(),
	)

	bot := &fakeBot{}
	h := NewHandler(bot, zap.NewNop(), quiz, staticChapters{}, storage.NewSelectionStorage(), storage.NewMessageStorage(), 0)
	return h, bot, quiz
}

func commandUpdate(cmd string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     "/" + cmd,
		Chat:     &tgbotapi.Chat{ID: testChatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd) + 1}},
	}}
}

func callbackUpdate(messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 1},
		Data:    data,
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: testChatID}},
	}}
}

func TestQuizFlow(t *testing.T) {
	h, bot, quiz := newTestHandler(t)
	ctx := context.Background()

	h.handleUpdate(ctx, commandUpdate("quiz"))
	if !strings.Contains(bot.lastText(), "Which juz") {
		t.Fatalf("selection message = %q", bot.lastText())
	}
	selectionID := bot.nextID

	h.handleUpdate(ctx, callbackUpdate(selectionID, buildJuzStartCallback()))
	if got := bot.lastToast(); got != msgSelectJuzFirst {
		t.Errorf("toast = %q, want %q", got, msgSelectJuzFirst)
	}

	h.handleUpdate(ctx, callbackUpdate(selectionID, buildJuzToggleCallback(30)))
	if !strings.Contains(bot.lastText(), "Selected: 30") {
		t.Errorf("selection edit = %q", bot.lastText())
	}

	h.handleUpdate(ctx, callbackUpdate(selectionID, buildJuzStartCallback()))
	h.wg.Wait()

	stored, ok := h.messages.Get(testChatID)
	if !ok {
		t.Fatal("question message not stored")
	}
	if got := bot.lastText(); !strings.Contains(got, "verse 112:1") {
		t.Errorf("question after context load = %q", got)
	}

	session, _ := quiz.Session(testChatID)
	correct := -1
	for i, o := range session.Options {
		if o.Correct {
			correct = i
		}
	}

	steps := []string{
		buildQuizChoiceCallback(1, correct),
		buildQuizCallback(1, quizContinue),
		buildQuizCallback(1, quizReveal),
		buildQuizRecallCallback(1, quizNext, true),
		buildQuizCallback(1, quizReveal),
		buildQuizRecallCallback(1, quizPrev, true),
	}
	for _, data := range steps {
		h.handleUpdate(ctx, callbackUpdate(stored.MessageID, data))
	}
	h.wg.Wait()

	session, _ = quiz.Session(testChatID)
	if !session.IsComplete() || session.Score != 175 {
		t.Fatalf("complete=%v score=%d, want complete with 175", session.IsComplete(), session.Score)
	}
	if got := bot.lastText(); !strings.Contains(got, "175 / 175") {
		t.Errorf("result = %q", got)
	}
}

func TestOutdatedQuizButton(t *testing.T) {
	h, bot, _ := newTestHandler(t)
	ctx := context.Background()

	h.selections.Toggle(testChatID, 30)
	h.handleUpdate(ctx, callbackUpdate(1, buildJuzStartCallback()))
	h.wg.Wait()

	stored, _ := h.messages.Get(testChatID)

	h.handleUpdate(ctx, callbackUpdate(stored.MessageID, buildQuizCallback(2, quizContinue)))
	if got := bot.lastToast(); got != msgOutdatedButton {
		t.Errorf("wrong question toast = %q", got)
	}

	h.handleUpdate(ctx, callbackUpdate(stored.MessageID+100, buildQuizChoiceCallback(1, 0)))
	if got := bot.lastToast(); got != msgOutdatedButton {
		t.Errorf("old message toast = %q", got)
	}

	h.handleUpdate(ctx, callbackUpdate(stored.MessageID, buildQuizCallback(1, quizReveal)))
	if got := bot.lastToast(); got != msgActionNotAvailable {
		t.Errorf("reveal during multiple choice toast = %q", got)
	}
}

func TestCallbackWithoutSession(t *testing.T) {
	h, bot, _ := newTestHandler(t)

	h.handleUpdate(context.Background(), callbackUpdate(5, buildQuizCallback(1, quizContinue)))
	if got := bot.lastToast(); got != msgNoActiveQuiz {
		t.Errorf("toast = %q, want %q", got, msgNoActiveQuiz)
	}
}

func TestScoreCommand(t *testing.T) {
	h, bot, _ := newTestHandler(t)
	ctx := context.Background()

	h.handleUpdate(ctx, commandUpdate("score"))
	if got := bot.lastText(); got != msgNoActiveQuiz {
		t.Errorf("score without quiz = %q", got)
	}

	h.handleUpdate(ctx, commandUpdate("nope"))
	if got := bot.lastText(); got != msgUnknownCommand {
		t.Errorf("unknown command reply = %q", got)
	}
}
