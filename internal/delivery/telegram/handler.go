package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot           BotAPI
	logger        *zap.Logger
	quizService   QuizService
	chapters      ChapterService
	selections    SelectionStorage
	messages      MessageStorage
	updateTimeout int

	// background verse context loads
	wg sync.WaitGroup

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	quizService QuizService,
	chapters ChapterService,
	selections SelectionStorage,
	messages MessageStorage,
	updateTimeout int,
) *Handler {
	if updateTimeout <= 0 {
		updateTimeout = 60
	}

	return &Handler{
		bot:           bot,
		logger:        logger,
		quizService:   quizService,
		chapters:      chapters,
		selections:    selections,
		messages:      messages,
		updateTimeout: updateTimeout,
		locks:         make(map[int64]*sync.Mutex),
	}
}

// Run polls Telegram for updates until ctx is cancelled. It waits for
// pending verse context loads before returning.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.updateTimeout

	updates := h.bot.GetUpdatesChan(u)
	defer h.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		_ = h.withErrorHandling(h.helpHandler())(ctx, chatID)
		return
	}

	switch update.Message.Command() {
	case "start":
		_ = h.withErrorHandling(h.startHandler())(ctx, chatID)

	case "quiz":
		_ = h.withErrorHandling(h.quizHandler())(ctx, chatID)

	case "score":
		_ = h.withErrorHandling(h.scoreHandler())(ctx, chatID)

	case "help":
		_ = h.withErrorHandling(h.helpHandler())(ctx, chatID)

	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

// Commands returns the bot command menu.
func Commands() tgbotapi.SetMyCommandsConfig {
	return tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "quiz", Description: "Start a memorization quiz"},
		tgbotapi.BotCommand{Command: "score", Description: "Score of the current quiz"},
		tgbotapi.BotCommand{Command: "start", Description: "Introduction"},
		tgbotapi.BotCommand{Command: "help", Description: "How the quiz works"},
	)
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		if isNotModified(err) {
			return nil
		}
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// sendMessage sends c and returns the sent message.
func (h *Handler) sendMessage(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
	return msg, err
}

func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	answer := tgbotapi.NewCallback(cb.ID, text)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("failed to answer callback",
			zap.String("callback_id", cb.ID),
			zap.Error(err),
		)
	}
}

// chatLock serialises rendering of one chat's question message.
func (h *Handler) chatLock(chatID int64) *sync.Mutex {
	h.locksMu.Lock()
	defer h.locksMu.Unlock()

	mu, ok := h.locks[chatID]
	if !ok {
		mu = &sync.Mutex{}
		h.locks[chatID] = mu
	}
	return mu
}
