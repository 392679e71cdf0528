package telegram

import (
	"context"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs a failed handler and tells the user something went wrong.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("handler panic",
					zap.Int64("chat_id", chatID),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				h.sendError(chatID, msgInternalError)
			}
		}()

		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}

// recoverPanic keeps a panic in a background task from taking the bot down.
func (h *Handler) recoverPanic(chatID int64) {
	if r := recover(); r != nil {
		h.logger.Error("background task panic",
			zap.Int64("chat_id", chatID),
			zap.Any("panic", r),
			zap.Stack("stack"),
		)
	}
}
