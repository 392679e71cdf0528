package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/app"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/config"
	httpapi "github.com/aliskhannn/tahfeedh-quiz-bot/internal/delivery/http"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/logger"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/service"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg, "bot")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	core, err := app.NewCore(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to build quiz core", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create telegram bot", zap.Error(err))
	}
	bot.Debug = cfg.Telegram.Debug
	lg.Info("authorized on telegram", zap.String("username", bot.Self.UserName))

	if _, err = bot.Request(telegram.Commands()); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	quizService := service.NewQuizService(
		core.Sampler,
		core.Resolver,
		service.NewOptionGenerator(service.DefaultRand()),
		storage.NewQuizStorage(),
		storage.NewInflightRegistry(),
		lg,
	)

	handler := telegram.NewHandler(
		bot,
		lg,
		quizService,
		service.NewChapterService(core.Chapters),
		storage.NewSelectionStorage(),
		storage.NewMessageStorage(),
		cfg.Telegram.UpdateTimeout,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := handler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if cfg.HTTP.Addr != "" {
		srv := httpapi.NewServer(cfg.HTTP.Addr, httpapi.NewRouter(core.Resolver, core.Sampler, cfg.HTTP.AllowedOrigins, lg))

		g.Go(func() error {
			lg.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		lg.Error("bot stopped with error", zap.Error(err))
		return
	}

	lg.Info("shutdown complete")
}
