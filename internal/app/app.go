// Package app wires the quiz core from configuration. The bot and the
// quizctl tool share it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/auth"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/config"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/quran"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/repository"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/service"
)

// Core holds the components every entry point needs.
type Core struct {
	Tokens   *auth.TokenCache
	Chapters *repository.ChapterRepository
	Index    *repository.IndexRepository
	Sampler  *service.QuestionSampler
	Resolver *service.ContextResolver
}

// NewCore loads the static tables and builds the content API stack.
func NewCore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Core, error) {
	chapters, err := repository.NewChapterRepository(cfg.Data.ChaptersPath)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}

	index, err := loadIndex(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	tokens := NewTokenCache(cfg)

	client := NewQuranClient(cfg, tokens)
	counter := quran.NewChapterCounter(chapters, client, logger)

	return &Core{
		Tokens:   tokens,
		Chapters: chapters,
		Index:    index,
		Sampler:  service.NewQuestionSampler(index, service.DefaultRand()),
		Resolver: service.NewContextResolver(client, counter, logger),
	}, nil
}

// NewQuranClient builds the content API client.
func NewQuranClient(cfg *config.Config, tokens quran.TokenSource) *quran.Client {
	return quran.NewClient(quran.Config{
		BaseURL:  cfg.Quran.APIBaseURL,
		ClientID: cfg.Quran.ClientID,
		Timeout:  cfg.Quran.RequestTimeout,
	}, tokens)
}

// NewTokenCache builds the content API token cache from the OAuth2 client settings.
func NewTokenCache(cfg *config.Config) *auth.TokenCache {
	acquirer := auth.NewClientCredentialsAcquirer(auth.ClientCredentialsConfig{
		TokenURL:     cfg.Quran.TokenURL,
		ClientID:     cfg.Quran.ClientID,
		ClientSecret: cfg.Quran.ClientSecret,
		Scopes:       cfg.Quran.Scopes(),
		Timeout:      cfg.Quran.RequestTimeout,
	})
	return auth.NewTokenCache(acquirer, auth.WithSafetyMargin(cfg.Quran.SafetyMargin))
}

func loadIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.IndexRepository, error) {
	if cfg.Data.Source != config.DataSourcePostgres {
		logger.Info("loading mushaf index from files",
			zap.String("juz", cfg.Data.JuzPath),
			zap.String("pages", cfg.Data.PagesPath),
		)
		return repository.LoadIndexFromFiles(cfg.Data.JuzPath, cfg.Data.PagesPath)
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	// The tables are read once into memory.
	defer pool.Close()

	logger.Info("loading mushaf index from postgres")
	return postgres.LoadIndex(ctx, pool)
}
