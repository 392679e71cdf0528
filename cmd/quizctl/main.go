// Command quizctl runs quiz operations from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/app"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/config"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/logger"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/quran"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/repository"
)

// CLI defines the command-line interface using Kong
var CLI struct {
	Verbose bool `name:"verbose" short:"v" help:"Log at debug level to stderr"`

	Verse     VerseCmd     `cmd:"" help:"Print a verse with the two verses after and before it"`
	Questions QuestionsCmd `cmd:"" help:"Sample a question set for the given juz"`
	Token     TokenCmd     `cmd:"" help:"Acquire an API access token and print its expiry"`
	Index     IndexCmd     `cmd:"" help:"Build the page to verse table from the content API"`
	Import    ImportCmd    `cmd:"" help:"Copy the juz and page tables from files into Postgres"`
}

// env is what every command needs.
type env struct {
	ctx    context.Context
	cfg    *config.Config
	logger *zap.Logger
}

type VerseCmd struct {
	Key string `arg:"" help:"Verse key, e.g. 2:255"`
}

func (c *VerseCmd) Run(e *env) error {
	ref, err := entities.ParseVerseRef(c.Key)
	if err != nil {
		return err
	}

	core, err := app.NewCore(e.ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}

	vc, err := core.Resolver.ResolveContext(e.ctx, ref)
	if err != nil {
		return err
	}

	for _, v := range vc.Prev {
		fmt.Printf("%-8s %s\n", v.Ref, v.Text)
	}
	fmt.Printf("%-8s %s  <--\n", vc.Ref, vc.Main)
	for _, v := range vc.Next {
		fmt.Printf("%-8s %s\n", v.Ref, v.Text)
	}

	if vc.Partial() {
		fmt.Fprintln(os.Stderr, "note: fewer than two neighbours on one side")
	}
	return nil
}

type QuestionsCmd struct {
	Juz []int `arg:"" help:"Juz numbers between 1 and 30"`
}

func (c *QuestionsCmd) Run(e *env) error {
	core, err := app.NewCore(e.ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}

	questions, err := core.Sampler.GenerateQuestions(e.ctx, c.Juz)
	if err != nil {
		return err
	}

	for i, q := range questions {
		name := strconv.Itoa(q.Chapter)
		if ch, err := core.Chapters.GetByNumber(e.ctx, q.Chapter); err == nil {
			name = ch.EnglishName
		}
		fmt.Printf("%2d. %-8s page %-3d %s\n", i+1, q.Ref(), q.Page, name)
	}
	return nil
}

type TokenCmd struct{}

// Run acquires a token. The token itself is never printed.
func (c *TokenCmd) Run(e *env) error {
	tokens := app.NewTokenCache(e.cfg)

	if _, err := tokens.Token(e.ctx); err != nil {
		return err
	}

	expiry, ok := tokens.Expiry()
	if !ok {
		return errors.New("token acquired without expiry")
	}

	fmt.Printf("token ok, expires %s (in %s)\n",
		expiry.Format(time.RFC3339),
		time.Until(expiry).Round(time.Second))
	return nil
}

type IndexCmd struct {
	Out         string `name:"out" short:"o" type:"path" help:"Output file (default: data.pages_path)"`
	Concurrency int    `name:"concurrency" default:"8" help:"Parallel page requests"`
}

func (c *IndexCmd) Run(e *env) error {
	out := c.Out
	if out == "" {
		out = e.cfg.Data.PagesPath
	}

	client := app.NewQuranClient(e.cfg, app.NewTokenCache(e.cfg))

	start := time.Now()
	pages, err := quran.BuildPageIndex(e.ctx, client, quran.MushafPages, c.Concurrency)
	if err != nil {
		return err
	}

	if err := repository.WritePageIndex(out, pages); err != nil {
		return err
	}

	e.logger.Info("page index written",
		zap.String("path", out),
		zap.Int("pages", len(pages)),
		zap.Duration("took", time.Since(start)),
	)
	fmt.Printf("wrote %d pages to %s\n", len(pages), out)
	return nil
}

type ImportCmd struct{}

func (c *ImportCmd) Run(e *env) error {
	index, err := repository.LoadIndexFromFiles(e.cfg.Data.JuzPath, e.cfg.Data.PagesPath)
	if err != nil {
		return err
	}

	dsn, err := e.cfg.DB.DSN()
	if err != nil {
		return fmt.Errorf("%w: DATABASE_URL", err)
	}

	pool, err := postgres.NewPool(e.ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(e.cfg.DB.MaxConnections),
		MaxConnLifetime: e.cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := postgres.StoreIndex(e.ctx, postgres.NewTransactor(pool), index)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d page verses\n", n)
	return nil
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("quizctl"),
		kong.Description("Tahfeedh quiz operations"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	cfg, err := config.LoadWithoutBot()
	kctx.FatalIfErrorf(err)

	if CLI.Verbose {
		cfg.Env = "local"
	} else {
		cfg.Env = "production"
	}

	lg, err := logger.New(cfg, "quizctl")
	kctx.FatalIfErrorf(err)
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = kctx.Run(&env{ctx: ctx, cfg: cfg, logger: lg})
	kctx.FatalIfErrorf(err)
}
