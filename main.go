// main.go
//
// Entry point for the wordle-filter binary.
//
// Usage:
//   wordle-filter [serve]        JSON HTTP front end (default)
//   wordle-filter repl           interactive line-based front end on stdin/stdout
//   wordle-filter import <file>  append a word list to the WORDS_DSN SQLite dictionary
//
// The dictionary is loaded exactly once here and handed to whichever front end runs.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/filter-server/internal/config"
	"github.com/robalobadob/wordle/apps/filter-server/internal/db"
	"github.com/robalobadob/wordle/apps/filter-server/internal/httpserver"
	"github.com/robalobadob/wordle/apps/filter-server/internal/repl"
	"github.com/robalobadob/wordle/apps/filter-server/internal/store"
	"github.com/robalobadob/wordle/apps/filter-server/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		err = serve(ctx, cfg)
	case "repl":
		err = runREPL(ctx, cfg)
	case "import":
		if len(os.Args) != 3 {
			err = errors.New("usage: wordle-filter import <file>")
			break
		}
		err = importWords(ctx, cfg, os.Args[2])
	default:
		err = fmt.Errorf("unknown command %q (want serve, repl, or import)", cmd)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("exited")
	}
}

// setupLogging applies level and output format to the global zerolog logger.
func setupLogging(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	dict, err := words.Load(ctx, cfg.Words)
	if err != nil {
		return err
	}
	if cfg.DevSecret() {
		log.Warn().Msg("SESSION_SECRET not set; using development secret")
	}

	mem := store.NewMemoryStore()
	go mem.RunSweeper(ctx, cfg.SessionTTL, time.Minute)

	srv := httpserver.New(cfg, dict, mem)
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(":" + cfg.Port) }()
	log.Info().Str("port", cfg.Port).Msg("starting wordle-filter")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runREPL(ctx context.Context, cfg *config.Config) error {
	dict, err := words.Load(ctx, cfg.Words)
	if err != nil {
		return err
	}
	err = repl.New(dict, os.Stdout).Run(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func importWords(ctx context.Context, cfg *config.Config, path string) error {
	if cfg.Words.DSN == "" {
		return errors.New("import needs WORDS_DSN")
	}
	d, err := words.ReadFile(path)
	if err != nil {
		return err
	}
	conn, err := db.Open(cfg.Words.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	added, err := words.ImportSQL(ctx, conn, path, d)
	if err != nil {
		return err
	}
	log.Info().Str("file", path).Int("read", d.Len()).Int("added", added).Msg("imported words")
	return nil
}
