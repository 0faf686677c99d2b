// internal/words/load.go
//
// Startup loading. The dictionary is loaded exactly once by main and the
// resulting handle is passed to every front end.
//
// Source selection (first match wins):
//   1. DSN set  → words table of that SQLite database.
//   2. File set → plain text file, one word per line.
//   3. neither  → embedded default list.

package words

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/filter-server/internal/db"
)

// ErrEmpty is returned when a source yields no words at all.
var ErrEmpty = errors.New("words: dictionary is empty")

// Source names where the dictionary comes from.
type Source struct {
	File string // WORDS_FILE
	DSN  string // WORDS_DSN
}

// Load builds the process dictionary from src.
func Load(ctx context.Context, src Source) (*Dictionary, error) {
	var (
		d    *Dictionary
		err  error
		from string
	)
	switch {
	case src.DSN != "":
		from = "sqlite:" + src.DSN
		d, err = loadDSN(ctx, src.DSN)
	case src.File != "":
		from = "file:" + src.File
		d, err = ReadFile(src.File)
	default:
		from = "embedded"
		d, err = Embedded()
	}
	if err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		return nil, fmt.Errorf("%w (%s)", ErrEmpty, from)
	}
	log.Info().Str("source", from).Int("words", d.Len()).Msg("dictionary loaded")
	return d, nil
}

// ReadFile parses a word-per-line file.
func ReadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func loadDSN(ctx context.Context, dsn string) (*Dictionary, error) {
	conn, err := db.Open(dsn)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return LoadSQL(ctx, conn)
}
