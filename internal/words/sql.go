// internal/words/sql.go
//
// SQLite-backed dictionary storage.
//   - LoadSQL reads the words table in insertion order.
//   - ImportSQL appends a dictionary, ignoring words already stored, and records
//     the import in the imports table.

package words

import (
	"context"
	"database/sql"
	"fmt"
)

// LoadSQL builds a Dictionary from the words table.
func LoadSQL(ctx context.Context, db *sql.DB) (*Dictionary, error) {
	rows, err := db.QueryContext(ctx, `SELECT word FROM words ORDER BY pos ASC`)
	if err != nil {
		return nil, fmt.Errorf("words: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("words: scan: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("words: rows: %w", err)
	}
	return New(out)
}

// ImportSQL stores every word of d not already present and returns how many were added.
func ImportSQL(ctx context.Context, db *sql.DB, source string, d *Dictionary) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO words(word) VALUES (?)`)
	if err != nil {
		return 0, fmt.Errorf("words: prepare: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, w := range d.list {
		res, err := stmt.ExecContext(ctx, w)
		if err != nil {
			return 0, fmt.Errorf("words: insert %q: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO imports(source, added) VALUES (?, ?)`, source, added); err != nil {
		return 0, fmt.Errorf("words: record import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}
