// internal/words/words.go
//
// Dictionary of candidate words for the filter.
//
// Responsibilities:
//   - Validate and normalize word lists (exactly 5 ASCII letters, lowercase).
//   - Deduplicate while keeping first-seen order.
//   - Expose a read-only, index-addressable view shared by every caller.
//
// Constraints:
//   • A Dictionary is never mutated after construction, so it is safe to share
//     across goroutines without locking.
//   • Invalid entries fail construction; there is no partial dictionary.

package words

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/robalobadob/wordle/apps/filter-server/assets"
)

// WordLen is the fixed length of every dictionary word.
const WordLen = 5

// Dictionary is an immutable, ordered, deduplicated word list.
type Dictionary struct {
	list []string
	set  map[string]struct{}
}

// New validates and normalizes list into a Dictionary.
// Entries are trimmed and lowercased; any entry that is not 5 ASCII letters is an error.
func New(list []string) (*Dictionary, error) {
	d := &Dictionary{
		list: make([]string, 0, len(list)),
		set:  make(map[string]struct{}, len(list)),
	}
	for i, raw := range list {
		w := strings.ToLower(strings.TrimSpace(raw))
		if !valid(w) {
			return nil, fmt.Errorf("words: entry %d %q is not %d letters a-z", i, raw, WordLen)
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.list = append(d.list, w)
	}
	return d, nil
}

// Parse reads one word per line. Blank lines and lines starting with '#' are skipped.
func Parse(r io.Reader) (*Dictionary, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read: %w", err)
	}
	return New(out)
}

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.list) }

// At returns the i-th word in dictionary order.
func (d *Dictionary) At(i int) string { return d.list[i] }

// Words returns a copy of the word list.
func (d *Dictionary) Words() []string {
	return append([]string(nil), d.list...)
}

// Contains reports whether w (any case) is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[strings.ToLower(w)]
	return ok
}

// --- embedded default ---

var (
	embeddedOnce sync.Once
	embedded     *Dictionary
	embeddedErr  error
)

// Embedded returns the bundled dictionary, parsing it on first use only.
func Embedded() (*Dictionary, error) {
	embeddedOnce.Do(func() {
		f, err := assets.Words()
		if err != nil {
			embeddedErr = fmt.Errorf("words: open embedded list: %w", err)
			return
		}
		defer f.Close()
		embedded, embeddedErr = Parse(f)
	})
	return embedded, embeddedErr
}

// valid reports whether s is exactly WordLen lowercase ASCII letters.
func valid(s string) bool {
	if len(s) != WordLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
