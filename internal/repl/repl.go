// internal/repl/repl.go
//
// Line-based front end. Every command mutates the grid one cell (or one row)
// at a time; `run` re-filters the dictionary.
//
// Commands:
//   green|yellow|gray <row>-<col>-<letter>[,...]   set cells, e.g. green 0-0-s,0-1-t
//   green|yellow|gray <col>-<letter>[,...]         same, in the first row free at that column
//   row <n> <word> <pattern>                       whole row; pattern g=green y=yellow .=gray
//   clear <row>-<col>                              empty one cell
//   target <word> / guess <word>                   simulate feedback against a known answer
//   show | run [limit] | reset | help | exit

package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/filter-server/internal/filter"
	"github.com/robalobadob/wordle/apps/filter-server/internal/words"
)

const prompt = "> "

// REPL owns one grid for the lifetime of an interactive session.
type REPL struct {
	dict   *words.Dictionary
	grid   *filter.Grid
	out    io.Writer
	target string
}

// New returns a REPL with an empty grid.
func New(dict *words.Dictionary, out io.Writer) *REPL {
	return &REPL{dict: dict, grid: filter.New(), out: out}
}

// Run reads commands from in until exit, EOF, or ctx cancellation.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	r.printf("Wordle filter REPL (%d words). Type 'help' for commands.\n", r.dict.Len())
	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printf(prompt)
		if !sc.Scan() {
			r.printf("\n")
			return sc.Err()
		}
		if quit := r.Exec(sc.Text()); quit {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the session should end.
func (r *REPL) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]
	log.Debug().Str("cmd", cmd).Strs("args", args).Msg("repl command")

	switch cmd {
	case "green", "yellow", "gray", "grey":
		if len(args) != 1 {
			r.printf("usage: %s <row>-<col>-<letter>[,...]\n", cmd)
			return false
		}
		color, _ := filter.ParseColor(cmd)
		r.setCells(color, args[0])
	case "row":
		r.setRow(args)
	case "clear":
		r.clear(args)
	case "show":
		r.show()
	case "run":
		r.run(args)
	case "target":
		r.setTarget(args)
	case "guess":
		r.guess(args)
	case "reset":
		r.grid.Reset()
		r.target = ""
		r.printf("Filter reset.\n")
	case "help":
		r.help()
	case "exit", "quit":
		return true
	default:
		r.printf("Unknown or malformed command %q (try 'help')\n", cmd)
	}
	return false
}

func (r *REPL) setCells(color filter.Color, arg string) {
	for _, pair := range strings.Split(arg, ",") {
		row, col, letter, err := r.parseCell(pair)
		if err != nil {
			r.printf("skipped %q: %v\n", pair, err)
			continue
		}
		r.grid.Set(row, col, letter, color)
		r.printf("Set %s: %c at %d-%d\n", color, letter, row, col)
	}
}

// parseCell accepts row-col-letter, or col-letter placed in the first row free at col.
func (r *REPL) parseCell(pair string) (row, col int, letter byte, err error) {
	fields := strings.Split(strings.TrimSpace(pair), "-")
	switch len(fields) {
	case 3:
		if row, err = strconv.Atoi(fields[0]); err != nil {
			return 0, 0, 0, errors.New("row is not a number")
		}
		fields = fields[1:]
	case 2:
		row = -1
	default:
		return 0, 0, 0, errors.New("expected row-col-letter")
	}
	if col, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, 0, errors.New("column is not a number")
	}
	if len(fields[1]) != 1 || !filter.ValidLetter(fields[1][0]) {
		return 0, 0, 0, errors.New("letter must be a single a-z")
	}
	letter = fields[1][0]

	if row == -1 {
		if col < 0 || col >= filter.Cols {
			return 0, 0, 0, fmt.Errorf("column must be 0-%d", filter.Cols-1)
		}
		if row = r.freeRow(col); row < 0 {
			return 0, 0, 0, fmt.Errorf("column %d is full", col)
		}
	}
	if !filter.InBounds(row, col) {
		return 0, 0, 0, fmt.Errorf("row must be 0-%d and column 0-%d", filter.Rows-1, filter.Cols-1)
	}
	return row, col, letter, nil
}

// freeRow returns the first row whose cell at col is empty, or -1.
func (r *REPL) freeRow(col int) int {
	for row := 0; row < filter.Rows; row++ {
		if !r.grid.Cell(row, col).Filled() {
			return row
		}
	}
	return -1
}

// nextEmptyRow returns the first fully empty row, or -1.
func (r *REPL) nextEmptyRow() int {
	for row := 0; row < filter.Rows; row++ {
		empty := true
		for col := 0; col < filter.Cols; col++ {
			empty = empty && !r.grid.Cell(row, col).Filled()
		}
		if empty {
			return row
		}
	}
	return -1
}

func (r *REPL) setRow(args []string) {
	if len(args) != 3 {
		r.printf("usage: row <n> <word> <pattern>\n")
		return
	}
	row, err := strconv.Atoi(args[0])
	if err != nil || !filter.InBounds(row, 0) {
		r.printf("row must be 0-%d\n", filter.Rows-1)
		return
	}
	word, pattern := args[1], args[2]
	if !validWord(word) || len(pattern) != filter.Cols {
		r.printf("word and pattern must both be %d characters\n", filter.Cols)
		return
	}
	var colors [filter.Cols]filter.Color
	for i := 0; i < filter.Cols; i++ {
		c, err := filter.ParseColor(pattern[i : i+1])
		if err != nil {
			r.printf("pattern: %v\n", err)
			return
		}
		colors[i] = c
	}
	if err := r.grid.SetRow(row, word, colors); err != nil {
		r.printf("%v\n", err)
		return
	}
	r.printf("Row %d set.\n", row)
}

func (r *REPL) clear(args []string) {
	if len(args) != 1 {
		r.printf("usage: clear <row>-<col>\n")
		return
	}
	var row, col int
	if _, err := fmt.Sscanf(args[0], "%d-%d", &row, &col); err != nil || !filter.InBounds(row, col) {
		r.printf("expected <row>-<col> with row 0-%d and column 0-%d\n", filter.Rows-1, filter.Cols-1)
		return
	}
	r.grid.Clear(row, col)
	r.printf("Cleared %d-%d\n", row, col)
}

func (r *REPL) run(args []string) {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			r.printf("limit must be a non-negative number\n")
			return
		}
		limit = n
	}
	matches := r.grid.Filter(r.dict, limit)
	r.printf("Matches (%d):\n", len(matches))
	for _, w := range matches {
		r.printf("%s\n", w)
	}
}

func (r *REPL) setTarget(args []string) {
	if len(args) != 1 || !validWord(args[0]) {
		r.printf("usage: target <%d-letter word>\n", filter.Cols)
		return
	}
	r.target = strings.ToLower(args[0])
	r.printf("Target set (hidden).\n")
}

// guess scores a word against the target and fills the next empty row with the result.
func (r *REPL) guess(args []string) {
	if r.target == "" {
		r.printf("no target; use 'target <word>' first\n")
		return
	}
	if len(args) != 1 || !validWord(args[0]) {
		r.printf("usage: guess <%d-letter word>\n", filter.Cols)
		return
	}
	row := r.nextEmptyRow()
	if row < 0 {
		r.printf("grid is full; reset to continue\n")
		return
	}
	colors, err := filter.Score(r.target, args[0])
	if err != nil {
		r.printf("%v\n", err)
		return
	}
	_ = r.grid.SetRow(row, args[0], colors)

	var sb strings.Builder
	for _, c := range colors {
		sb.WriteByte(patternChar(c))
	}
	r.printf("Row %d: %s %s\n", row, strings.ToLower(args[0]), sb.String())
}

// show renders the grid: [x] green, (x) yellow, ' x ' gray, ' . ' empty.
func (r *REPL) show() {
	cells := r.grid.Cells()
	for row := range cells {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d ", row)
		for _, c := range cells[row] {
			switch {
			case !c.Filled():
				sb.WriteString(" . ")
			case c.Color == filter.Confirmed:
				fmt.Fprintf(&sb, "[%c]", c.Letter)
			case c.Color == filter.Misplaced:
				fmt.Fprintf(&sb, "(%c)", c.Letter)
			default:
				fmt.Fprintf(&sb, " %c ", c.Letter)
			}
		}
		r.printf("%s\n", sb.String())
	}
}

func (r *REPL) help() {
	r.printf(`Commands:
  green <row>-<col>-<letter>[,...]  Set green letters, e.g. green 0-0-s,0-1-t
  yellow <row>-<col>-<letter>[,...] Set yellow letters, e.g. yellow 1-2-a
  gray <row>-<col>-<letter>[,...]   Set gray letters, e.g. gray 0-4-f
  (any of the above also take <col>-<letter>, filling the first free row)
  row <n> <word> <pattern>          Set a whole row, e.g. row 0 crane ..y.g
  clear <row>-<col>                 Empty one cell
  target <word>                     Hide an answer for simulated guesses
  guess <word>                      Score against the target into the next row
  show                              Print the grid
  run [limit]                       Show matching words
  reset                             Clear all filters
  exit                              Quit
`)
}

func (r *REPL) printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

func patternChar(c filter.Color) byte {
	switch c {
	case filter.Confirmed:
		return 'g'
	case filter.Misplaced:
		return 'y'
	default:
		return '.'
	}
}

func validWord(w string) bool {
	if len(w) != filter.Cols {
		return false
	}
	for i := 0; i < len(w); i++ {
		if !filter.ValidLetter(w[i]) {
			return false
		}
	}
	return true
}
