// internal/filter/grid.go
//
// Constraint grid and matcher.
// Responsibilities:
//   - Hold up to six guess rows of five cells each (always fully allocated).
//   - Collapse every filled cell into confirmed / misplaced / absent constraints.
//   - Test candidate words against those constraints and filter a word source.
//
// Notes:
//   - Row order carries no meaning for matching except that a later row's Confirmed
//     letter overwrites an earlier one at the same position.
//   - Out-of-range indices are caller bugs and panic.

package filter

import (
	"fmt"
	"strings"
)

const (
	Rows = 6
	Cols = 5
)

// Cell is one grid slot. Letter == 0 means the cell is empty and carries no constraint.
type Cell struct {
	Letter byte
	Color  Color
}

// Filled reports whether the cell holds a letter.
func (c Cell) Filled() bool { return c.Letter != 0 }

// Grid is the 6x5 collection of cells for one session.
type Grid struct {
	cells [Rows][Cols]Cell
}

// WordSource is a read-only, indexable word list.
type WordSource interface {
	Len() int
	At(i int) string
}

// New returns an empty grid.
func New() *Grid { return &Grid{} }

// Set overwrites the cell at (row, col). Letters are stored lowercase.
func (g *Grid) Set(row, col int, letter byte, c Color) {
	checkBounds(row, col)
	g.cells[row][col] = Cell{Letter: lower(letter), Color: c}
}

// Clear empties the cell at (row, col).
func (g *Grid) Clear(row, col int) {
	checkBounds(row, col)
	g.cells[row][col] = Cell{}
}

// Cycle advances the color of the cell at (row, col) and returns the new color.
// Empty cells cycle too; they still carry no constraint until a letter is set.
func (g *Grid) Cycle(row, col int) Color {
	checkBounds(row, col)
	next := g.cells[row][col].Color.Next()
	g.cells[row][col].Color = next
	return next
}

// Cell returns a copy of the cell at (row, col).
func (g *Grid) Cell(row, col int) Cell {
	checkBounds(row, col)
	return g.cells[row][col]
}

// Cells returns a snapshot of the whole grid.
func (g *Grid) Cells() [Rows][Cols]Cell { return g.cells }

// Reset restores the empty state.
func (g *Grid) Reset() { g.cells = [Rows][Cols]Cell{} }

// Empty reports whether no cell holds a letter.
func (g *Grid) Empty() bool {
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c].Filled() {
				return false
			}
		}
	}
	return true
}

// hint is a (letter, position) pair from a Misplaced or Absent cell.
type hint struct {
	letter byte
	pos    int
}

// constraints is the flat, row-independent view of a grid.
type constraints struct {
	confirmed [Cols]byte // 0 = no positional constraint
	misplaced []hint
	absent    []hint
}

func (g *Grid) collapse() constraints {
	var cs constraints
	for r := range g.cells {
		for i, cell := range g.cells[r] {
			if !cell.Filled() {
				continue
			}
			switch cell.Color {
			case Confirmed:
				cs.confirmed[i] = cell.Letter
			case Misplaced:
				cs.misplaced = append(cs.misplaced, hint{cell.Letter, i})
			default:
				cs.absent = append(cs.absent, hint{cell.Letter, i})
			}
		}
	}
	return cs
}

// used reports whether c is known to be in the solution via a green or yellow cell.
func (cs *constraints) used(c byte) bool {
	for _, g := range cs.confirmed {
		if g == c {
			return true
		}
	}
	for _, h := range cs.misplaced {
		if h.letter == c {
			return true
		}
	}
	return false
}

func (cs *constraints) matches(word string) bool {
	if len(word) != Cols {
		return false
	}

	// Confirmed first: cheapest and most selective.
	for i, g := range cs.confirmed {
		if g != 0 && word[i] != g {
			return false
		}
	}

	for _, h := range cs.misplaced {
		if word[h.pos] == h.letter || !contains(word, h.letter) {
			return false
		}
	}

	// An absent letter that is also green/yellow elsewhere only means
	// "no additional occurrences", so only its own position is ruled out.
	for _, h := range cs.absent {
		if word[h.pos] == h.letter {
			return false
		}
		if !cs.used(h.letter) && contains(word, h.letter) {
			return false
		}
	}
	return true
}

// Matches reports whether word satisfies every filled cell of the grid.
func (g *Grid) Matches(word string) bool {
	cs := g.collapse()
	return cs.matches(word)
}

// Filter returns, in source order, the first limit words that match.
// limit <= 0 returns every match. The result is never nil.
func (g *Grid) Filter(src WordSource, limit int) []string {
	cs := g.collapse()
	out := []string{}
	for i, n := 0, src.Len(); i < n; i++ {
		w := src.At(i)
		if !cs.matches(w) {
			continue
		}
		out = append(out, w)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// InBounds reports whether (row, col) addresses a grid cell.
// Front ends use it to reject input before calling Set.
func InBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// ValidLetter reports whether b is an ASCII letter of either case.
func ValidLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// checkBounds panics on indices outside the 6x5 grid.
func checkBounds(row, col int) {
	if InBounds(row, col) {
		return
	}
	if row < 0 || row >= Rows {
		panic(fmt.Sprintf("filter: row index %d out of range [0,%d)", row, Rows))
	}
	if col < 0 || col >= Cols {
		panic(fmt.Sprintf("filter: column index %d out of range [0,%d)", col, Cols))
	}
}

func contains(word string, c byte) bool { return strings.IndexByte(word, c) >= 0 }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
