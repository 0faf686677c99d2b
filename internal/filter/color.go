// internal/filter/color.go
//
// Color is the per-cell feedback signal of a guess.
//   - Absent    ("gray"):   letter is not at this cell (and, unless used elsewhere, nowhere).
//   - Misplaced ("yellow"): letter is in the solution but not at this cell.
//   - Confirmed ("green"):  letter is in the solution exactly at this cell.

package filter

import (
	"fmt"
	"strings"
)

// Color classifies one grid cell.
type Color uint8

const (
	Absent Color = iota
	Misplaced
	Confirmed
)

// Next cycles gray → yellow → green → gray.
func (c Color) Next() Color {
	switch c {
	case Absent:
		return Misplaced
	case Misplaced:
		return Confirmed
	default:
		return Absent
	}
}

func (c Color) String() string {
	switch c {
	case Misplaced:
		return "yellow"
	case Confirmed:
		return "green"
	default:
		return "gray"
	}
}

// MarshalText encodes the color as its puzzle name.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the puzzle names, the long names, and single-letter forms.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseColor maps a user-supplied name to a Color.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gray", "grey", "absent", "b", "x", ".":
		return Absent, nil
	case "yellow", "misplaced", "y":
		return Misplaced, nil
	case "green", "confirmed", "g":
		return Confirmed, nil
	}
	return Absent, fmt.Errorf("filter: unknown color %q", s)
}
