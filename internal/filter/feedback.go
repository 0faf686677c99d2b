// internal/filter/feedback.go
//
// Puzzle feedback scoring, used to fill grid rows from a known target
// (simulation and tests) instead of typing colors by hand.

package filter

import "errors"

// ErrWordLength is returned when a guess or answer is not Cols letters long.
var ErrWordLength = errors.New("filter: word must be 5 letters")

// Score returns the feedback colors the puzzle shows for guess against answer.
//
// Pass 1 marks exact hits and counts the answer letters left over.
// Pass 2 marks a non-hit guess letter Misplaced while leftover copies remain,
// otherwise Absent. Repeated letters therefore get one yellow per spare copy.
func Score(answer, guess string) ([Cols]Color, error) {
	var res [Cols]Color
	if len(answer) != Cols || len(guess) != Cols {
		return res, ErrWordLength
	}
	answer, guess = lowerWord(answer), lowerWord(guess)

	var counts [256]int
	for i := 0; i < Cols; i++ {
		if guess[i] == answer[i] {
			res[i] = Confirmed
		} else {
			counts[answer[i]]++
		}
	}
	for i := 0; i < Cols; i++ {
		if res[i] == Confirmed {
			continue
		}
		if c := guess[i]; counts[c] > 0 {
			res[i] = Misplaced
			counts[c]--
		}
	}
	return res, nil
}

// SetRow writes a whole guess row at once.
func (g *Grid) SetRow(row int, guess string, colors [Cols]Color) error {
	if len(guess) != Cols {
		return ErrWordLength
	}
	for col := 0; col < Cols; col++ {
		g.Set(row, col, guess[col], colors[col])
	}
	return nil
}

func lowerWord(s string) string {
	b := []byte(s)
	for i := range b {
		b[i] = lower(b[i])
	}
	return string(b)
}
