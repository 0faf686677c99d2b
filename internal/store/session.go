// internal/store/session.go
//
// Session pairs one constraint grid with the caller that owns it.
// The grid itself is not synchronized; Session serializes access so that
// concurrent HTTP requests against the same session see whole mutations.

package store

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/filter-server/internal/filter"
)

// Session is one caller's grid.
type Session struct {
	ID      string
	Created time.Time

	mu      sync.Mutex
	grid    *filter.Grid
	touched time.Time
}

// NewSession returns a session with an empty grid and a random ID.
func NewSession() *Session {
	now := time.Now()
	return &Session{ID: randomID(), Created: now, grid: filter.New(), touched: now}
}

// Update runs fn with exclusive access to the grid.
func (s *Session) Update(fn func(g *filter.Grid)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.grid)
	s.touched = time.Now()
}

// Cells returns a snapshot of the grid.
func (s *Session) Cells() [filter.Rows][filter.Cols]filter.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Cells()
}

// Filter runs the grid's filter against src.
func (s *Session) Filter(src filter.WordSource, limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	return s.grid.Filter(src, limit)
}

// LastUsed reports when the session was last read or written.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
