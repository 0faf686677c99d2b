// internal/httpserver/routes_match.go
//
// POST /match: stateless filtering. The client sends every filled cell and
// gets the matches back without creating a session.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/robalobadob/wordle/apps/filter-server/internal/filter"
)

type matchCell struct {
	Row    int          `json:"row"`
	Col    int          `json:"col"`
	Letter string       `json:"letter"`
	Color  filter.Color `json:"color"`
}

type matchReq struct {
	Cells []matchCell `json:"cells"`
	Limit int         `json:"limit"` // 0 = all
}

// handleMatch builds a throwaway grid from the request and filters the dictionary.
// Cells are applied in request order, so a repeated (row, col) keeps the last one.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, "invalid_limit")
		return
	}
	g := filter.New()
	for _, c := range req.Cells {
		if !filter.InBounds(c.Row, c.Col) {
			writeError(w, http.StatusBadRequest, "invalid_cell")
			return
		}
		letter, ok := parseLetter(c.Letter)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_letter")
			return
		}
		g.Set(c.Row, c.Col, letter, c.Color)
	}
	out := g.Filter(s.dict, s.capLimit(req.Limit))
	writeJSON(w, http.StatusOK, matchRes{Count: len(out), Words: out})
}
