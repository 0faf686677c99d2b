// internal/httpserver/routes_session.go
//
// Session routes. A session owns one 6x5 grid that a front end edits cell by
// cell, re-querying matches after each edit.
//   - POST   /session                          → create session, issue token
//   - GET    /session                          → grid snapshot
//   - DELETE /session                          → forget session
//   - PUT    /session/cells/{row}/{col}        → set letter + color
//   - DELETE /session/cells/{row}/{col}        → clear cell
//   - POST   /session/cells/{row}/{col}/cycle  → gray → yellow → green → gray
//   - PUT    /session/rows/{row}               → set a whole guess row
//   - POST   /session/reset                    → empty grid
//   - GET    /session/matches?limit=N          → matching words

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/filter-server/internal/filter"
	"github.com/robalobadob/wordle/apps/filter-server/internal/store"
)

// ctxSessionKey is the context key type for the resolved *store.Session.
type ctxSessionKey struct{}

type cellDTO struct {
	Letter string       `json:"letter"`
	Color  filter.Color `json:"color"`
}

type gridRes struct {
	SessionID string      `json:"sessionId"`
	Rows      [][]cellDTO `json:"rows"`
}

type matchRes struct {
	Count int      `json:"count"`
	Words []string `json:"words"`
}

type newSessionRes struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type setCellReq struct {
	Letter string       `json:"letter"`
	Color  filter.Color `json:"color"`
}

type setRowReq struct {
	Word    string         `json:"word"`
	Colors  []filter.Color `json:"colors"`
	Pattern string         `json:"pattern"` // alternative to Colors, e.g. "g.y.."
}

// mountSession registers POST /session and the token-gated /session subtree.
func (s *Server) mountSession() {
	s.r.Route("/session", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Group(func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/", s.handleGetGrid)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/cells/{row}/{col}", s.handleSetCell)
			r.Delete("/cells/{row}/{col}", s.handleClearCell)
			r.Post("/cells/{row}/{col}/cycle", s.handleCycleCell)
			r.Put("/rows/{row}", s.handleSetRow)
			r.Post("/reset", s.handleReset)
			r.Get("/matches", s.handleSessionMatches)
		})
	})
}

// withSession resolves the caller's token to a live session or responds 401.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerOrCookie(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sid, err := s.parseToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		sess, err := s.store.Get(r.Context(), sid)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "session_expired")
			return
		}
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("session", sid).Msg("load session")
			writeError(w, http.StatusInternalServerError, "store_error")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *store.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*store.Session)
	return sess
}

// handleNewSession creates an empty grid and returns a token for it.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sess := store.NewSession()
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setSessionCookie(w, tok, exp)
	hlog.FromRequest(r).Info().Str("session", sess.ID).Msg("session created")
	writeJSON(w, http.StatusCreated, newSessionRes{
		SessionID: sess.ID,
		Token:     tok,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, toGridRes(sess.ID, sess.Cells()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleSetCell overwrites one cell; last write wins.
func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	row, col, ok := cellParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_cell")
		return
	}
	var req setCellReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	letter, ok := parseLetter(req.Letter)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_letter")
		return
	}
	sess := sessionFrom(r)
	sess.Update(func(g *filter.Grid) { g.Set(row, col, letter, req.Color) })
	writeJSON(w, http.StatusOK, toGridRes(sess.ID, sess.Cells()))
}

func (s *Server) handleClearCell(w http.ResponseWriter, r *http.Request) {
	row, col, ok := cellParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_cell")
		return
	}
	sess := sessionFrom(r)
	sess.Update(func(g *filter.Grid) { g.Clear(row, col) })
	writeJSON(w, http.StatusOK, toGridRes(sess.ID, sess.Cells()))
}

// handleCycleCell is the grid-click action of graphical front ends.
func (s *Server) handleCycleCell(w http.ResponseWriter, r *http.Request) {
	row, col, ok := cellParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_cell")
		return
	}
	sess := sessionFrom(r)
	var cell filter.Cell
	sess.Update(func(g *filter.Grid) {
		g.Cycle(row, col)
		cell = g.Cell(row, col)
	})
	writeJSON(w, http.StatusOK, toCellDTO(cell))
}

func (s *Server) handleSetRow(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil || !filter.InBounds(row, 0) {
		writeError(w, http.StatusBadRequest, "invalid_row")
		return
	}
	var req setRowReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	colors, ok := rowColors(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_colors")
		return
	}
	if !validWord(req.Word) {
		writeError(w, http.StatusBadRequest, "invalid_word")
		return
	}
	sess := sessionFrom(r)
	var setErr error
	sess.Update(func(g *filter.Grid) { setErr = g.SetRow(row, req.Word, colors) })
	if setErr != nil {
		writeError(w, http.StatusBadRequest, "invalid_word")
		return
	}
	writeJSON(w, http.StatusOK, toGridRes(sess.ID, sess.Cells()))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Update(func(g *filter.Grid) { g.Reset() })
	writeJSON(w, http.StatusOK, toGridRes(sess.ID, sess.Cells()))
}

func (s *Server) handleSessionMatches(w http.ResponseWriter, r *http.Request) {
	limit, err := s.parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out := sessionFrom(r).Filter(s.dict, limit)
	writeJSON(w, http.StatusOK, matchRes{Count: len(out), Words: out})
}

// ------------------------------ helpers ------------------------------------

// cellParams parses {row}/{col} and checks they address a grid cell.
func cellParams(r *http.Request) (row, col int, ok bool) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		return 0, 0, false
	}
	col, err = strconv.Atoi(chi.URLParam(r, "col"))
	if err != nil {
		return 0, 0, false
	}
	return row, col, filter.InBounds(row, col)
}

func parseLetter(s string) (byte, bool) {
	if len(s) != 1 || !filter.ValidLetter(s[0]) {
		return 0, false
	}
	return s[0], true
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

// rowColors takes Colors if given, otherwise parses Pattern one char per cell.
func rowColors(req setRowReq) ([filter.Cols]filter.Color, bool) {
	var out [filter.Cols]filter.Color
	switch {
	case len(req.Colors) > 0:
		if len(req.Colors) != filter.Cols {
			return out, false
		}
		copy(out[:], req.Colors)
	case req.Pattern != "":
		if len(req.Pattern) != filter.Cols {
			return out, false
		}
		for i := 0; i < filter.Cols; i++ {
			c, err := filter.ParseColor(req.Pattern[i : i+1])
			if err != nil {
				return out, false
			}
			out[i] = c
		}
	}
	return out, true
}

func toCellDTO(c filter.Cell) cellDTO {
	d := cellDTO{Color: c.Color}
	if c.Filled() {
		d.Letter = string(rune(c.Letter))
	}
	return d
}

func toGridRes(sid string, cells [filter.Rows][filter.Cols]filter.Cell) gridRes {
	res := gridRes{SessionID: sid, Rows: make([][]cellDTO, filter.Rows)}
	for r := range cells {
		res.Rows[r] = make([]cellDTO, filter.Cols)
		for c := range cells[r] {
			res.Rows[r][c] = toCellDTO(cells[r][c])
		}
	}
	return res
}
