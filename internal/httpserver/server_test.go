package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/filter-server/internal/config"
	"github.com/robalobadob/wordle/apps/filter-server/internal/httpserver"
	"github.com/robalobadob/wordle/apps/filter-server/internal/store"
	"github.com/robalobadob/wordle/apps/filter-server/internal/words"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

var testWords = []string{"abase", "banal", "cigar", "crane", "llama", "shade", "slate", "stone"}

type harness struct {
	t     *testing.T
	srv   *httpserver.Server
	store *store.Memory
}

func newHarness(t *testing.T, limitMax int) *harness {
	t.Helper()
	dict, err := words.New(testWords)
	require.NoError(t, err)
	cfg := &config.Config{
		SessionSecret: []byte("test-secret"),
		SessionTTL:    time.Hour,
		ClientOrigin:  "http://localhost:5173",
		MatchLimitMax: limitMax,
	}
	mem := store.NewMemoryStore()
	return &harness{t: t, srv: httpserver.New(cfg, dict, mem), store: mem}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (h *harness) newSession() (id, token string) {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/session", "", nil)
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		SessionID string `json:"sessionId"`
		Token     string `json:"token"`
	}
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(h.t, res.Token)
	return res.SessionID, res.Token
}

type matchBody struct {
	Count int      `json:"count"`
	Words []string `json:"words"`
}

func decodeMatches(t *testing.T, rec *httptest.ResponseRecorder) matchBody {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var mb matchBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mb))
	return mb
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e.Error
}

func TestHealthAndDebug(t *testing.T) {
	h := newHarness(t, 0)

	rec := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = h.do(http.MethodGet, "/debug/words", "", nil)
	assert.JSONEq(t, `{"words":8}`, rec.Body.String())

	rec = h.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionFlow(t *testing.T) {
	h := newHarness(t, 0)
	id, tok := h.newSession()
	assert.Equal(t, 1, h.store.Len())

	all := decodeMatches(t, h.do(http.MethodGet, "/session/matches", tok, nil))
	assert.Equal(t, testWords, all.Words)

	rec := h.do(http.MethodPut, "/session/cells/0/0", tok, map[string]string{"letter": "S", "color": "green"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var grid struct {
		SessionID string `json:"sessionId"`
		Rows      [][]struct {
			Letter string `json:"letter"`
			Color  string `json:"color"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grid))
	assert.Equal(t, id, grid.SessionID)
	require.Len(t, grid.Rows, 6)
	require.Len(t, grid.Rows[0], 5)
	assert.Equal(t, "s", grid.Rows[0][0].Letter)
	assert.Equal(t, "green", grid.Rows[0][0].Color)
	assert.Equal(t, "", grid.Rows[5][4].Letter)
	assert.Equal(t, "gray", grid.Rows[5][4].Color)

	got := decodeMatches(t, h.do(http.MethodGet, "/session/matches", tok, nil))
	assert.Equal(t, []string{"shade", "slate", "stone"}, got.Words)
	assert.Equal(t, 3, got.Count)

	got = decodeMatches(t, h.do(http.MethodGet, "/session/matches?limit=1", tok, nil))
	assert.Equal(t, []string{"shade"}, got.Words)

	rec = h.do(http.MethodDelete, "/session/cells/0/0", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeMatches(t, h.do(http.MethodGet, "/session/matches", tok, nil))
	assert.Equal(t, testWords, got.Words)

	h.do(http.MethodPut, "/session/cells/0/0", tok, map[string]string{"letter": "q", "color": "green"})
	got = decodeMatches(t, h.do(http.MethodGet, "/session/matches", tok, nil))
	assert.Equal(t, 0, got.Count)
	assert.NotNil(t, got.Words)

	rec = h.do(http.MethodPost, "/session/reset", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeMatches(t, h.do(http.MethodGet, "/session/matches", tok, nil))
	assert.Equal(t, testWords, got.Words)

	rec = h.do(http.MethodDelete, "/session", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, h.store.Len())

	rec = h.do(http.MethodGet, "/session", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session_expired", errorCode(t, rec))
}

func TestSetRowWithPattern(t *testing.T) {
	h := newHarness(t, 0)
	_, tok := h.newSession()

	rec := h.do(http.MethodPut, "/session/rows/2", tok, map[string]string{"word": "stone", "pattern": "....."})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decodeMatches(t, h.do(http.MethodGet, "/session/matches", tok, nil))
	assert.Equal(t, []string{"cigar", "llama"}, got.Words)

	rec = h.do(http.MethodPut, "/session/rows/6", tok, map[string]string{"word": "stone", "pattern": "....."})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(http.MethodPut, "/session/rows/0", tok, map[string]string{"word": "ston", "pattern": "....."})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(http.MethodPut, "/session/rows/0", tok, map[string]string{"word": "stone", "pattern": "..?.."})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCycleCell(t *testing.T) {
	h := newHarness(t, 0)
	_, tok := h.newSession()

	h.do(http.MethodPut, "/session/cells/1/1", tok, map[string]string{"letter": "a", "color": "gray"})
	rec := h.do(http.MethodPost, "/session/cells/1/1/cycle", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"letter":"a","color":"yellow"}`, rec.Body.String())

	rec = h.do(http.MethodPost, "/session/cells/1/1/cycle", tok, nil)
	assert.JSONEq(t, `{"letter":"a","color":"green"}`, rec.Body.String())
	rec = h.do(http.MethodPost, "/session/cells/1/1/cycle", tok, nil)
	assert.JSONEq(t, `{"letter":"a","color":"gray"}`, rec.Body.String())
}

func TestInvalidCellInput(t *testing.T) {
	h := newHarness(t, 0)
	_, tok := h.newSession()

	cases := []struct {
		name, path string
		body       any
		code       string
	}{
		{"row 6", "/session/cells/6/0", map[string]string{"letter": "a"}, "invalid_cell"},
		{"col 5", "/session/cells/0/5", map[string]string{"letter": "a"}, "invalid_cell"},
		{"negative", "/session/cells/-1/0", map[string]string{"letter": "a"}, "invalid_cell"},
		{"not a number", "/session/cells/x/0", map[string]string{"letter": "a"}, "invalid_cell"},
		{"two letters", "/session/cells/0/0", map[string]string{"letter": "ab"}, "invalid_letter"},
		{"digit", "/session/cells/0/0", map[string]string{"letter": "1"}, "invalid_letter"},
		{"bad color", "/session/cells/0/0", map[string]string{"letter": "a", "color": "pink"}, "bad_json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(http.MethodPut, tc.path, tok, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))
		})
	}

	rec := h.do(http.MethodGet, "/session/matches?limit=-2", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionAuth(t *testing.T) {
	h := newHarness(t, 0)

	rec := h.do(http.MethodGet, "/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))

	rec = h.do(http.MethodGet, "/session", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))

	// A well-signed token for a session this server never issued.
	other := newHarness(t, 0)
	_, foreign := other.newSession()
	rec = h.do(http.MethodGet, "/session", foreign, nil)
	assert.Equal(t, "session_expired", errorCode(t, rec))

	// Tampered signature.
	_, tok := h.newSession()
	rec = h.do(http.MethodGet, "/session", tok[:len(tok)-2]+"xx", nil)
	assert.Equal(t, "invalid_token", errorCode(t, rec))
}

func TestSessionCookie(t *testing.T) {
	h := newHarness(t, 0)
	rec := h.do(http.MethodPost, "/session", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/session/matches", nil)
	req.AddCookie(cookies[0])
	out := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(out, req)
	assert.Equal(t, testWords, decodeMatches(t, out).Words)
}

func TestStatelessMatch(t *testing.T) {
	h := newHarness(t, 0)

	body := map[string]any{
		"cells": []map[string]any{
			{"row": 0, "col": 0, "letter": "a", "color": "yellow"},
			{"row": 0, "col": 2, "letter": "a", "color": "gray"},
		},
	}
	got := decodeMatches(t, h.do(http.MethodPost, "/match", "", body))
	assert.Equal(t, []string{"banal", "cigar"}, got.Words)

	body["limit"] = 1
	got = decodeMatches(t, h.do(http.MethodPost, "/match", "", body))
	assert.Equal(t, []string{"banal"}, got.Words)

	got = decodeMatches(t, h.do(http.MethodPost, "/match", "", map[string]any{}))
	assert.Equal(t, testWords, got.Words)

	rec := h.do(http.MethodPost, "/match", "", map[string]any{
		"cells": []map[string]any{{"row": 6, "col": 0, "letter": "a", "color": "gray"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_cell", errorCode(t, rec))
}

func TestMatchLimitCap(t *testing.T) {
	h := newHarness(t, 2)
	_, tok := h.newSession()

	got := decodeMatches(t, h.do(http.MethodGet, "/session/matches", tok, nil))
	assert.Equal(t, []string{"abase", "banal"}, got.Words)

	got = decodeMatches(t, h.do(http.MethodGet, "/session/matches?limit=1", tok, nil))
	assert.Equal(t, []string{"abase"}, got.Words)

	got = decodeMatches(t, h.do(http.MethodPost, "/match", "", map[string]any{"limit": 5}))
	assert.Len(t, got.Words, 2)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, 0)
	rec := h.do(http.MethodOptions, "/match", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartAndShutdown(t *testing.T) {
	h := newHarness(t, 0)
	errc := make(chan error, 1)
	go func() { errc <- h.srv.Start("127.0.0.1:0") }()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, h.srv.Shutdown(context.Background()))
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
