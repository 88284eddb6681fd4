package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/warriorsbball/painttouch/internal/gateway"
	"github.com/warriorsbball/painttouch/internal/painttouch"
	"github.com/warriorsbball/painttouch/internal/session"
)

type fakeSyncer struct {
	enabled  bool
	err      error
	checkErr error
	calls   int
	game    painttouch.Game
	records []painttouch.TouchRecord
}

func (f *fakeSyncer) Enabled() bool                 { return f.enabled }
func (f *fakeSyncer) Check(_ context.Context) error { return f.checkErr }

func (f *fakeSyncer) Sync(_ context.Context, game painttouch.Game, records []painttouch.TouchRecord) (gateway.SyncResult, error) {
	f.calls++
	f.game = game
	f.records = records
	if !f.enabled {
		return gateway.SyncResult{}, &painttouch.ConfigurationError{Key: gateway.DatabaseURLKey}
	}
	if f.err != nil {
		return gateway.SyncResult{}, f.err
	}
	return gateway.SyncResult{GameID: game.ID, Written: len(records)}, nil
}

func newTestRouter(t *testing.T, syncer Syncer, opts ...session.Option) *chi.Mux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	addRoutes(r, logger, Deps{Sessions: session.NewRegistry(opts...), Syncer: syncer})
	return r
}

// testClient replays the session cookie like a browser would.
type testClient struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *testClient {
	return &testClient{t: t, h: h}
}

func (c *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return w
}

func (c *testClient) addTouch(possession, typ string) painttouch.TouchRecord {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/touches", AddTouchRequest{Possession: possession, Type: typ})
	if w.Code != http.StatusCreated {
		c.t.Fatalf("add touch: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var rec painttouch.TouchRecord
	json.NewDecoder(w.Body).Decode(&rec)
	return rec
}

func (c *testClient) touches() []painttouch.TouchRecord {
	c.t.Helper()
	w := c.do(http.MethodGet, "/api/touches", nil)
	if w.Code != http.StatusOK {
		c.t.Fatalf("list touches: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp TouchListResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.Touches
}

func TestSessionCookieIssuedOnce(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))

	w := c.do(http.MethodGet, "/api/game", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(c.cookies) != 1 || c.cookies[0].Name != sessionCookieName {
		t.Fatalf("expected %s cookie, got %v", sessionCookieName, c.cookies)
	}

	w = c.do(http.MethodGet, "/api/game", nil)
	if len(w.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for a known session")
	}
}

func TestAddAndListTouches(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))

	a := c.addTouch("TeamA", "catch")
	b := c.addTouch("TeamB", "drop")
	d := c.addTouch("TeamA", "drop")

	got := c.touches()
	if len(got) != 3 {
		t.Fatalf("expected 3 touches, got %d", len(got))
	}
	for i, want := range []painttouch.TouchRecord{a, b, d} {
		if got[i].ID != want.ID || got[i].Seq != i+1 {
			t.Errorf("touch %d: got %s seq %d, want %s seq %d", i, got[i].ID, got[i].Seq, want.ID, i+1)
		}
	}
}

func TestAddTouchValidation(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))
	c.addTouch("TeamA", "catch")

	w := c.do(http.MethodPost, "/api/touches", AddTouchRequest{Possession: "", Type: "catch"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/touches", strings.NewReader("{"))
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d", rec.Code)
	}

	if n := len(c.touches()); n != 1 {
		t.Errorf("expected 1 touch after rejected adds, got %d", n)
	}
}

func TestAddTouchStrictOutcomes(t *testing.T) {
	r := newTestRouter(t, &fakeSyncer{}, session.WithCatalog(painttouch.OutcomeValues()...))
	c := newClient(t, r)

	w := c.do(http.MethodPost, "/api/touches", AddTouchRequest{Possession: "TeamA", Type: "catch"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("uncatalogued type: expected 400, got %d", w.Code)
	}

	rec := c.addTouch("TeamA", "turnover")
	if rec.Type != "turnover" {
		t.Errorf("expected type turnover, got %q", rec.Type)
	}
	if n := len(c.touches()); n != 1 {
		t.Errorf("expected 1 touch, got %d", n)
	}
}

func TestHealthzSyncDatabaseDown(t *testing.T) {
	r := newTestRouter(t, &fakeSyncer{enabled: true, checkErr: errors.New("refused")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["database"].Status != "degraded" || body["app"].Status != "ok" {
		t.Errorf("unexpected health body: %+v", body)
	}
}

func TestUpdateTouch(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))
	rec := c.addTouch("TeamA", "catch")

	note := "tipped at the elbow"
	w := c.do(http.MethodPut, "/api/touches/"+rec.ID, painttouch.TouchUpdate{Note: &note})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	got := c.touches()
	if got[0].Note != note || got[0].Type != "catch" {
		t.Errorf("unexpected touch after update: %+v", got[0])
	}
}

func TestUpdateTouchNotFound(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))
	c.addTouch("TeamA", "catch")
	before := c.touches()

	typ := "drop"
	w := c.do(http.MethodPut, "/api/touches/xyz", painttouch.TouchUpdate{Type: &typ})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	after := c.touches()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("touches changed: before %+v, after %+v", before, after)
	}
}

func TestRemoveTouch(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))
	a := c.addTouch("TeamA", "catch")
	b := c.addTouch("TeamB", "drop")

	w := c.do(http.MethodDelete, "/api/touches/"+a.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	got := c.touches()
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected only %s left, got %+v", b.ID, got)
	}

	w = c.do(http.MethodDelete, "/api/touches/"+a.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Code)
	}
}

func TestAnalytics(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))
	c.addTouch("TeamA", "catch")
	c.addTouch("TeamB", "drop")

	w := c.do(http.MethodGet, "/api/analytics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp AnalyticsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
	want := []painttouch.PossessionShare{
		{Possession: "TeamA", Count: 1, Percent: 50},
		{Possession: "TeamB", Count: 1, Percent: 50},
	}
	if len(resp.ByPossession) != len(want) {
		t.Fatalf("byPossession = %+v, want %+v", resp.ByPossession, want)
	}
	for i := range want {
		if resp.ByPossession[i] != want[i] {
			t.Errorf("byPossession[%d] = %+v, want %+v", i, resp.ByPossession[i], want[i])
		}
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	r := newTestRouter(t, &fakeSyncer{})
	coach := newClient(t, r)
	assistant := newClient(t, r)

	coach.addTouch("TeamA", "catch")

	if n := len(assistant.touches()); n != 0 {
		t.Errorf("assistant sees %d touches from another session", n)
	}
	if n := len(coach.touches()); n != 1 {
		t.Errorf("coach sees %d touches, want 1", n)
	}
}

func TestGamesFlow(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))

	w := c.do(http.MethodPost, "/api/games", CreateGameRequest{Name: "vs Gryphons", Opponent: "Guelph", Date: "2025-01-18"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var first painttouch.Game
	json.NewDecoder(w.Body).Decode(&first)
	c.addTouch("Waterloo", "putback")

	w = c.do(http.MethodPost, "/api/games", CreateGameRequest{Name: "vs Gaels", Opponent: "Queen's"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create second: expected 201, got %d", w.Code)
	}
	var second painttouch.Game
	json.NewDecoder(w.Body).Decode(&second)

	if n := len(c.touches()); n != 0 {
		t.Errorf("new game should start empty, got %d touches", n)
	}

	w = c.do(http.MethodPost, "/api/games/"+first.ID+"/select", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", w.Code)
	}
	var list GameListResponse
	json.NewDecoder(w.Body).Decode(&list)
	if list.ActiveID != first.ID || len(list.Games) != 2 {
		t.Fatalf("unexpected game list: %+v", list)
	}
	if list.Games[1].TouchCount != 1 || !list.Games[1].Active {
		t.Errorf("first game entry = %+v, want active with 1 touch", list.Games[1])
	}

	w = c.do(http.MethodDelete, "/api/games/"+first.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = c.do(http.MethodGet, "/api/game", nil)
	var active ActiveGameResponse
	json.NewDecoder(w.Body).Decode(&active)
	if active.Game.ID != second.ID {
		t.Errorf("active game = %s, want %s", active.Game.ID, second.ID)
	}

	w = c.do(http.MethodPost, "/api/games/"+first.ID+"/select", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("select deleted: expected 404, got %d", w.Code)
	}

	w = c.do(http.MethodPost, "/api/games", CreateGameRequest{Name: ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("create without name: expected 400, got %d", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))

	w := c.do(http.MethodGet, "/api/export.csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "id,possession,type,timestamp,note\n" {
		t.Errorf("empty export = %q", got)
	}

	c.addTouch("TeamA", "catch")
	c.addTouch("TeamB", "drop")

	w = c.do(http.MethodGet, "/api/export.csv", nil)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content-type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Untitled_game_") {
		t.Errorf("content-disposition = %q", cd)
	}
	records, err := gateway.ParseCSV(w.Body)
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(records) != 2 || records[0].Possession != "TeamA" || records[1].Possession != "TeamB" {
		t.Errorf("unexpected export: %+v", records)
	}
}

func TestReportPDF(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{}))
	c.addTouch("Waterloo", "shot_at_rim_make")

	w := c.do(http.MethodGet, "/api/report.pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content-type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

func TestSync(t *testing.T) {
	tests := []struct {
		name        string
		syncer      *fakeSyncer
		wantStatus  int
		wantWritten int
	}{
		{name: "disabled", syncer: &fakeSyncer{}, wantStatus: http.StatusServiceUnavailable},
		{name: "ok", syncer: &fakeSyncer{enabled: true}, wantStatus: http.StatusOK, wantWritten: 2},
		{
			name:       "unreachable",
			syncer:     &fakeSyncer{enabled: true, err: &painttouch.ConnectionError{Err: errors.New("refused")}},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:        "partial",
			syncer:      &fakeSyncer{enabled: true, err: &painttouch.SyncError{Written: 1, Err: errors.New("disk full")}},
			wantStatus:  http.StatusBadGateway,
			wantWritten: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, newTestRouter(t, tt.syncer))
			c.addTouch("TeamA", "catch")
			c.addTouch("TeamB", "drop")

			w := c.do(http.MethodPost, "/api/sync", nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			var body struct {
				Written int `json:"written"`
			}
			json.NewDecoder(w.Body).Decode(&body)
			if body.Written != tt.wantWritten {
				t.Errorf("written = %d, want %d", body.Written, tt.wantWritten)
			}

			// The session stays usable after any gateway outcome.
			c.addTouch("TeamA", "drop")
			if n := len(c.touches()); n != 3 {
				t.Errorf("expected 3 touches after sync, got %d", n)
			}
		})
	}
}

func TestSyncSendsActiveSnapshot(t *testing.T) {
	syncer := &fakeSyncer{enabled: true}
	c := newClient(t, newTestRouter(t, syncer))
	a := c.addTouch("TeamA", "catch")

	c.do(http.MethodPost, "/api/sync", nil)
	c.do(http.MethodPost, "/api/sync", nil)

	if syncer.calls != 2 {
		t.Fatalf("sync calls = %d, want 2", syncer.calls)
	}
	if len(syncer.records) != 1 || syncer.records[0].ID != a.ID {
		t.Errorf("synced records = %+v", syncer.records)
	}
	if syncer.game.Name != "Untitled game" {
		t.Errorf("synced game = %+v", syncer.game)
	}
}

func TestCatalog(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSyncer{enabled: true}))

	w := c.do(http.MethodGet, "/api/catalog", nil)
	var resp CatalogResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if !resp.SyncEnabled {
		t.Error("expected syncEnabled")
	}
	if len(resp.Outcomes) != len(painttouch.Outcomes) || len(resp.Teams) != len(painttouch.Teams) {
		t.Errorf("unexpected catalog sizes: %d outcomes, %d teams", len(resp.Outcomes), len(resp.Teams))
	}
}
