package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sparql-flatten/internal/model"
	"sparql-flatten/internal/store"
)

func newTestHandler(t *testing.T, maxBody int64) (*Handler, *store.DB) {
	t.Helper()
	db, err := store.InitDB(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db, log.New(io.Discard, "", 0), maxBody, 5*time.Second), db
}

func postFlatten(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/flatten", strings.NewReader(body))
	h.Flatten(rec, req)
	return rec
}

func TestFlatten_OK(t *testing.T) {
	h, db := newTestHandler(t, 1<<20)
	rec := postFlatten(h, `{"results":{"bindings":[{"x":{"type":"uri","value":"http://example.org/a"},"y":{"type":"literal","value":"42"}}]}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != `[{"x":"http://example.org/a","y":"42"}]` {
		t.Fatalf("got %s", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	runID := rec.Header().Get("X-Run-ID")
	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("run %q not journaled: %v", runID, err)
	}
	if run.Status != model.StatusCompleted || run.RecordCount != 1 {
		t.Fatalf("unexpected run %#v", run)
	}
}

func TestFlatten_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		kind string
	}{
		{"malformed", `{"results":`, http.StatusBadRequest, "malformed_input"},
		{"no bindings", `{"results":{}}`, http.StatusUnprocessableEntity, "shape_mismatch"},
		{"no value", `{"results":{"bindings":[{"x":{"type":"uri"}}]}}`, http.StatusUnprocessableEntity, "shape_mismatch"},
		{"too large", `{"results":{"bindings":[` + strings.Repeat(" ", 200) + `]}}`, http.StatusRequestEntityTooLarge, "io"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, db := newTestHandler(t, 128)
			rec := postFlatten(h, tc.body)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Kind != tc.kind || resp.RunID == "" || resp.Error == "" {
				t.Fatalf("unexpected error body %#v", resp)
			}

			errs, err := db.GetRunErrors(resp.RunID)
			if err != nil {
				t.Fatalf("get run errors: %v", err)
			}
			if len(errs) != 1 || errs[0].Kind != tc.kind {
				t.Fatalf("expected journaled %s error, got %#v", tc.kind, errs)
			}
		})
	}
}

func TestRuns_ListGetErrors(t *testing.T) {
	h, _ := newTestHandler(t, 1<<20)
	ok := postFlatten(h, `{"results":{"bindings":[]}}`)
	bad := postFlatten(h, `{"results":{}}`)

	rec := httptest.NewRecorder()
	h.ListRuns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	var runs []model.RunInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	rec = httptest.NewRecorder()
	h.GetRun(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+ok.Header().Get("X-Run-ID"), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get run: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.GetRun(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/does-not-exist", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.GetRunErrors(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+bad.Header().Get("X-Run-ID")+"/errors", nil))
	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode errors: %v", err)
	}
	if body.Count != 1 {
		t.Fatalf("expected 1 error, got %d", body.Count)
	}
}

func TestRunIDFromPath(t *testing.T) {
	tests := []struct {
		path, suffix, want string
		ok                 bool
	}{
		{"/api/v1/runs/abc", "", "abc", true},
		{"/api/v1/runs/abc/errors", "/errors", "abc", true},
		{"/api/v1/runs/", "", "", false},
		{"/api/v1/runs/a/b", "", "", false},
		{"/api/v1/runs/errors", "/errors", "", false},
		{"/other/abc", "", "", false},
	}
	for _, tc := range tests {
		got, ok := runIDFromPath(tc.path, tc.suffix)
		if got != tc.want || ok != tc.ok {
			t.Errorf("runIDFromPath(%q, %q) = %q, %v", tc.path, tc.suffix, got, ok)
		}
	}
}
