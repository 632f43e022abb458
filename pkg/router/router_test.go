package router

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newQuietRouter() *Router {
	r := New()
	r.SetLogger(log.New(io.Discard, "", 0))
	return r
}

func named(name string) HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, name)
	}
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMatchWildcardRoute(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"/api/v1/runs/abc", "/api/v1/runs/*", true},
		{"/api/v1/runs/abc/errors", "/api/v1/runs/*/errors", true},
		{"/api/v1/runs/abc/other", "/api/v1/runs/*/errors", false},
		{"/swagger/index.html", "/swagger/*", true},
		{"/swagger/a/b.js", "/swagger/*", true},
		{"/other/index.html", "/swagger/*", false},
		{"/api/v1/runs//errors", "/api/v1/runs/*/errors", false},
	}
	for _, tc := range tests {
		if got := matchWildcardRoute(tc.path, tc.pattern); got != tc.want {
			t.Errorf("match(%q, %q) = %v, want %v", tc.path, tc.pattern, got, tc.want)
		}
	}
}

func TestRouter_Dispatch(t *testing.T) {
	r := newQuietRouter()
	r.GET("/health", named("health"))
	r.GET("/api/v1/runs/*/errors", named("errors"))
	r.GET("/api/v1/runs/*", named("run"))
	r.POST("/api/v1/flatten", named("flatten"))

	tests := []struct {
		method, path string
		code         int
		body         string
	}{
		{http.MethodGet, "/health", http.StatusOK, "health"},
		{http.MethodGet, "/api/v1/runs/abc/errors", http.StatusOK, "errors"},
		{http.MethodGet, "/api/v1/runs/abc", http.StatusOK, "run"},
		{http.MethodPost, "/api/v1/flatten", http.StatusOK, "flatten"},
		{http.MethodGet, "/api/v1/flatten", http.StatusMethodNotAllowed, ""},
		{http.MethodDelete, "/api/v1/runs/abc", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/nope", http.StatusNotFound, ""},
	}
	for _, tc := range tests {
		rec := serve(r, tc.method, tc.path)
		if rec.Code != tc.code {
			t.Errorf("%s %s: got %d, want %d", tc.method, tc.path, rec.Code, tc.code)
			continue
		}
		if tc.body != "" && rec.Body.String() != tc.body {
			t.Errorf("%s %s: got body %q, want %q", tc.method, tc.path, rec.Body.String(), tc.body)
		}
	}
}

func TestRouter_Handle(t *testing.T) {
	r := newQuietRouter()
	r.Handle(http.MethodGet, "/static/*", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	if rec := serve(r, http.MethodGet, "/static/x.css"); rec.Code != http.StatusTeapot {
		t.Fatalf("got %d", rec.Code)
	}
	if len(r.Routes()) != 1 {
		t.Fatalf("expected 1 route, got %v", r.Routes())
	}
}
