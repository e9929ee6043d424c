package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeHosts map[string]int64

func (f fakeHosts) Get(_ context.Context, host string) (int64, error) {
	if id, ok := f[host]; ok {
		return id, nil
	}
	return 0, errors.New("unknown host")
}

func TestForceHTTPS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := ForceHTTPS("linkbio.app", fakeHosts{"links.example.com": 1}, ok)

	cases := []struct {
		name  string
		host  string
		proto string
		code  int
	}{
		{"platform host", "linkbio.app", "", http.StatusPermanentRedirect},
		{"custom host", "links.example.com:80", "", http.StatusPermanentRedirect},
		{"unknown host", "nope.example.com", "", http.StatusNoContent},
		{"localhost", "localhost:8080", "", http.StatusNoContent},
		{"behind proxy", "linkbio.app", "https", http.StatusNoContent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://"+c.host+"/jane?x=1", nil)
			req.Host = c.host
			if c.proto != "" {
				req.Header.Set("X-Forwarded-Proto", c.proto)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != c.code {
				t.Fatalf("code = %d, want %d", rec.Code, c.code)
			}
			if c.code == http.StatusPermanentRedirect && rec.Header().Get("Location") != "https://"+c.host+"/jane?x=1" {
				t.Fatalf("Location = %q", rec.Header().Get("Location"))
			}
		})
	}
}

func TestSecurity(t *testing.T) {
	h := Security(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, k := range []string{"Strict-Transport-Security", "Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options"} {
		if rec.Header().Get(k) == "" {
			t.Errorf("missing %s", k)
		}
	}
}

func TestRequestLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	r := chi.NewRouter()
	r.Use(RequestLog)
	r.Get("/api/links/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/links/9", nil))

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	f := entries[0].ContextMap()
	if f["route"] != "/api/links/{id}" || f["status"] != int64(http.StatusTeapot) {
		t.Fatalf("fields = %v", f)
	}
}
