package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/auth"
	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/form"
)

func TestFail_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", form.Errors{{Name: "slug", Message: "required"}}, http.StatusBadRequest},
		{"bad body", fmt.Errorf("%w: eof", form.ErrBadBody), http.StatusBadRequest},
		{"unauthorized", auth.ErrUnauthorized, http.StatusUnauthorized},
		{"not found", fmt.Errorf("link 9: %w", database.ErrNotFound), http.StatusNotFound},
		{"conflict", database.ErrConflict, http.StatusConflict},
		{"bad order", database.ErrBadOrder, http.StatusBadRequest},
		{"explicit", Errorf(http.StatusGone, "link expired"), http.StatusGone},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Fail(rr, httptest.NewRequest(http.MethodGet, "/x", nil), tc.err)
			if rr.Code != tc.code {
				t.Fatalf("status = %d, want %d", rr.Code, tc.code)
			}
			var env Envelope
			if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Success || env.Error == "" {
				t.Fatalf("unexpected envelope: %+v", env)
			}
		})
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	Fail(rr, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("dial tcp 10.0.0.1: refused"))
	var env Envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	if env.Error != "internal error" {
		t.Fatalf("error leaked: %q", env.Error)
	}
}

func TestOK_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	OK(rr, map[string]int{"n": 1})
	if got := rr.Body.String(); got != `{"success":true,"data":{"n":1}}`+"\n" {
		t.Fatalf("body = %s", got)
	}
}

func TestIDParam(t *testing.T) {
	r := chi.NewRouter()
	var got int64
	var gotErr error
	r.Get("/x/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = IDParam(r, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/42", nil))
	if gotErr != nil || got != 42 {
		t.Fatalf("IDParam = %d, %v", got, gotErr)
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/abc", nil))
	var se *StatusError
	if !errors.As(gotErr, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("bad id err = %v", gotErr)
	}
}
