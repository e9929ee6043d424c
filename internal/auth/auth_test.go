package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var secret = []byte(strings.Repeat("s", 32))

func TestIssueParse_RoundTrip(t *testing.T) {
	tok, err := Issue(secret, "auth0|42", "jane@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	c, err := Parse(secret, tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Subject != "auth0|42" || c.Email != "jane@example.com" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestParse_Rejects(t *testing.T) {
	expired, _ := Issue(secret, "sub", "", -time.Minute)
	forged, _ := Issue([]byte(strings.Repeat("x", 32)), "sub", "", time.Hour)
	for name, tok := range map[string]string{"expired": expired, "forged": forged, "garbage": "abc.def.ghi"} {
		if _, err := Parse(secret, tok); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("%s: err = %v, want ErrUnauthorized", name, err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	tok, _ := Issue(secret, "sub-1", "a@b.c", time.Hour)
	resolve := func(_ context.Context, c *Claims) (int64, error) {
		if c.Subject != "sub-1" {
			t.Fatalf("unexpected subject %q", c.Subject)
		}
		return 7, nil
	}

	var gotID int64
	h := Middleware(secret, "linkbio_session", resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r.Context())
	}))

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/page", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK || gotID != 7 {
			t.Fatalf("status = %d, uid = %d", rr.Code, gotID)
		}
	})

	t.Run("cookie", func(t *testing.T) {
		gotID = 0
		req := httptest.NewRequest(http.MethodGet, "/api/page", nil)
		req.AddCookie(&http.Cookie{Name: "linkbio_session", Value: tok})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if gotID != 7 {
			t.Fatalf("cookie token not accepted, status %d", rr.Code)
		}
	})

	t.Run("missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/page", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("resolver failure", func(t *testing.T) {
		bad := Middleware(secret, "c", func(context.Context, *Claims) (int64, error) {
			return 0, errors.New("db down")
		})(http.NotFoundHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()
		bad.ServeHTTP(rr, req)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}
	})
}
