package public

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/yanizio/linkbio/internal/component/componenttest"
	"github.com/yanizio/linkbio/internal/events"
)

const (
	chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	botUA    = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

var (
	pageCols        = []string{"id", "user_id", "slug", "title", "description", "theme", "published", "deleted_at", "created_at", "updated_at"}
	blockCols       = []string{"id", "page_id", "type", "position", "config", "visible", "created_at", "updated_at"}
	linkCols        = []string{"id", "page_id", "title", "url", "icon", "position", "is_active", "schedule", "click_count", "created_at", "updated_at"}
	integrationCols = []string{"id", "page_id", "provider", "kind", "config", "enabled", "created_at", "updated_at"}
)

func get(t *testing.T, h http.Handler, host, path, ua string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if host != "" {
		req.Host = host
	}
	req.Header.Set("User-Agent", ua)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func expectPagePayload(env *componenttest.Env) {
	now := env.Clock
	env.Mock.ExpectQuery(regexp.QuoteMeta(`FROM block WHERE page_id = ? AND visible = TRUE`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(blockCols).
			AddRow(1, 10, "hero", 0, []byte(`{"heading":"Hi"}`), true, now, now))
	env.Mock.ExpectQuery(regexp.QuoteMeta(`FROM link WHERE page_id = ?`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(linkCols).
			AddRow(1, 10, "Shop", "https://shop.example", "", 0, true, nil, 0, now, now).
			AddRow(2, 10, "Soon", "https://soon.example", "", 1, true, []byte(`{"start_date":"2030-01-01"}`), 0, now, now).
			AddRow(3, 10, "Off", "https://off.example", "", 2, false, nil, 0, now, now))
}

func TestPublicPage(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})
	now := env.Clock

	env.Mock.ExpectQuery(regexp.QuoteMeta(`WHERE slug = ? AND published = TRUE`)).
		WithArgs("jane").
		WillReturnRows(sqlmock.NewRows(pageCols).
			AddRow(10, 1, "jane", "Jane", "", []byte(`{}`), true, nil, now, now))
	expectPagePayload(env)
	env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO analytics_event`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := get(t, r, "", "/api/public/pages/jane", chromeUA)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	var got struct {
		Page   struct{ Slug string } `json:"page"`
		Blocks []struct{ ID int64 }  `json:"blocks"`
		Links  []struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"links"`
	}
	componenttest.Decode(t, rec, &got)
	if got.Page.Slug != "jane" || len(got.Blocks) != 1 {
		t.Fatalf("payload = %+v", got)
	}
	if len(got.Links) != 1 || got.Links[0].ID != 1 || got.Links[0].Status != "active" {
		t.Fatalf("links = %+v", got.Links)
	}
	env.Verify(t)
}

func TestPublicPage_BotNotRecorded(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})
	now := env.Clock

	env.Mock.ExpectQuery(regexp.QuoteMeta(`WHERE slug = ? AND published = TRUE`)).
		WithArgs("jane").
		WillReturnRows(sqlmock.NewRows(pageCols).
			AddRow(10, 1, "jane", "Jane", "", []byte(`{}`), true, nil, now, now))
	expectPagePayload(env)

	rec := get(t, r, "", "/api/public/pages/jane", botUA)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	env.Verify(t)
}

func TestPublicPage_Unpublished(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	env.Mock.ExpectQuery(regexp.QuoteMeta(`WHERE slug = ? AND published = TRUE`)).
		WithArgs("draft").
		WillReturnRows(sqlmock.NewRows(pageCols))

	rec := get(t, r, "", "/api/public/pages/draft", chromeUA)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
	env.Verify(t)
}

func TestHostRoot(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})
	now := env.Clock

	env.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT d.page_id`)).
		WithArgs("jane.example").
		WillReturnRows(sqlmock.NewRows([]string{"page_id"}).AddRow(10))
	env.Mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = ? AND published = TRUE`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(pageCols).
			AddRow(10, 1, "jane", "Jane", "", []byte(`{}`), true, nil, now, now))
	expectPagePayload(env)
	env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO analytics_event`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := get(t, r, "Jane.Example:8080", "/", chromeUA)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	if env.Hosts().Len() != 1 {
		t.Fatalf("host not cached")
	}
	env.Verify(t)
}

func TestHostRoot_PlatformHost(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	rec := get(t, r, "linkbio.app", "/", chromeUA)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
	env.Verify(t)
}

func TestRedirect(t *testing.T) {
	cases := []struct {
		name     string
		active   bool
		schedule any
		code     int
	}{
		{"active", true, nil, http.StatusFound},
		{"expired", true, []byte(`{"end_date":"2024-01-01"}`), http.StatusGone},
		{"scheduled", true, []byte(`{"start_date":"2030-01-01"}`), http.StatusNotFound},
		{"inactive", false, nil, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := componenttest.New(t)
			r := componenttest.Router(t, env, &Component{})
			now := env.Clock

			env.Mock.ExpectQuery(regexp.QuoteMeta(`JOIN page p ON p.id = l.page_id`)).
				WithArgs(int64(5)).
				WillReturnRows(sqlmock.NewRows(linkCols).
					AddRow(5, 10, "Shop", "https://shop.example/x", "", 0, tc.active, tc.schedule, 3, now, now))
			if tc.code == http.StatusFound {
				env.Mock.ExpectExec(regexp.QuoteMeta(`UPDATE link SET click_count = click_count + 1 WHERE id = ?`)).
					WithArgs(int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO analytics_event`)).
					WillReturnResult(sqlmock.NewResult(1, 1))
			}

			rec := get(t, r, "", "/l/5", chromeUA)
			if rec.Code != tc.code {
				t.Fatalf("code = %d, want %d", rec.Code, tc.code)
			}
			if tc.code == http.StatusFound {
				if loc := rec.Header().Get("Location"); loc != "https://shop.example/x" {
					t.Fatalf("Location = %q", loc)
				}
				if got := env.Recorder.Types(); len(got) != 1 || got[0] != events.LinkClicked {
					t.Fatalf("events = %v", got)
				}
			} else if len(env.Recorder.Types()) != 0 {
				t.Fatalf("unexpected events %v", env.Recorder.Types())
			}
			env.Verify(t)
		})
	}
}

func TestRedirect_Unknown(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	env.Mock.ExpectQuery(regexp.QuoteMeta(`JOIN page p ON p.id = l.page_id`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(linkCols))

	if rec := get(t, r, "", "/l/404", chromeUA); rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
	env.Verify(t)
}

func expectSubscribePage(env *componenttest.Env, withIntegration bool) {
	now := env.Clock
	env.Mock.ExpectQuery(regexp.QuoteMeta(`WHERE slug = ? AND published = TRUE`)).
		WithArgs("jane").
		WillReturnRows(sqlmock.NewRows(pageCols).
			AddRow(10, 1, "jane", "Jane", "", []byte(`{}`), true, nil, now, now))
	rows := sqlmock.NewRows(integrationCols)
	if withIntegration {
		rows.AddRow(3, 10, "mailchimp", "email_marketing", []byte(`{"api_key":"k","list_id":"l"}`), true, now, now)
	}
	env.Mock.ExpectQuery(regexp.QuoteMeta(`WHERE page_id = ? AND kind = ? AND enabled = TRUE`)).
		WithArgs(int64(10), "email_marketing").
		WillReturnRows(rows)
}

func TestSubscribe(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	expectSubscribePage(env, true)
	env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscriber (page_id, email, source) VALUES (?, ?, ?)`)).
		WithArgs(int64(10), "fan@example.com", "mailchimp").
		WillReturnResult(sqlmock.NewResult(21, 1))

	rec := componenttest.Do(t, r, http.MethodPost, "/api/public/pages/jane/subscribe", `{"email":"fan@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	if got := env.Recorder.Types(); len(got) != 1 || got[0] != events.SubscriberCreated {
		t.Fatalf("events = %v", got)
	}
	env.Verify(t)
}

func TestSubscribe_Duplicate(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	expectSubscribePage(env, true)
	env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscriber`)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	rec := componenttest.Do(t, r, http.MethodPost, "/api/public/pages/jane/subscribe", `{"email":"fan@example.com"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	if len(env.Recorder.Types()) != 0 {
		t.Fatalf("published on duplicate")
	}
	env.Verify(t)
}

func TestSubscribe_NoIntegration(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	expectSubscribePage(env, false)

	rec := componenttest.Do(t, r, http.MethodPost, "/api/public/pages/jane/subscribe", `{"email":"fan@example.com"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	env.Verify(t)
}

func TestSubscribe_BadEmail(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	rec := componenttest.Do(t, r, http.MethodPost, "/api/public/pages/jane/subscribe", `{"email":"nope"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", rec.Code)
	}
	env.Verify(t)
}
