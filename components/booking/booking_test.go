package booking

import (
	"net/http"
	"regexp"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/yanizio/linkbio/internal/component/componenttest"
	"github.com/yanizio/linkbio/internal/events"
)

var (
	pageCols   = []string{"id", "user_id", "slug", "title", "description", "theme", "published", "deleted_at", "created_at", "updated_at"}
	userCols   = []string{"id", "auth_subject", "email", "display_name", "bio", "avatar_url", "timezone", "created_at", "updated_at"}
	typeCols   = []string{"id", "user_id", "slug", "title", "description", "duration_min", "interval_min", "buffer_min", "active", "created_at", "updated_at"}
	windowCols = []string{"id", "user_id", "weekday", "start_minute", "end_minute"}
)

// expectTarget queues the lookups behind /api/public/book/jane/intro.  The
// owner is in Europe/Berlin (UTC+2 in June).
func expectTarget(env *componenttest.Env) {
	now := env.Clock
	env.Mock.ExpectQuery(regexp.QuoteMeta(`WHERE slug = ? AND published = TRUE`)).
		WithArgs("jane").
		WillReturnRows(sqlmock.NewRows(pageCols).
			AddRow(10, 1, "jane", "Jane", "", []byte(`{}`), true, nil, now, now))
	env.Mock.ExpectQuery(regexp.QuoteMeta(`FROM app_user WHERE id = ?`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "sub", "jane@example.com", "Jane", "", "", "Europe/Berlin", now, now))
	env.Mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = ? AND slug = ? AND active = TRUE`)).
		WithArgs(int64(1), "intro").
		WillReturnRows(sqlmock.NewRows(typeCols).
			AddRow(4, 1, "intro", "Intro call", "", 30, 30, 0, true, now, now))
}

// expectDay queues Monday 2024-06-17: one 09:00–11:00 window and a booking
// at 09:30 local.
func expectDay(env *componenttest.Env) {
	env.Mock.ExpectQuery(regexp.QuoteMeta(`FROM availability WHERE user_id = ? AND weekday = ?`)).
		WithArgs(int64(1), 1).
		WillReturnRows(sqlmock.NewRows(windowCols).AddRow(1, 1, 1, 9*60, 11*60))
	env.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT b.starts_at, b.ends_at`)).
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"starts_at", "ends_at"}).
			AddRow(time.Date(2024, 6, 17, 7, 30, 0, 0, time.UTC), time.Date(2024, 6, 17, 8, 0, 0, 0, time.UTC)))
}

func TestSlots(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})
	expectTarget(env)
	expectDay(env)

	rec := componenttest.Do(t, r, http.MethodGet, "/api/public/book/jane/intro/slots?date=2024-06-17", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	var got struct {
		Timezone string `json:"timezone"`
		Slots    []struct {
			Start     time.Time `json:"start"`
			Available bool      `json:"available"`
		} `json:"slots"`
	}
	componenttest.Decode(t, rec, &got)
	if got.Timezone != "Europe/Berlin" {
		t.Fatalf("timezone = %q", got.Timezone)
	}
	want := []bool{true, false, true, true}
	if len(got.Slots) != len(want) {
		t.Fatalf("got %d slots", len(got.Slots))
	}
	if first := time.Date(2024, 6, 17, 7, 0, 0, 0, time.UTC); !got.Slots[0].Start.Equal(first) {
		t.Fatalf("first slot = %v", got.Slots[0].Start)
	}
	for i, w := range want {
		if got.Slots[i].Available != w {
			t.Errorf("slot %d available = %v, want %v", i, got.Slots[i].Available, w)
		}
	}
	env.Verify(t)
}

func TestSlots_MissingDate(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	rec := componenttest.Do(t, r, http.MethodGet, "/api/public/book/jane/intro/slots", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", rec.Code)
	}
	env.Verify(t)
}

func TestBook(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})
	expectTarget(env)
	env.Mock.ExpectBegin()
	env.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM app_user WHERE id = ? FOR UPDATE`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	expectDay(env)
	env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO booking`)).
		WithArgs(sqlmock.AnyArg(), int64(4), "Sam", "sam@example.com", "",
			time.Date(2024, 6, 17, 8, 0, 0, 0, time.UTC), time.Date(2024, 6, 17, 8, 30, 0, 0, time.UTC), "confirmed").
		WillReturnResult(sqlmock.NewResult(9, 1))
	env.Mock.ExpectCommit()

	rec := componenttest.Do(t, r, http.MethodPost, "/api/public/book/jane/intro",
		`{"start":"2024-06-17T10:00:00+02:00","guest_name":"Sam","guest_email":"Sam@Example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	var got struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	componenttest.Decode(t, rec, &got)
	if len(got.ID) != 36 || got.Status != "confirmed" {
		t.Fatalf("booking = %+v", got)
	}
	if ev := env.Recorder.Types(); len(ev) != 1 || ev[0] != events.BookingCreated {
		t.Fatalf("events = %v", ev)
	}
	env.Verify(t)
}

func TestBook_Taken(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})
	expectTarget(env)
	env.Mock.ExpectBegin()
	env.Mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	expectDay(env)
	env.Mock.ExpectRollback()

	rec := componenttest.Do(t, r, http.MethodPost, "/api/public/book/jane/intro",
		`{"start":"2024-06-17T07:30:00Z","guest_name":"Sam","guest_email":"sam@example.com"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	if len(env.Recorder.Types()) != 0 {
		t.Fatal("published on conflict")
	}
	env.Verify(t)
}

func TestPutAvailability_Overlap(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	rec := componenttest.Do(t, r, http.MethodPut, "/api/availability",
		`{"windows":[{"weekday":1,"start":"09:00","end":"12:00"},{"weekday":1,"start":"11:00","end":"13:00"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	env.Verify(t)
}

func TestPutAvailability(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	env.Mock.ExpectBegin()
	env.Mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM availability WHERE user_id = ?`)).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 3))
	env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO availability`)).
		WithArgs(int64(1), 1, 540, 720).WillReturnResult(sqlmock.NewResult(1, 1))
	env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO availability`)).
		WithArgs(int64(1), 2, 480, 600).WillReturnResult(sqlmock.NewResult(2, 1))
	env.Mock.ExpectCommit()

	rec := componenttest.Do(t, r, http.MethodPut, "/api/availability",
		`{"windows":[{"weekday":2,"start":"08:00","end":"10:00"},{"weekday":1,"start":"09:00","end":"12:00"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	env.Verify(t)
}

func TestCreateType_Duplicate(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO meeting_type`)).
		WithArgs(int64(1), "intro", "Intro call", "", 30, 30, 0, true).
		WillReturnError(mysqlDup())

	rec := componenttest.Do(t, r, http.MethodPost, "/api/meeting-types",
		`{"slug":"intro","title":"Intro call","duration_min":30}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	env.Verify(t)
}

func TestCancel(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})
	const id = "0b6f1c3e-8a47-4d44-9a0e-2f8c1d0e5b7a"

	env.Mock.ExpectExec(regexp.QuoteMeta(`SET b.status = 'cancelled'`)).
		WithArgs(id, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := componenttest.Do(t, r, http.MethodPost, "/api/bookings/"+id+"/cancel", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	if ev := env.Recorder.Types(); len(ev) != 1 || ev[0] != events.BookingCancelled {
		t.Fatalf("events = %v", ev)
	}
	env.Verify(t)
}

func TestCancel_Unknown(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	env.Mock.ExpectExec(regexp.QuoteMeta(`SET b.status = 'cancelled'`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := componenttest.Do(t, r, http.MethodPost, "/api/bookings/nope/cancel", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
	env.Verify(t)
}

func TestBookingRange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC) // 01:30 on the 16th in Berlin

	from, to, err := bookingRange("", "", now, berlin)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 6, 16, 0, 0, 0, 0, berlin); !from.Equal(want) {
		t.Fatalf("from = %v, want %v", from, want)
	}
	if want := time.Date(2024, 7, 16, 0, 0, 0, 0, berlin); !to.Equal(want) {
		t.Fatalf("to = %v, want %v", to, want)
	}

	from, to, err = bookingRange("2024-06-01", "2024-06-01", now, berlin)
	if err != nil {
		t.Fatal(err)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Fatalf("single day span = %v", to.Sub(from))
	}

	if _, _, err := bookingRange("2024-06-10", "2024-06-01", now, berlin); err == nil {
		t.Fatal("inverted range accepted")
	}
	if _, _, err := bookingRange("June", "", now, berlin); err == nil {
		t.Fatal("bad date accepted")
	}
}

func mysqlDup() error { return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"} }
