package link

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/form"
)

var cols = []string{"id", "page_id", "title", "url", "icon", "position", "is_active",
	"schedule", "click_count", "created_at", "updated_at"}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "mysql"), mock
}

func TestList_ResolvesStatus(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM link WHERE page_id = ? ORDER BY position, id`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 1, "Shop", "https://shop.example", "", 0, true, nil, 3, now, now).
			AddRow(2, 1, "Sale", "https://sale.example", "", 1, true, []byte(`{"end_date":"2024-06-01"}`), 0, now, now).
			AddRow(3, 1, "Off", "https://off.example", "", 2, false, nil, 0, now, now))

	links, err := List(context.Background(), db, 1, now)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Status{StatusActive, StatusExpired, StatusInactive}
	for i, l := range links {
		if l.Status != want[i] {
			t.Errorf("link %d status = %s, want %s", l.ID, l.Status, want[i])
		}
	}
	if v := Visible(links); len(v) != 1 || v[0].ID != 1 {
		t.Fatalf("Visible = %+v", v)
	}
}

func TestCreate_RejectsBadWindow(t *testing.T) {
	db, _ := newMock(t)
	_, err := Create(context.Background(), db, 1, NewLink{
		Title:    "x",
		URL:      "https://x.example",
		Schedule: &Schedule{StartDate: "2024-02-01", EndDate: "2024-01-01"},
	})
	fe, ok := err.(form.Errors)
	if !ok || fe[0].Name != "schedule.end_date" {
		t.Fatalf("err = %v, want schedule.end_date field error", err)
	}
}

func TestUpdate_ClearsSchedule(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE link SET schedule = ? WHERE id = ? AND page_id = ?`)).
		WithArgs(nil, int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := Update(context.Background(), db, 1, 5, Patch{Schedule: &Schedule{}}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdate_UnchangedRowIsNotAnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE link SET is_active = ? WHERE id = ? AND page_id = ?`)).
		WithArgs(true, int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	active := true
	if err := Update(context.Background(), db, 1, 5, Patch{IsActive: &active}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
