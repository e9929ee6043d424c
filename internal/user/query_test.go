package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "mysql"), mock
}

func TestEnsure_Existing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM app_user WHERE auth_subject = ?`)).
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	id, err := Ensure(context.Background(), db, "sub-1", "a@b.c")
	if err != nil || id != 5 {
		t.Fatalf("Ensure = %d, %v", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestEnsure_CreatesAndAbsorbsRace(t *testing.T) {
	db, mock := newMock(t)
	sel := regexp.QuoteMeta(`SELECT id FROM app_user WHERE auth_subject = ?`)
	mock.ExpectQuery(sel).WithArgs("sub-2").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO app_user (auth_subject, email) VALUES (?, ?)`)).
		WithArgs("sub-2", "x@y.z").
		WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectQuery(sel).WithArgs("sub-2").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	id, err := Ensure(context.Background(), db, "sub-2", "x@y.z")
	if err != nil || id != 9 {
		t.Fatalf("Ensure = %d, %v", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdate_OnlySetFields(t *testing.T) {
	db, mock := newMock(t)
	bio := "hello"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE app_user SET bio = ? WHERE id = ?`)).
		WithArgs("hello", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := Update(context.Background(), db, 3, Patch{Bio: &bio}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestLocation_Fallback(t *testing.T) {
	r := &Record{Timezone: "Mars/Olympus"}
	if r.Location() != time.UTC {
		t.Fatalf("unknown zone should fall back to UTC")
	}
}
