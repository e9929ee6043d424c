package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get: %w", sql.ErrNoRows), ErrNotFound},
		{"duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.in); !errors.Is(got, tc.want) && got != tc.want {
				t.Fatalf("Classify(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	other := errors.New("boom")
	if Classify(other) != other {
		t.Fatalf("unrelated errors must pass through")
	}
}

func TestMustAffect(t *testing.T) {
	if err := MustAffect(sqlmock.NewResult(0, 0), nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("zero rows: err = %v, want ErrNotFound", err)
	}
	if err := MustAffect(sqlmock.NewResult(0, 1), nil); err != nil {
		t.Fatalf("one row: err = %v", err)
	}
}

func TestMigrate_AppliesPending(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS schema_migration`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(version), 0) FROM schema_migration WHERE owner = ?`)).
		WithArgs("pages").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE block`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schema_migration (owner, version) VALUES (?, ?)`)).
		WithArgs("pages", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := Migrate(context.Background(), db, "pages", []string{"CREATE TABLE page (id INT)", "CREATE TABLE block (id INT)"})
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if n != 1 {
		t.Fatalf("applied = %d, want 1", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestChanges(t *testing.T) {
	var c Changes
	if !c.Empty() {
		t.Fatalf("new Changes not empty")
	}
	c.Set("title", "Hi")
	c.Set("published", true)
	clause, args := c.Clause()
	if clause != "title = ?, published = ?" || len(args) != 2 {
		t.Fatalf("clause = %q args = %v", clause, args)
	}
}

func TestJSON_ScanCopiesAndDefaults(t *testing.T) {
	buf := []byte(`{"a":1}`)
	var j JSON
	if err := j.Scan(buf); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	buf[2] = 'x'
	if string(j) != `{"a":1}` {
		t.Fatalf("Scan aliases driver buffer: %s", j)
	}

	var empty JSON
	v, _ := empty.Value()
	if string(v.([]byte)) != "{}" {
		t.Fatalf("empty Value = %s", v)
	}
	out, _ := empty.MarshalJSON()
	if string(out) != "null" {
		t.Fatalf("empty MarshalJSON = %s", out)
	}
}

func TestReorder(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM link WHERE page_id = ? FOR UPDATE`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	prep := mock.ExpectPrepare(regexp.QuoteMeta(`UPDATE link SET position = ? WHERE id = ? AND page_id = ?`))
	prep.ExpectExec().WithArgs(0, int64(11), int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(1, int64(10), int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := Reorder(context.Background(), db, "link", 4, []int64{11, 10}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSamePermutation(t *testing.T) {
	cases := []struct {
		have, want []int64
		ok         bool
	}{
		{[]int64{1, 2, 3}, []int64{3, 1, 2}, true},
		{[]int64{1, 2}, []int64{1, 1}, false},
		{[]int64{1, 2}, []int64{1}, false},
		{[]int64{1, 2}, []int64{1, 9}, false},
		{nil, nil, true},
	}
	for _, c := range cases {
		if got := samePermutation(c.have, c.want); got != c.ok {
			t.Errorf("samePermutation(%v, %v) = %v", c.have, c.want, got)
		}
	}
}
