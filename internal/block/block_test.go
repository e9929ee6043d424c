package block

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/form"
)

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		typ     string
		raw     string
		wantErr string // field name of first error, "" for success
		want    string
	}{
		{"hero ok", TypeHero, `{"heading":"Hi"}`, "", `{"heading":"Hi","subheading":"","avatar_url":""}`},
		{"hero missing heading", TypeHero, `{}`, "config.heading", ""},
		{"hero bad avatar", TypeHero, `{"heading":"Hi","avatar_url":"ftp://x"}`, "config.avatar_url", ""},
		{"links default style", TypeLinks, ``, "", `{"style":"list"}`},
		{"links bad style", TypeLinks, `{"style":"carousel"}`, "config.style", ""},
		{"faq missing answer", TypeFAQ, `{"items":[{"question":"Why?"}]}`, "config.items[0].answer", ""},
		{"faq empty", TypeFAQ, `{"items":[]}`, "config.items", ""},
		{"social unknown network", TypeSocial, `{"items":[{"network":"myspace","url":"https://m.com"}]}`, "config.items[0].network", ""},
		{"social ok", TypeSocial, `{"items":[{"network":"github","url":"https://github.com/x"}]}`, "", `{"items":[{"network":"github","url":"https://github.com/x"}]}`},
		{"unknown field", TypeHero, `{"heading":"Hi","color":"red"}`, "config", ""},
		{"unknown type", "gallery", `{}`, "type", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ValidateConfig(c.typ, database.JSON(c.raw))
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(got) != c.want {
					t.Fatalf("config = %s, want %s", got, c.want)
				}
				return
			}
			fe, ok := err.(form.Errors)
			if !ok || len(fe) == 0 {
				t.Fatalf("err = %v, want form.Errors", err)
			}
			if fe[0].Name != c.wantErr {
				t.Fatalf("field = %q, want %q", fe[0].Name, c.wantErr)
			}
		})
	}
}

func TestCreate_AppendsAtEnd(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(position), -1) + 1 FROM block WHERE page_id = ?`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO block (page_id, type, position, config, visible)`)).
		WithArgs(int64(2), TypeLinks, 3, sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectCommit()

	id, err := Create(context.Background(), db, 2, NewBlock{Type: TypeLinks})
	if err != nil || id != 40 {
		t.Fatalf("Create = %d, %v", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
