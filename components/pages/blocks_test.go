package pages

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/yanizio/linkbio/internal/component/componenttest"
)

var mysqlDup = mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

var blockCols = []string{"id", "page_id", "type", "position", "config", "visible", "created_at", "updated_at"}

func TestCreateBlock_Appends(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})
	now := time.Now()

	env.Mock.ExpectBegin()
	env.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(position), -1) + 1 FROM block WHERE page_id = ?`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))
	env.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO block`)).
		WithArgs(int64(10), "hero", 3, sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(7, 1))
	env.Mock.ExpectCommit()
	env.Mock.ExpectQuery(regexp.QuoteMeta(`FROM block WHERE id = ? AND page_id = ?`)).
		WithArgs(int64(7), int64(10)).
		WillReturnRows(sqlmock.NewRows(blockCols).
			AddRow(7, 10, "hero", 3, []byte(`{"heading":"Hi"}`), true, now, now))

	rec := componenttest.Do(t, r, http.MethodPost, "/api/page/blocks", `{"type":"hero","config":{"heading":"Hi"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	var got struct {
		ID       int64 `json:"id"`
		Position int   `json:"position"`
	}
	componenttest.Decode(t, rec, &got)
	if got.ID != 7 || got.Position != 3 {
		t.Fatalf("block = %+v", got)
	}
	env.Verify(t)
}

func TestCreateBlock_InvalidConfig(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	rec := componenttest.Do(t, r, http.MethodPost, "/api/page/blocks", `{"type":"hero","config":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	env.Verify(t)
}

func TestDeleteBlock_Foreign(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	env.Mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM block WHERE id = ? AND page_id = ?`)).
		WithArgs(int64(99), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := componenttest.Do(t, r, http.MethodDelete, "/api/page/blocks/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
	env.Verify(t)
}

func TestOrderBlocks_NotPermutation(t *testing.T) {
	env := componenttest.New(t)
	r := componenttest.Router(t, env, &Component{})

	env.Mock.ExpectBegin()
	env.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM block WHERE page_id = ? FOR UPDATE`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	env.Mock.ExpectRollback()

	rec := componenttest.Do(t, r, http.MethodPut, "/api/page/blocks/order", `{"ids":[2,2]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	env.Verify(t)
}
