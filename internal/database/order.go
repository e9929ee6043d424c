// internal/database/order.go
//
// Shared helpers for page-scoped ordered rows (`block` and `link`).  Both
// tables carry `page_id` and an integer `position`; new rows go to the end
// and a reorder rewrites every position in one transaction.

package database

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrBadOrder is returned when a reorder list is not a permutation of the
// page's current ids.
var ErrBadOrder = errors.New("order must list every id exactly once")

// NextPosition returns max(position)+1 for pageID, or 0 on an empty page.
// table must be a trusted identifier.
func NextPosition(ctx context.Context, q sqlx.QueryerContext, table string, pageID int64) (int, error) {
	var next int
	err := sqlx.GetContext(ctx, q, &next,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM `+table+` WHERE page_id = ?`, pageID)
	return next, err
}

// Reorder assigns position i to ids[i].  ids must contain each of the
// page's rows exactly once.
func Reorder(ctx context.Context, db *sqlx.DB, table string, pageID int64, ids []int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var current []int64
	if err := tx.SelectContext(ctx, &current,
		`SELECT id FROM `+table+` WHERE page_id = ? FOR UPDATE`, pageID); err != nil {
		return err
	}
	if !samePermutation(current, ids) {
		return ErrBadOrder
	}

	stmt, err := tx.PreparexContext(ctx,
		`UPDATE `+table+` SET position = ? WHERE id = ? AND page_id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, i, id, pageID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func samePermutation(have, want []int64) bool {
	if len(have) != len(want) {
		return false
	}
	seen := make(map[int64]bool, len(have))
	for _, id := range have {
		seen[id] = false
	}
	for _, id := range want {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}
