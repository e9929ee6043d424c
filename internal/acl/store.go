// internal/acl/store.go
//
// Ownership lookups.
//
// Context
// -------
// linkbio has no roles: a user may touch exactly the rows hanging off their
// own page, plus their own meeting types and availability.  Page-scoped
// routes resolve the caller's page id once in middleware; every query below
// that point filters on that id, so a foreign row id simply does not match.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.
package acl

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/database"
)

// OwnedPageID returns the id of userID's live page, or ErrNotFound.
func OwnedPageID(ctx context.Context, db *sqlx.DB, userID int64) (int64, error) {
	const q = `SELECT id
                 FROM page
                WHERE user_id = ? AND deleted_at IS NULL
                LIMIT 1`

	var id int64
	err := db.GetContext(ctx, &id, q, userID)
	return id, database.Classify(err)
}
