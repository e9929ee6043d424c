// internal/block/query.go
//
// Page-scoped CRUD for `block`.  Every statement filters on page_id so a
// block id from another page behaves as not found.

package block

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/database"
)

const columns = `id, page_id, type, position, config, visible, created_at, updated_at`

// List returns the page's blocks in display order.  visibleOnly is used by
// the public page payload.
func List(ctx context.Context, db *sqlx.DB, pageID int64, visibleOnly bool) ([]Record, error) {
	q := `SELECT ` + columns + ` FROM block WHERE page_id = ?`
	if visibleOnly {
		q += ` AND visible = TRUE`
	}
	q += ` ORDER BY position, id`

	out := []Record{}
	if err := db.SelectContext(ctx, &out, q, pageID); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one block of pageID.
func Get(ctx context.Context, db *sqlx.DB, pageID, id int64) (*Record, error) {
	var rec Record
	if err := db.GetContext(ctx, &rec,
		`SELECT `+columns+` FROM block WHERE id = ? AND page_id = ? LIMIT 1`, id, pageID); err != nil {
		return nil, database.Classify(err)
	}
	return &rec, nil
}

// NewBlock is the create payload.
type NewBlock struct {
	Type    string        `json:"type"    validate:"required"`
	Config  database.JSON `json:"config"`
	Visible *bool         `json:"visible"`
}

// Create validates the config and appends the block at the end of the page.
func Create(ctx context.Context, db *sqlx.DB, pageID int64, b NewBlock) (int64, error) {
	cfg, err := ValidateConfig(b.Type, b.Config)
	if err != nil {
		return 0, err
	}
	visible := true
	if b.Visible != nil {
		visible = *b.Visible
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck

	pos, err := database.NextPosition(ctx, tx, "block", pageID)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO block (page_id, type, position, config, visible) VALUES (?, ?, ?, ?, ?)`,
		pageID, b.Type, pos, cfg, visible)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Patch updates config and visibility.  The type is immutable.
type Patch struct {
	Config  database.JSON `json:"config"`
	Visible *bool         `json:"visible"`
}

// Update applies p to block id of pageID.
func Update(ctx context.Context, db *sqlx.DB, pageID, id int64, p Patch) error {
	cur, err := Get(ctx, db, pageID, id)
	if err != nil {
		return err
	}
	var ch database.Changes
	if p.Config != nil {
		cfg, err := ValidateConfig(cur.Type, p.Config)
		if err != nil {
			return err
		}
		ch.Set("config", cfg)
	}
	if p.Visible != nil {
		ch.Set("visible", *p.Visible)
	}
	if ch.Empty() {
		return nil
	}
	clause, args := ch.Clause()
	_, err = db.ExecContext(ctx,
		`UPDATE block SET `+clause+` WHERE id = ? AND page_id = ?`, append(args, id, pageID)...)
	return err
}

// Delete removes one block.
func Delete(ctx context.Context, db *sqlx.DB, pageID, id int64) error {
	return database.MustAffect(db.ExecContext(ctx,
		`DELETE FROM block WHERE id = ? AND page_id = ?`, id, pageID))
}

// Reorder rewrites positions to match ids.
func Reorder(ctx context.Context, db *sqlx.DB, pageID int64, ids []int64) error {
	return database.Reorder(ctx, db, "block", pageID, ids)
}
