// internal/page/query.go
//
// Query helpers for `page`.  Owner lookups ignore soft-deleted rows; public
// lookups additionally require `published`.

package page

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/routing"
)

// ErrSlugReserved is returned when the requested slug collides with a
// platform route.
var ErrSlugReserved = errors.New("slug is reserved")

const columns = `id, user_id, slug, title, description, theme, published, deleted_at, created_at, updated_at`

// ByUser returns the live page owned by userID.
func ByUser(ctx context.Context, db *sqlx.DB, userID int64) (*Record, error) {
	return one(ctx, db, `SELECT `+columns+` FROM page
                          WHERE user_id = ? AND deleted_at IS NULL LIMIT 1`, userID)
}

// BySlug returns a published, live page.
func BySlug(ctx context.Context, db *sqlx.DB, slug string) (*Record, error) {
	return one(ctx, db, `SELECT `+columns+` FROM page
                          WHERE slug = ? AND published = TRUE AND deleted_at IS NULL LIMIT 1`, slug)
}

// PublishedByID is used for custom-domain traffic where the host cache
// already resolved the page id.
func PublishedByID(ctx context.Context, db *sqlx.DB, id int64) (*Record, error) {
	return one(ctx, db, `SELECT `+columns+` FROM page
                          WHERE id = ? AND published = TRUE AND deleted_at IS NULL LIMIT 1`, id)
}

func one(ctx context.Context, db *sqlx.DB, q string, arg any) (*Record, error) {
	var rec Record
	if err := db.GetContext(ctx, &rec, q, arg); err != nil {
		return nil, database.Classify(err)
	}
	return &rec, nil
}

// SlugAvailable reports whether slug is valid, not reserved, and unused.
// Soft-deleted pages still hold their slug.
func SlugAvailable(ctx context.Context, db *sqlx.DB, slug string) (bool, error) {
	if !routing.ValidSlug(slug) || routing.Reserved(slug) {
		return false, nil
	}
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM page WHERE slug = ?`, slug); err != nil {
		return false, err
	}
	return n == 0, nil
}

// NewPage is the create payload.
type NewPage struct {
	Slug        string        `json:"slug"        validate:"required"`
	Title       string        `json:"title"       validate:"max=120"`
	Description string        `json:"description" validate:"max=500"`
	Theme       database.JSON `json:"theme"`
	Published   bool          `json:"published"`
}

// Create inserts the user's page.  A live page for the same user yields
// ErrConflict, as does a taken slug.  A soft-deleted page of the same user is
// purged first so the user_id uniqueness holds.
func Create(ctx context.Context, db *sqlx.DB, userID int64, p NewPage) (int64, error) {
	if routing.Reserved(p.Slug) {
		return 0, ErrSlugReserved
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM page WHERE user_id = ? AND deleted_at IS NOT NULL`, userID); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO page (user_id, slug, title, description, theme, published)
         VALUES (?, ?, ?, ?, ?, ?)`,
		userID, p.Slug, p.Title, p.Description, p.Theme, p.Published)
	if err != nil {
		return 0, database.Classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Patch carries optional page fields; nil means unchanged.
type Patch struct {
	Slug        *string       `json:"slug"`
	Title       *string       `json:"title"       validate:"omitempty,max=120"`
	Description *string       `json:"description" validate:"omitempty,max=500"`
	Theme       database.JSON `json:"theme"`
	Published   *bool         `json:"published"`
}

// Update applies p to the live page id.
func Update(ctx context.Context, db *sqlx.DB, id int64, p Patch) error {
	var ch database.Changes
	if p.Slug != nil {
		if routing.Reserved(*p.Slug) {
			return ErrSlugReserved
		}
		ch.Set("slug", *p.Slug)
	}
	if p.Title != nil {
		ch.Set("title", *p.Title)
	}
	if p.Description != nil {
		ch.Set("description", *p.Description)
	}
	if p.Theme != nil {
		ch.Set("theme", p.Theme)
	}
	if p.Published != nil {
		ch.Set("published", *p.Published)
	}
	if ch.Empty() {
		return nil
	}
	clause, args := ch.Clause()
	_, err := db.ExecContext(ctx,
		`UPDATE page SET `+clause+` WHERE id = ? AND deleted_at IS NULL`, append(args, id)...)
	return database.Classify(err)
}

// SoftDelete marks the page deleted and unpublished.
func SoftDelete(ctx context.Context, db *sqlx.DB, id int64) error {
	return database.MustAffect(db.ExecContext(ctx,
		`UPDATE page SET deleted_at = CURRENT_TIMESTAMP, published = FALSE
          WHERE id = ? AND deleted_at IS NULL`, id))
}
