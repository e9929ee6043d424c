// internal/user/query.go
//
// Query helpers for `app_user`.
//
// Workflow
// --------
//  1. auth.Middleware calls Ensure with verified claims on every request.
//  2. Ensure returns the existing id, or inserts a row and returns the new
//     id.  A concurrent first request may win the insert; the duplicate is
//     absorbed by re-reading.
//  3. Profile handlers read and patch the row.

package user

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/database"
)

const columns = `id, auth_subject, email, display_name, bio, avatar_url, timezone, created_at, updated_at`

// Ensure maps an auth subject to a local user id, creating the row on first
// sight.
func Ensure(ctx context.Context, db *sqlx.DB, subject, email string) (int64, error) {
	id, err := idBySubject(ctx, db, subject)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO app_user (auth_subject, email) VALUES (?, ?)`, subject, email)
	if err != nil {
		if errors.Is(database.Classify(err), database.ErrConflict) {
			return idBySubject(ctx, db, subject)
		}
		return 0, err
	}
	return res.LastInsertId()
}

func idBySubject(ctx context.Context, db *sqlx.DB, subject string) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id, `SELECT id FROM app_user WHERE auth_subject = ? LIMIT 1`, subject)
	return id, database.Classify(err)
}

// ByID loads one user.
func ByID(ctx context.Context, db *sqlx.DB, id int64) (*Record, error) {
	var rec Record
	if err := db.GetContext(ctx, &rec,
		`SELECT `+columns+` FROM app_user WHERE id = ? LIMIT 1`, id); err != nil {
		return nil, database.Classify(err)
	}
	return &rec, nil
}

// Patch carries optional profile fields; nil means unchanged.
type Patch struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	Bio         *string `json:"bio"          validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url"   validate:"omitempty,httpurl,max=2048"`
	Timezone    *string `json:"timezone"     validate:"omitempty,timezone"`
}

// Update applies p to user id.
func Update(ctx context.Context, db *sqlx.DB, id int64, p Patch) error {
	var ch database.Changes
	if p.DisplayName != nil {
		ch.Set("display_name", *p.DisplayName)
	}
	if p.Bio != nil {
		ch.Set("bio", *p.Bio)
	}
	if p.AvatarURL != nil {
		ch.Set("avatar_url", *p.AvatarURL)
	}
	if p.Timezone != nil {
		ch.Set("timezone", *p.Timezone)
	}
	if ch.Empty() {
		return nil
	}
	clause, args := ch.Clause()
	_, err := db.ExecContext(ctx, `UPDATE app_user SET `+clause+` WHERE id = ?`, append(args, id)...)
	return database.Classify(err)
}
