// internal/domain/query.go
//
// Query helpers for `domain`.

package domain

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/form"
)

const columns = `id, page_id, host, verification_token, status, ssl_status, last_error, verified_at, created_at, updated_at`

type hostInput struct {
	Host string `json:"host" validate:"required,fqdn,max=253"`
}

// NormalizeHost lowercases host, drops a trailing dot, and rejects
// malformed names and the platform's own host or its subdomains.
func NormalizeHost(host, platformHost string) (string, error) {
	h := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if err := form.Validate(&hostInput{Host: h}); err != nil {
		return "", err
	}
	p := strings.ToLower(platformHost)
	if p != "" && (h == p || strings.HasSuffix(h, "."+p)) {
		return "", form.Errors{{Name: "host", Message: "Use a domain you own, not the platform host."}}
	}
	return h, nil
}

// NewToken returns a fresh verification token.
func NewToken() string {
	return "linkbio-verify=" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// List returns the page's domains.
func List(ctx context.Context, db *sqlx.DB, pageID int64) ([]Record, error) {
	out := []Record{}
	err := db.SelectContext(ctx, &out,
		`SELECT `+columns+` FROM domain WHERE page_id = ? ORDER BY host`, pageID)
	return out, err
}

// Get loads one domain of pageID.
func Get(ctx context.Context, db *sqlx.DB, pageID, id int64) (*Record, error) {
	var rec Record
	if err := db.GetContext(ctx, &rec,
		`SELECT `+columns+` FROM domain WHERE id = ? AND page_id = ? LIMIT 1`, id, pageID); err != nil {
		return nil, database.Classify(err)
	}
	return &rec, nil
}

// Create inserts a pending domain.  A host claimed by any page yields
// ErrConflict.
func Create(ctx context.Context, db *sqlx.DB, pageID int64, host string) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO domain (page_id, host, verification_token) VALUES (?, ?, ?)`,
		pageID, host, NewToken())
	if err != nil {
		return 0, database.Classify(err)
	}
	return res.LastInsertId()
}

// SaveResult persists a verification outcome.
func SaveResult(ctx context.Context, db *sqlx.DB, id int64, r Result) error {
	if r.Verified {
		_, err := db.ExecContext(ctx,
			`UPDATE domain SET status = ?, ssl_status = ?, last_error = '', verified_at = CURRENT_TIMESTAMP
              WHERE id = ?`, StatusVerified, SSLActive, id)
		return err
	}
	_, err := db.ExecContext(ctx,
		`UPDATE domain SET status = ?, ssl_status = ?, last_error = ?, verified_at = NULL
          WHERE id = ?`, StatusFailed, SSLPending, truncate(r.Reason, 255), id)
	return err
}

// Delete removes one domain.
func Delete(ctx context.Context, db *sqlx.DB, pageID, id int64) error {
	return database.MustAffect(db.ExecContext(ctx,
		`DELETE FROM domain WHERE id = ? AND page_id = ?`, id, pageID))
}

// PageIDByHost resolves a verified host to its published page.  Used as
// the host cache loader.
func PageIDByHost(ctx context.Context, db *sqlx.DB, host string) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id,
		`SELECT d.page_id
           FROM domain d
           JOIN page p ON p.id = d.page_id
          WHERE d.host = ? AND d.status = 'verified'
            AND p.published = TRUE AND p.deleted_at IS NULL
          LIMIT 1`, host)
	return id, database.Classify(err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
