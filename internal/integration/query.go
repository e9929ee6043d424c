// internal/integration/query.go
//
// Query helpers for `integration` and `subscriber`.
//
// Workflow
// --------
//   - Owners list, upsert, and delete integrations by provider name.
//   - Upsert keeps previously stored secrets when the client echoes back a
//     masked value, so the dashboard can save without re-entering keys.
//   - The public subscribe form needs an enabled email-marketing
//     integration; EnabledOfKind answers that.

package integration

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/form"
)

const columns = `id, page_id, provider, kind, config, enabled, created_at, updated_at`

// List returns every integration of pageID ordered by provider.
func List(ctx context.Context, db *sqlx.DB, pageID int64) ([]Record, error) {
	out := []Record{}
	err := db.SelectContext(ctx, &out,
		`SELECT `+columns+` FROM integration WHERE page_id = ? ORDER BY provider`, pageID)
	return out, err
}

// Get loads the integration for provider.
func Get(ctx context.Context, db *sqlx.DB, pageID int64, provider string) (*Record, error) {
	var rec Record
	if err := db.GetContext(ctx, &rec,
		`SELECT `+columns+` FROM integration WHERE page_id = ? AND provider = ? LIMIT 1`,
		pageID, provider); err != nil {
		return nil, database.Classify(err)
	}
	return &rec, nil
}

// EnabledOfKind returns the first enabled integration of kind for pageID.
func EnabledOfKind(ctx context.Context, db *sqlx.DB, pageID int64, kind string) (*Record, error) {
	var rec Record
	if err := db.GetContext(ctx, &rec,
		`SELECT `+columns+` FROM integration
          WHERE page_id = ? AND kind = ? AND enabled = TRUE
          ORDER BY id LIMIT 1`, pageID, kind); err != nil {
		return nil, database.Classify(err)
	}
	return &rec, nil
}

// Input is the PUT payload.
type Input struct {
	Config  Config `json:"config"`
	Enabled *bool  `json:"enabled"`
}

// Upsert validates in against the provider table and writes it.
func Upsert(ctx context.Context, db *sqlx.DB, pageID int64, provider string, in Input) (*Record, error) {
	p, ok := Lookup(provider)
	if !ok {
		return nil, database.ErrNotFound
	}

	prev, err := Get(ctx, db, pageID, provider)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	cfg := merge(prev, in.Config)
	if err := checkRequired(p, cfg); err != nil {
		return nil, err
	}
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO integration (page_id, provider, kind, config, enabled)
         VALUES (?, ?, ?, ?, ?)
         ON DUPLICATE KEY UPDATE config = VALUES(config), enabled = VALUES(enabled)`,
		pageID, p.Name, p.Kind, cfg, enabled); err != nil {
		return nil, err
	}
	return Get(ctx, db, pageID, provider)
}

// merge trims values and restores secrets the client sent back masked.
func merge(prev *Record, in Config) Config {
	out := make(Config, len(in))
	for k, v := range in {
		v = strings.TrimSpace(v)
		if prev != nil && IsSecretKey(k) && strings.HasPrefix(v, "•") {
			if old, ok := prev.Config[k]; ok {
				v = old
			}
		}
		out[k] = v
	}
	return out
}

func checkRequired(p Provider, cfg Config) error {
	var fe form.Errors
	for _, k := range p.Required {
		if cfg[k] == "" {
			fe.Add("config."+k, "This field is required.")
		}
	}
	if url, ok := cfg["scheduling_url"]; ok && url != "" && !form.IsHTTPURL(url) {
		fe.Add("config.scheduling_url", "Must be an absolute http or https URL.")
	}
	return fe.Err()
}

// Delete removes the integration for provider.
func Delete(ctx context.Context, db *sqlx.DB, pageID int64, provider string) error {
	return database.MustAffect(db.ExecContext(ctx,
		`DELETE FROM integration WHERE page_id = ? AND provider = ?`, pageID, provider))
}

// AddSubscriber stores an email capture.  A repeat address yields
// ErrConflict.
func AddSubscriber(ctx context.Context, db *sqlx.DB, pageID int64, email, source string) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO subscriber (page_id, email, source) VALUES (?, ?, ?)`,
		pageID, strings.ToLower(strings.TrimSpace(email)), source)
	if err != nil {
		return 0, database.Classify(err)
	}
	return res.LastInsertId()
}
