// internal/link/query.go
//
// Page-scoped CRUD for `link` plus the click path used by /l/{id}.
//
// Notes
// -----
//   - Writes validate the schedule window; reads compute Status.
//   - A PATCH with `"schedule": {}` clears the window.

package link

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/form"
)

const columns = `id, page_id, title, url, icon, position, is_active, schedule, click_count, created_at, updated_at`

// List returns the page's links in display order with Status resolved at
// now.
func List(ctx context.Context, db *sqlx.DB, pageID int64, now time.Time) ([]Record, error) {
	out := []Record{}
	if err := db.SelectContext(ctx, &out,
		`SELECT `+columns+` FROM link WHERE page_id = ? ORDER BY position, id`, pageID); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Resolve(now)
	}
	return out, nil
}

// Visible filters links down to the ones shown publicly.
func Visible(links []Record) []Record {
	out := make([]Record, 0, len(links))
	for _, l := range links {
		if l.Status == StatusActive {
			out = append(out, l)
		}
	}
	return out
}

// Get loads one link of pageID.
func Get(ctx context.Context, db *sqlx.DB, pageID, id int64, now time.Time) (*Record, error) {
	var rec Record
	if err := db.GetContext(ctx, &rec,
		`SELECT `+columns+` FROM link WHERE id = ? AND page_id = ? LIMIT 1`, id, pageID); err != nil {
		return nil, database.Classify(err)
	}
	rec.Resolve(now)
	return &rec, nil
}

// ForRedirect loads a link by id alone, only when its page is published and
// live.
func ForRedirect(ctx context.Context, db *sqlx.DB, id int64, now time.Time) (*Record, error) {
	var rec Record
	err := db.GetContext(ctx, &rec,
		`SELECT l.id, l.page_id, l.title, l.url, l.icon, l.position, l.is_active,
                l.schedule, l.click_count, l.created_at, l.updated_at
           FROM link l
           JOIN page p ON p.id = l.page_id
          WHERE l.id = ? AND p.published = TRUE AND p.deleted_at IS NULL
          LIMIT 1`, id)
	if err != nil {
		return nil, database.Classify(err)
	}
	rec.Resolve(now)
	return &rec, nil
}

// CountClick increments click_count.
func CountClick(ctx context.Context, db *sqlx.DB, id int64) error {
	_, err := db.ExecContext(ctx, `UPDATE link SET click_count = click_count + 1 WHERE id = ?`, id)
	return err
}

// NewLink is the create payload.
type NewLink struct {
	Title    string    `json:"title"     validate:"required,max=120"`
	URL      string    `json:"url"       validate:"required,httpurl,max=2048"`
	Icon     string    `json:"icon"      validate:"max=64"`
	IsActive *bool     `json:"is_active"`
	Schedule *Schedule `json:"schedule"`
}

// Create appends a link at the end of the page.
func Create(ctx context.Context, db *sqlx.DB, pageID int64, l NewLink) (int64, error) {
	if err := checkSchedule(l.Schedule); err != nil {
		return 0, err
	}
	sched, err := scheduleValue(l.Schedule)
	if err != nil {
		return 0, err
	}
	active := true
	if l.IsActive != nil {
		active = *l.IsActive
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck

	pos, err := database.NextPosition(ctx, tx, "link", pageID)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO link (page_id, title, url, icon, position, is_active, schedule)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pageID, l.Title, l.URL, l.Icon, pos, active, sched)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Patch carries optional link fields; nil means unchanged.
type Patch struct {
	Title    *string   `json:"title"     validate:"omitempty,min=1,max=120"`
	URL      *string   `json:"url"       validate:"omitempty,httpurl,max=2048"`
	Icon     *string   `json:"icon"      validate:"omitempty,max=64"`
	IsActive *bool     `json:"is_active"`
	Schedule *Schedule `json:"schedule"`
}

// Update applies p to link id of pageID.
func Update(ctx context.Context, db *sqlx.DB, pageID, id int64, p Patch) error {
	var ch database.Changes
	if p.Title != nil {
		ch.Set("title", *p.Title)
	}
	if p.URL != nil {
		ch.Set("url", *p.URL)
	}
	if p.Icon != nil {
		ch.Set("icon", *p.Icon)
	}
	if p.IsActive != nil {
		ch.Set("is_active", *p.IsActive)
	}
	if p.Schedule != nil {
		if err := checkSchedule(p.Schedule); err != nil {
			return err
		}
		v, err := scheduleValue(p.Schedule)
		if err != nil {
			return err
		}
		ch.Set("schedule", v)
	}
	if ch.Empty() {
		return nil
	}
	// Zero affected rows also means "matched but unchanged"; callers re-read
	// the link to tell a missing row apart.
	clause, args := ch.Clause()
	_, err := db.ExecContext(ctx,
		`UPDATE link SET `+clause+` WHERE id = ? AND page_id = ?`, append(args, id, pageID)...)
	return database.Classify(err)
}

// Delete removes one link.
func Delete(ctx context.Context, db *sqlx.DB, pageID, id int64) error {
	return database.MustAffect(db.ExecContext(ctx,
		`DELETE FROM link WHERE id = ? AND page_id = ?`, id, pageID))
}

// Reorder rewrites positions to match ids.
func Reorder(ctx context.Context, db *sqlx.DB, pageID int64, ids []int64) error {
	return database.Reorder(ctx, db, "link", pageID, ids)
}

// checkSchedule converts window errors into field errors.
func checkSchedule(s *Schedule) error {
	err := s.Check()
	if err == nil {
		return nil
	}
	var fe form.Errors
	switch {
	case errors.Is(err, errBadWindow):
		fe.Add("schedule.end_date", "Must be after start_date.")
	case errors.Is(err, errBadBound):
		field, _, _ := strings.Cut(err.Error(), ":")
		fe.Add("schedule."+field, "Must be an RFC 3339 timestamp or a YYYY-MM-DD date.")
	default:
		return err
	}
	return fe
}
