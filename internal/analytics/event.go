// internal/analytics/event.go
//
// `analytics_event` table row model and writers.
//
// Context
// -------
// Public handlers record one row per page view and per link click.  The
// row is denormalised: the UA, country, and referrer host are copied from
// requestinfo at write time so the dashboard query is a single range scan
// over (page_id, created_at).  Bot traffic is never written.

package analytics

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/requestinfo"
)

// Event kinds.
const (
	KindPageView  = "page_view"
	KindLinkClick = "link_click"
)

// Event mirrors one row in `analytics_event`.
type Event struct {
	ID        int64     `db:"id"`
	PageID    int64     `db:"page_id"`
	LinkID    *int64    `db:"link_id"`
	Kind      string    `db:"kind"`
	Referrer  string    `db:"referrer"`
	Device    string    `db:"device"`
	Browser   string    `db:"browser"`
	OS        string    `db:"os"`
	Country   string    `db:"country"`
	CreatedAt time.Time `db:"created_at"`
}

// FromRequest builds an event from enrichment data.  ok is false for bots.
// A nil info yields an event with empty dimensions.
func FromRequest(info *requestinfo.RequestInfo, pageID int64, linkID *int64, kind string) (Event, bool) {
	ev := Event{PageID: pageID, LinkID: linkID, Kind: kind, CreatedAt: time.Now().UTC()}
	if info == nil {
		return ev, true
	}
	if info.UA.IsBot {
		return ev, false
	}
	ev.Referrer = info.Referrer
	ev.Device = info.UA.Device
	ev.Browser = info.UA.Browser
	ev.OS = info.UA.OS
	ev.Country = info.Geo.CountryISO
	if !info.Timestamp.IsZero() {
		ev.CreatedAt = info.Timestamp.UTC()
	}
	return ev, true
}

// Insert writes one event.
func Insert(ctx context.Context, db *sqlx.DB, ev Event) error {
	_, err := db.NamedExecContext(ctx,
		`INSERT INTO analytics_event
            (page_id, link_id, kind, referrer, device, browser, os, country, created_at)
         VALUES
            (:page_id, :link_id, :kind, :referrer, :device, :browser, :os, :country, :created_at)`, ev)
	return err
}

// Range returns the page's events with from <= created_at < to.
func Range(ctx context.Context, db *sqlx.DB, pageID int64, from, to time.Time) ([]Event, error) {
	out := []Event{}
	err := db.SelectContext(ctx, &out,
		`SELECT id, page_id, link_id, kind, referrer, device, browser, os, country, created_at
           FROM analytics_event
          WHERE page_id = ? AND created_at >= ? AND created_at < ?
          ORDER BY created_at`, pageID, from, to)
	return out, err
}

// Schema is owned by the analytics component.
var Schema = []string{`
    CREATE TABLE IF NOT EXISTS analytics_event (
        id         BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        page_id    BIGINT UNSIGNED NOT NULL,
        link_id    BIGINT UNSIGNED NULL,
        kind       VARCHAR(16)  NOT NULL,
        referrer   VARCHAR(255) NOT NULL DEFAULT '',
        device     VARCHAR(16)  NOT NULL DEFAULT '',
        browser    VARCHAR(32)  NOT NULL DEFAULT '',
        os         VARCHAR(32)  NOT NULL DEFAULT '',
        country    CHAR(2)      NOT NULL DEFAULT '',
        created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_event_page_time (page_id, created_at),
        CONSTRAINT fk_event_page FOREIGN KEY (page_id) REFERENCES page(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
