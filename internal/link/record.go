// internal/link/record.go
//
// `link` table row model.

package link

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

var (
	errBadBound  = errors.New("must be an RFC 3339 timestamp or YYYY-MM-DD date")
	errBadWindow = errors.New("start_date must be before end_date")
)

// Record mirrors one row in `link`.  Status is computed on read.
type Record struct {
	ID         int64     `db:"id"          json:"id"`
	PageID     int64     `db:"page_id"     json:"-"`
	Title      string    `db:"title"       json:"title"`
	URL        string    `db:"url"         json:"url"`
	Icon       string    `db:"icon"        json:"icon"`
	Position   int       `db:"position"    json:"position"`
	IsActive   bool      `db:"is_active"   json:"is_active"`
	Schedule   *Schedule `db:"schedule"    json:"schedule"`
	ClickCount int64     `db:"click_count" json:"click_count"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
	Status     Status    `db:"-"           json:"status"`
}

// Resolve fills r.Status for now and returns it.
func (r *Record) Resolve(now time.Time) Status {
	sched := r.Schedule
	if sched.Empty() {
		sched = nil
	}
	r.Status = Resolve(r.IsActive, sched, now)
	return r.Status
}

// scheduleValue encodes a schedule for the nullable column.
func scheduleValue(s *Schedule) (driver.Value, error) {
	if s.Empty() {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Schema is owned by the links component.
var Schema = []string{`
    CREATE TABLE IF NOT EXISTS link (
        id          BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        page_id     BIGINT UNSIGNED NOT NULL,
        title       VARCHAR(120)  NOT NULL,
        url         VARCHAR(2048) NOT NULL,
        icon        VARCHAR(64)   NOT NULL DEFAULT '',
        position    INT NOT NULL DEFAULT 0,
        is_active   BOOLEAN NOT NULL DEFAULT TRUE,
        schedule    JSON NULL,
        click_count BIGINT UNSIGNED NOT NULL DEFAULT 0,
        created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        KEY idx_link_page (page_id, position),
        CONSTRAINT fk_link_page FOREIGN KEY (page_id) REFERENCES page(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
