// internal/booking/record.go
//
// Row models for `meeting_type`, `availability`, and `booking`.
//
// Context
// -------
// A user offers meeting types (e.g. "30 min intro") on their public page.
// Weekly availability windows are stored as minutes from local midnight in
// the user's time zone, so "Mon 09:00-17:00" survives DST changes.
// Bookings are stored in UTC.
package booking

import (
	"encoding/json"
	"fmt"
	"time"
)

// Booking states.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// MeetingType mirrors one row in `meeting_type`.
type MeetingType struct {
	ID          int64     `db:"id"           json:"id"`
	UserID      int64     `db:"user_id"      json:"-"`
	Slug        string    `db:"slug"         json:"slug"`
	Title       string    `db:"title"        json:"title"`
	Description string    `db:"description"  json:"description"`
	DurationMin int       `db:"duration_min" json:"duration_min"`
	IntervalMin int       `db:"interval_min" json:"interval_min"`
	BufferMin   int       `db:"buffer_min"   json:"buffer_min"`
	Active      bool      `db:"active"       json:"active"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// Window mirrors one row in `availability`.
type Window struct {
	ID          int64 `db:"id"           json:"-"`
	UserID      int64 `db:"user_id"      json:"-"`
	Weekday     int   `db:"weekday"      json:"weekday"` // 0 = Sunday
	StartMinute int   `db:"start_minute" json:"-"`
	EndMinute   int   `db:"end_minute"   json:"-"`
}

type windowJSON struct {
	Weekday int    `json:"weekday" validate:"min=0,max=6"`
	Start   string `json:"start"   validate:"required,datetime=15:04"`
	End     string `json:"end"     validate:"required,datetime=15:04"`
}

// MarshalJSON renders minutes as "HH:MM".
func (w Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(windowJSON{Weekday: w.Weekday, Start: clock(w.StartMinute), End: clock(w.EndMinute)})
}

func clock(min int) string { return fmt.Sprintf("%02d:%02d", min/60, min%60) }

// Booking mirrors one row in `booking`.
type Booking struct {
	ID            int64     `db:"id"              json:"-"`
	PublicID      string    `db:"public_id"       json:"id"`
	MeetingTypeID int64     `db:"meeting_type_id" json:"meeting_type_id"`
	MeetingTitle  string    `db:"meeting_title"   json:"meeting_title,omitempty"`
	GuestName     string    `db:"guest_name"      json:"guest_name"`
	GuestEmail    string    `db:"guest_email"     json:"guest_email"`
	Notes         string    `db:"notes"           json:"notes"`
	StartsAt      time.Time `db:"starts_at"       json:"starts_at"`
	EndsAt        time.Time `db:"ends_at"         json:"ends_at"`
	Status        string    `db:"status"          json:"status"`
	CreatedAt     time.Time `db:"created_at"      json:"created_at"`
}

// Schema is owned by the booking component.
var Schema = []string{`
    CREATE TABLE IF NOT EXISTS meeting_type (
        id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        user_id      BIGINT UNSIGNED NOT NULL,
        slug         VARCHAR(40)  NOT NULL,
        title        VARCHAR(120) NOT NULL,
        description  VARCHAR(500) NOT NULL DEFAULT '',
        duration_min INT NOT NULL,
        interval_min INT NOT NULL,
        buffer_min   INT NOT NULL DEFAULT 0,
        active       BOOLEAN NOT NULL DEFAULT TRUE,
        created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        UNIQUE KEY uq_meeting_type_user_slug (user_id, slug),
        CONSTRAINT fk_meeting_type_user FOREIGN KEY (user_id) REFERENCES app_user(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, `
    CREATE TABLE IF NOT EXISTS availability (
        id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        user_id      BIGINT UNSIGNED NOT NULL,
        weekday      TINYINT NOT NULL,
        start_minute SMALLINT NOT NULL,
        end_minute   SMALLINT NOT NULL,
        KEY idx_availability_user_day (user_id, weekday),
        CONSTRAINT fk_availability_user FOREIGN KEY (user_id) REFERENCES app_user(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, `
    CREATE TABLE IF NOT EXISTS booking (
        id              BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        public_id       CHAR(36)     NOT NULL UNIQUE,
        meeting_type_id BIGINT UNSIGNED NOT NULL,
        guest_name      VARCHAR(120) NOT NULL,
        guest_email     VARCHAR(320) NOT NULL,
        notes           VARCHAR(1000) NOT NULL DEFAULT '',
        starts_at       DATETIME NOT NULL,
        ends_at         DATETIME NOT NULL,
        status          VARCHAR(16) NOT NULL DEFAULT 'confirmed',
        created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_booking_type_start (meeting_type_id, starts_at),
        CONSTRAINT fk_booking_meeting_type FOREIGN KEY (meeting_type_id) REFERENCES meeting_type(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
