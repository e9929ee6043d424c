// internal/booking/query.go
//
// Query helpers for meeting types, availability, and bookings.
//
// Notes
// -----
//   - Owner-facing statements filter on user_id; a meeting type of another
//     user behaves as not found.
//   - Functions that run inside the booking transaction accept
//     sqlx.QueryerContext so they work on both *sqlx.DB and *sqlx.Tx.

package booking

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/database"
)

const mtColumns = `id, user_id, slug, title, description, duration_min, interval_min, buffer_min, active, created_at, updated_at`

//
// Meeting types
//

// ListTypes returns the user's meeting types.
func ListTypes(ctx context.Context, db *sqlx.DB, userID int64) ([]MeetingType, error) {
	out := []MeetingType{}
	err := db.SelectContext(ctx, &out,
		`SELECT `+mtColumns+` FROM meeting_type WHERE user_id = ? ORDER BY title, id`, userID)
	return out, err
}

// GetType loads one meeting type of userID.
func GetType(ctx context.Context, db *sqlx.DB, userID, id int64) (*MeetingType, error) {
	var mt MeetingType
	if err := db.GetContext(ctx, &mt,
		`SELECT `+mtColumns+` FROM meeting_type WHERE id = ? AND user_id = ? LIMIT 1`, id, userID); err != nil {
		return nil, database.Classify(err)
	}
	return &mt, nil
}

// ActiveTypeBySlug loads an active meeting type for the public booking
// routes.
func ActiveTypeBySlug(ctx context.Context, db *sqlx.DB, userID int64, slug string) (*MeetingType, error) {
	var mt MeetingType
	if err := db.GetContext(ctx, &mt,
		`SELECT `+mtColumns+` FROM meeting_type
          WHERE user_id = ? AND slug = ? AND active = TRUE LIMIT 1`, userID, slug); err != nil {
		return nil, database.Classify(err)
	}
	return &mt, nil
}

// TypeInput is the create payload.  IntervalMin defaults to DurationMin.
type TypeInput struct {
	Slug        string `json:"slug"         validate:"required,slug"`
	Title       string `json:"title"        validate:"required,max=120"`
	Description string `json:"description"  validate:"max=500"`
	DurationMin int    `json:"duration_min" validate:"required,min=5,max=480"`
	IntervalMin int    `json:"interval_min" validate:"omitempty,min=5,max=480"`
	BufferMin   int    `json:"buffer_min"   validate:"min=0,max=240"`
	Active      *bool  `json:"active"`
}

// CreateType inserts a meeting type.  Duplicate slugs for the same user
// yield ErrConflict.
func CreateType(ctx context.Context, db *sqlx.DB, userID int64, in TypeInput) (int64, error) {
	if in.IntervalMin == 0 {
		in.IntervalMin = in.DurationMin
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO meeting_type
            (user_id, slug, title, description, duration_min, interval_min, buffer_min, active)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, in.Slug, in.Title, in.Description, in.DurationMin, in.IntervalMin, in.BufferMin, active)
	if err != nil {
		return 0, database.Classify(err)
	}
	return res.LastInsertId()
}

// TypePatch carries optional fields; nil means unchanged.
type TypePatch struct {
	Slug        *string `json:"slug"         validate:"omitempty,slug"`
	Title       *string `json:"title"        validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"  validate:"omitempty,max=500"`
	DurationMin *int    `json:"duration_min" validate:"omitempty,min=5,max=480"`
	IntervalMin *int    `json:"interval_min" validate:"omitempty,min=5,max=480"`
	BufferMin   *int    `json:"buffer_min"   validate:"omitempty,min=0,max=240"`
	Active      *bool   `json:"active"`
}

// UpdateType applies p to meeting type id of userID.
func UpdateType(ctx context.Context, db *sqlx.DB, userID, id int64, p TypePatch) error {
	var ch database.Changes
	if p.Slug != nil {
		ch.Set("slug", *p.Slug)
	}
	if p.Title != nil {
		ch.Set("title", *p.Title)
	}
	if p.Description != nil {
		ch.Set("description", *p.Description)
	}
	if p.DurationMin != nil {
		ch.Set("duration_min", *p.DurationMin)
	}
	if p.IntervalMin != nil {
		ch.Set("interval_min", *p.IntervalMin)
	}
	if p.BufferMin != nil {
		ch.Set("buffer_min", *p.BufferMin)
	}
	if p.Active != nil {
		ch.Set("active", *p.Active)
	}
	if ch.Empty() {
		return nil
	}
	clause, args := ch.Clause()
	_, err := db.ExecContext(ctx,
		`UPDATE meeting_type SET `+clause+` WHERE id = ? AND user_id = ?`, append(args, id, userID)...)
	return database.Classify(err)
}

// DeleteType removes a meeting type and, by cascade, its bookings.
func DeleteType(ctx context.Context, db *sqlx.DB, userID, id int64) error {
	return database.MustAffect(db.ExecContext(ctx,
		`DELETE FROM meeting_type WHERE id = ? AND user_id = ?`, id, userID))
}

//
// Availability
//

// ListWindows returns the user's weekly table ordered by day and start.
func ListWindows(ctx context.Context, q sqlx.QueryerContext, userID int64) ([]Window, error) {
	out := []Window{}
	err := sqlx.SelectContext(ctx, q, &out,
		`SELECT id, user_id, weekday, start_minute, end_minute
           FROM availability WHERE user_id = ?
          ORDER BY weekday, start_minute`, userID)
	return out, err
}

// WindowsFor returns the user's windows on weekday.
func WindowsFor(ctx context.Context, q sqlx.QueryerContext, userID int64, weekday time.Weekday) ([]Window, error) {
	out := []Window{}
	err := sqlx.SelectContext(ctx, q, &out,
		`SELECT id, user_id, weekday, start_minute, end_minute
           FROM availability WHERE user_id = ? AND weekday = ?
          ORDER BY start_minute`, userID, int(weekday))
	return out, err
}

// ReplaceWindows swaps the whole weekly table in one transaction.
func ReplaceWindows(ctx context.Context, db *sqlx.DB, userID int64, ws []Window) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for _, w := range ws {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO availability (user_id, weekday, start_minute, end_minute) VALUES (?, ?, ?, ?)`,
			userID, w.Weekday, w.StartMinute, w.EndMinute); err != nil {
			return err
		}
	}
	return tx.Commit()
}

//
// Bookings
//

const bookingColumns = `b.id, b.public_id, b.meeting_type_id, m.title AS meeting_title, b.guest_name,
                b.guest_email, b.notes, b.starts_at, b.ends_at, b.status, b.created_at`

// ListBookings returns the owner's bookings starting in [from, to).
func ListBookings(ctx context.Context, db *sqlx.DB, userID int64, from, to time.Time) ([]Booking, error) {
	out := []Booking{}
	err := db.SelectContext(ctx, &out,
		`SELECT `+bookingColumns+`
           FROM booking b
           JOIN meeting_type m ON m.id = b.meeting_type_id
          WHERE m.user_id = ? AND b.starts_at >= ? AND b.starts_at < ?
          ORDER BY b.starts_at`, userID, from.UTC(), to.UTC())
	return out, err
}

// BusySpans returns confirmed bookings of any of the owner's meeting types
// that intersect [from, to).
func BusySpans(ctx context.Context, q sqlx.QueryerContext, userID int64, from, to time.Time) ([]Span, error) {
	var rows []struct {
		StartsAt time.Time `db:"starts_at"`
		EndsAt   time.Time `db:"ends_at"`
	}
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT b.starts_at, b.ends_at
           FROM booking b
           JOIN meeting_type m ON m.id = b.meeting_type_id
          WHERE m.user_id = ? AND b.status = 'confirmed'
            AND b.starts_at < ? AND b.ends_at > ?`, userID, to.UTC(), from.UTC())
	if err != nil {
		return nil, err
	}
	out := make([]Span, len(rows))
	for i, r := range rows {
		out[i] = Span{Start: r.StartsAt, End: r.EndsAt}
	}
	return out, nil
}

// Cancel marks a confirmed booking of userID cancelled.  publicID is the
// id the API exposes.
func Cancel(ctx context.Context, db *sqlx.DB, userID int64, publicID string) error {
	return database.MustAffect(db.ExecContext(ctx,
		`UPDATE booking b
           JOIN meeting_type m ON m.id = b.meeting_type_id
            SET b.status = 'cancelled'
          WHERE b.public_id = ? AND m.user_id = ? AND b.status = 'confirmed'`, publicID, userID))
}
