// internal/booking/service.go
//
// Day-level slot listing and the booking transaction.
//
// Workflow
// --------
//  1. DaySlots parses the requested date in the owner's time zone, loads
//     that weekday's windows and the owner's confirmed bookings, and runs
//     GenerateSlots per window.  Slots starting at or before now are marked
//     unavailable.
//  2. Book locks the owner row, recomputes the day's slots inside the
//     transaction, and inserts only when the requested start is an
//     available slot.  Concurrent requests for the same owner serialise on
//     that lock, so a slot cannot be sold twice.

package booking

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/form"
)

// ErrSlotUnavailable is returned when the requested start is not an open
// slot.
var ErrSlotUnavailable = errors.New("booking: slot is no longer available")

// DaySlots lists the slots of mt on date (YYYY-MM-DD) in loc.
func DaySlots(ctx context.Context, q sqlx.QueryerContext, ownerID int64, loc *time.Location,
	mt *MeetingType, date string, now time.Time) ([]Slot, error) {

	day, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return nil, form.Errors{{Name: "date", Message: "Must be a YYYY-MM-DD date."}}
	}

	windows, err := WindowsFor(ctx, q, ownerID, day.Weekday())
	if err != nil {
		return nil, err
	}
	out := []Slot{}
	if len(windows) == 0 {
		return out, nil
	}

	// Bookings may start before midnight and spill over, so widen by the
	// buffer on both sides.
	buffer := time.Duration(mt.BufferMin) * time.Minute
	dayEnd := day.AddDate(0, 0, 1)
	busy, err := BusySpans(ctx, q, ownerID, day.Add(-buffer), dayEnd.Add(buffer))
	if err != nil {
		return nil, err
	}

	for _, w := range windows {
		slots, err := GenerateSlots(SlotRequest{
			WindowStart: atMinute(day, w.StartMinute),
			WindowEnd:   atMinute(day, w.EndMinute),
			Duration:    time.Duration(mt.DurationMin) * time.Minute,
			Interval:    time.Duration(mt.IntervalMin) * time.Minute,
			Buffer:      buffer,
			Booked:      busy,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, slots...)
	}
	for i := range out {
		if !out[i].Start.After(now) {
			out[i].Available = false
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Start.Before(out[b].Start) })
	return out, nil
}

// atMinute returns local wall-clock time min minutes after midnight of day.
// time.Date normalises DST gaps.
func atMinute(day time.Time, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), min/60, min%60, 0, 0, day.Location())
}

// Request is the public booking payload.
type Request struct {
	Start time.Time `json:"start"       validate:"required"`
	Name  string    `json:"guest_name"  validate:"required,max=120"`
	Email string    `json:"guest_email" validate:"required,email,max=320"`
	Notes string    `json:"notes"       validate:"max=1000"`
}

// Book reserves req.Start for mt.  It returns the stored booking, or
// ErrSlotUnavailable.
func Book(ctx context.Context, db *sqlx.DB, ownerID int64, loc *time.Location,
	mt *MeetingType, req Request, now time.Time) (*Booking, error) {

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	var locked int64
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM app_user WHERE id = ? FOR UPDATE`, ownerID); err != nil {
		return nil, err
	}

	start := req.Start.In(loc)
	slots, err := DaySlots(ctx, tx, ownerID, loc, mt, start.Format(time.DateOnly), now)
	if err != nil {
		return nil, err
	}
	var slot *Slot
	for i := range slots {
		if slots[i].Start.Equal(start) && slots[i].Available {
			slot = &slots[i]
			break
		}
	}
	if slot == nil {
		return nil, ErrSlotUnavailable
	}

	b := &Booking{
		PublicID:      uuid.NewString(),
		MeetingTypeID: mt.ID,
		MeetingTitle:  mt.Title,
		GuestName:     strings.TrimSpace(req.Name),
		GuestEmail:    strings.ToLower(strings.TrimSpace(req.Email)),
		Notes:         req.Notes,
		StartsAt:      slot.Start.UTC(),
		EndsAt:        slot.End.UTC(),
		Status:        StatusConfirmed,
		CreatedAt:     now.UTC(),
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO booking
            (public_id, meeting_type_id, guest_name, guest_email, notes, starts_at, ends_at, status)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.PublicID, b.MeetingTypeID, b.GuestName, b.GuestEmail, b.Notes, b.StartsAt, b.EndsAt, b.Status)
	if err != nil {
		return nil, err
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return b, tx.Commit()
}

// WindowInput is one entry of the PUT /api/availability payload.
type WindowInput = windowJSON

// ParseWindows converts "HH:MM" input into stored windows and rejects
// empty or overlapping windows on the same day.
func ParseWindows(in []WindowInput) ([]Window, error) {
	var fe form.Errors
	out := make([]Window, 0, len(in))
	for i, w := range in {
		if err := form.Validate(&w); err != nil {
			if ve, ok := err.(form.Errors); ok {
				for _, f := range ve {
					fe.Add(indexed(i, f.Name), f.Message)
				}
				continue
			}
			return nil, err
		}
		start, end := minutes(w.Start), minutes(w.End)
		if end <= start {
			fe.Add(indexed(i, "end"), "Must be after start.")
			continue
		}
		out = append(out, Window{Weekday: w.Weekday, StartMinute: start, EndMinute: end})
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Weekday != out[b].Weekday {
			return out[a].Weekday < out[b].Weekday
		}
		return out[a].StartMinute < out[b].StartMinute
	})
	for i := 1; i < len(out); i++ {
		if out[i].Weekday == out[i-1].Weekday && out[i].StartMinute < out[i-1].EndMinute {
			fe.Add("windows", "Windows on the same day must not overlap.")
			return nil, fe
		}
	}
	return out, nil
}

func indexed(i int, field string) string {
	return "windows[" + strconv.Itoa(i) + "]." + field
}

func minutes(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}
