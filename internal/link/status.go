// internal/link/status.go
//
// Link status resolution.
//
// Context
// -------
// A link is shown on the public page and followed by /l/{id} only while it
// is active.  The status is never stored; it is computed from the
// `is_active` flag and the optional schedule window each time a link is
// read, so a link goes live or expires without any background job.
//
// Rules, in order
//   1. is_active false           → inactive
//   2. no usable bounds          → active
//   3. now before start          → scheduled
//   4. now after end             → expired
//   5. otherwise                 → active
//
// A bound that fails to parse is ignored.  A date-only end bound covers the
// whole of that day.

package link

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the computed visibility of a link.
type Status string

const (
	StatusActive    Status = "active"
	StatusScheduled Status = "scheduled"
	StatusExpired   Status = "expired"
	StatusInactive  Status = "inactive"
)

// Schedule is the optional visibility window.  Bounds are RFC 3339
// timestamps or bare YYYY-MM-DD dates in UTC.  A bare start date begins at
// midnight; a bare end date is the last active day, inclusive.
type Schedule struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Resolve computes the status of a link at now.
func Resolve(isActive bool, sched *Schedule, now time.Time) Status {
	if !isActive {
		return StatusInactive
	}
	if sched == nil {
		return StatusActive
	}
	if start, ok := parseBound(sched.StartDate); ok && now.Before(start) {
		return StatusScheduled
	}
	if end, ok := parseEnd(sched.EndDate); ok && now.After(end) {
		return StatusExpired
	}
	return StatusActive
}

// Empty reports whether neither bound is set.
func (s *Schedule) Empty() bool {
	return s == nil || (strings.TrimSpace(s.StartDate) == "" && strings.TrimSpace(s.EndDate) == "")
}

// Check validates both bounds for writes: each must parse and start must
// precede end.
func (s *Schedule) Check() error {
	if s.Empty() {
		return nil
	}
	start, okStart := parseBound(s.StartDate)
	if s.StartDate != "" && !okStart {
		return fmt.Errorf("start_date: %w", errBadBound)
	}
	end, okEnd := parseEnd(s.EndDate)
	if s.EndDate != "" && !okEnd {
		return fmt.Errorf("end_date: %w", errBadBound)
	}
	if okStart && okEnd && !start.Before(end) {
		return errBadWindow
	}
	return nil
}

func parseBound(s string) (time.Time, bool) {
	t, _, ok := parseDate(s)
	return t, ok
}

// parseEnd moves a date-only bound to the last instant of that day.
func parseEnd(s string) (time.Time, bool) {
	t, dateOnly, ok := parseDate(s)
	if ok && dateOnly {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, ok
}

func parseDate(s string) (t time.Time, dateOnly, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}

// Scan implements sql.Scanner for the nullable JSON `schedule` column.
func (s *Schedule) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*s = Schedule{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("link: cannot scan %T into Schedule", src)
	}
	// Malformed stored JSON degrades to "no schedule".
	if err := json.Unmarshal(b, s); err != nil {
		*s = Schedule{}
	}
	return nil
}
