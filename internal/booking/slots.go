// internal/booking/slots.go
//
// Slot generation.
//
// Context
// -------
// Given one availability window, the meeting length, the step between
// candidate starts, and the bookings already on the calendar, list every
// candidate slot and whether it can still be booked.
//
//	t = start; while t + duration <= end:
//	    slot [t, t+duration) is unavailable iff, for some booking b,
//	        t < b.End + buffer  and  t + duration > b.Start - buffer
//	    t += interval
//
// Bookings are half-open [Start, End).  With buffer 0 a slot that ends
// exactly when a booking starts is still available.  The function is pure
// and allocation-bounded by the window length.

package booking

import (
	"errors"
	"time"
)

var (
	// ErrInvalidWindow is returned when end is not after start or the
	// buffer is negative.
	ErrInvalidWindow = errors.New("booking: window end must be after start")
	// ErrInvalidDuration is returned for a non-positive duration or
	// interval.
	ErrInvalidDuration = errors.New("booking: duration and interval must be positive")
)

// Span is a half-open time range.
type Span struct {
	Start time.Time
	End   time.Time
}

// SlotRequest is the input to GenerateSlots.
type SlotRequest struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Duration    time.Duration
	Interval    time.Duration
	Buffer      time.Duration
	Booked      []Span
}

// Slot is one candidate meeting time.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// GenerateSlots enumerates the slots of req in start order.
func GenerateSlots(req SlotRequest) ([]Slot, error) {
	if req.Duration <= 0 || req.Interval <= 0 {
		return nil, ErrInvalidDuration
	}
	if !req.WindowEnd.After(req.WindowStart) || req.Buffer < 0 {
		return nil, ErrInvalidWindow
	}

	n := int(req.WindowEnd.Sub(req.WindowStart)/req.Interval) + 1
	out := make([]Slot, 0, n)
	for t := req.WindowStart; !t.Add(req.Duration).After(req.WindowEnd); t = t.Add(req.Interval) {
		end := t.Add(req.Duration)
		out = append(out, Slot{Start: t, End: end, Available: free(t, end, req.Booked, req.Buffer)})
	}
	return out, nil
}

func free(start, end time.Time, booked []Span, buffer time.Duration) bool {
	for _, b := range booked {
		if start.Before(b.End.Add(buffer)) && end.After(b.Start.Add(-buffer)) {
			return false
		}
	}
	return true
}
