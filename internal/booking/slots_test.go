package booking

import (
	"errors"
	"testing"
	"time"
)

func at(h, m int) time.Time { return time.Date(2024, 5, 6, h, m, 0, 0, time.UTC) }

func availability(slots []Slot) []bool {
	out := make([]bool, len(slots))
	for i, s := range slots {
		out[i] = s.Available
	}
	return out
}

func TestGenerateSlots(t *testing.T) {
	cases := []struct {
		name      string
		req       SlotRequest
		wantCount int
		wantAvail []bool
	}{
		{
			name:      "empty calendar",
			req:       SlotRequest{WindowStart: at(9, 0), WindowEnd: at(11, 0), Duration: 30 * time.Minute, Interval: 30 * time.Minute},
			wantCount: 4,
			wantAvail: []bool{true, true, true, true},
		},
		{
			name:      "last slot must fit",
			req:       SlotRequest{WindowStart: at(9, 0), WindowEnd: at(10, 15), Duration: 30 * time.Minute, Interval: 30 * time.Minute},
			wantCount: 2,
			wantAvail: []bool{true, true},
		},
		{
			name: "exact overlap with zero buffer",
			req: SlotRequest{WindowStart: at(9, 0), WindowEnd: at(11, 0), Duration: 30 * time.Minute, Interval: 30 * time.Minute,
				Booked: []Span{{at(9, 30), at(10, 0)}}},
			wantCount: 4,
			wantAvail: []bool{true, false, true, true},
		},
		{
			name: "buffer blocks neighbours",
			req: SlotRequest{WindowStart: at(9, 0), WindowEnd: at(11, 0), Duration: 30 * time.Minute, Interval: 30 * time.Minute,
				Buffer: 15 * time.Minute, Booked: []Span{{at(9, 30), at(10, 0)}}},
			wantCount: 4,
			wantAvail: []bool{false, false, false, true},
		},
		{
			name: "overlapping step interval",
			req: SlotRequest{WindowStart: at(9, 0), WindowEnd: at(10, 0), Duration: 30 * time.Minute, Interval: 15 * time.Minute,
				Booked: []Span{{at(9, 40), at(9, 50)}}},
			wantCount: 3,
			wantAvail: []bool{true, false, false},
		},
		{
			name:      "window shorter than duration",
			req:       SlotRequest{WindowStart: at(9, 0), WindowEnd: at(9, 20), Duration: 30 * time.Minute, Interval: 30 * time.Minute},
			wantCount: 0,
			wantAvail: []bool{},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := GenerateSlots(c.req)
			if err != nil {
				t.Fatalf("GenerateSlots: %v", err)
			}
			if len(got) != c.wantCount {
				t.Fatalf("got %d slots, want %d", len(got), c.wantCount)
			}
			for i, a := range availability(got) {
				if a != c.wantAvail[i] {
					t.Fatalf("availability = %v, want %v", availability(got), c.wantAvail)
				}
			}
			for _, s := range got {
				if s.End.After(c.req.WindowEnd) {
					t.Fatalf("slot %v ends after window", s)
				}
			}
		})
	}
}

func TestGenerateSlots_Errors(t *testing.T) {
	base := SlotRequest{WindowStart: at(9, 0), WindowEnd: at(10, 0), Duration: 30 * time.Minute, Interval: 30 * time.Minute}

	bad := base
	bad.Duration = 0
	if _, err := GenerateSlots(bad); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("zero duration: %v", err)
	}
	bad = base
	bad.Interval = -time.Minute
	if _, err := GenerateSlots(bad); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("negative interval: %v", err)
	}
	bad = base
	bad.WindowEnd = bad.WindowStart
	if _, err := GenerateSlots(bad); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("empty window: %v", err)
	}
	bad = base
	bad.Buffer = -time.Minute
	if _, err := GenerateSlots(bad); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("negative buffer: %v", err)
	}
}
