// internal/analytics/aggregate.go
//
// Dashboard aggregation.
//
// Workflow
// --------
//  1. ParseRange turns ?from=&to= into a half-open UTC interval of whole
//     days, defaulting to the last 30 days.
//  2. Range fetches the raw events.
//  3. Aggregate folds them into totals, a zero-filled per-day series, top
//     links, and dimension breakdowns.  No I/O; link titles are supplied by
//     the caller.

package analytics

import (
	"sort"
	"time"

	"github.com/yanizio/linkbio/internal/form"
)

const (
	// DefaultDays is the window used when no range is given.
	DefaultDays = 30
	// MaxDays bounds a single dashboard query.
	MaxDays = 366
	// topN caps each breakdown list.
	topN = 10
)

// Totals are the headline numbers.  CTR is clicks divided by views, 0 with
// no views.
type Totals struct {
	Views           int     `json:"views"`
	Clicks          int     `json:"clicks"`
	UniqueReferrers int     `json:"unique_referrers"`
	CTR             float64 `json:"ctr"`
}

// DayPoint is one entry of the daily series.
type DayPoint struct {
	Date   string `json:"date"`
	Views  int    `json:"views"`
	Clicks int    `json:"clicks"`
}

// LinkStat counts clicks for one link.
type LinkStat struct {
	LinkID int64  `json:"link_id"`
	Title  string `json:"title"`
	Clicks int    `json:"clicks"`
}

// Bucket is one value of a breakdown dimension.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summary is the dashboard payload.
type Summary struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Totals    Totals     `json:"totals"`
	Series    []DayPoint `json:"series"`
	TopLinks  []LinkStat `json:"top_links"`
	Devices   []Bucket   `json:"devices"`
	Browsers  []Bucket   `json:"browsers"`
	Countries []Bucket   `json:"countries"`
	Referrers []Bucket   `json:"referrers"`
}

// ParseRange interprets inclusive YYYY-MM-DD bounds.  The result is the
// half-open interval [from 00:00, day after to 00:00) in UTC.
func ParseRange(fromStr, toStr string, now time.Time) (time.Time, time.Time, error) {
	today := now.UTC().Truncate(24 * time.Hour)
	to := today
	from := today.AddDate(0, 0, -(DefaultDays - 1))

	var fe form.Errors
	if toStr != "" {
		t, err := time.Parse(time.DateOnly, toStr)
		if err != nil {
			fe.Add("to", "Must be a YYYY-MM-DD date.")
		}
		to = t
		if fromStr == "" {
			from = to.AddDate(0, 0, -(DefaultDays - 1))
		}
	}
	if fromStr != "" {
		f, err := time.Parse(time.DateOnly, fromStr)
		if err != nil {
			fe.Add("from", "Must be a YYYY-MM-DD date.")
		}
		from = f
	}
	if len(fe) > 0 {
		return time.Time{}, time.Time{}, fe
	}
	if to.Before(from) {
		fe.Add("to", "Must not be before from.")
		return time.Time{}, time.Time{}, fe
	}
	if days := int(to.Sub(from)/(24*time.Hour)) + 1; days > MaxDays {
		fe.Add("from", "Range is limited to 366 days.")
		return time.Time{}, time.Time{}, fe
	}
	return from, to.AddDate(0, 0, 1), nil
}

// Aggregate folds events in [from, to) into a Summary.  titles maps link
// ids to their current titles; clicks on deleted links keep an empty title.
func Aggregate(events []Event, titles map[int64]string, from, to time.Time) Summary {
	s := Summary{
		From: from.Format(time.DateOnly),
		To:   to.AddDate(0, 0, -1).Format(time.DateOnly),
	}

	index := map[string]int{}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		index[key] = len(s.Series)
		s.Series = append(s.Series, DayPoint{Date: key})
	}

	clicks := map[int64]int{}
	devices := map[string]int{}
	browsers := map[string]int{}
	countries := map[string]int{}
	referrers := map[string]int{}

	for _, ev := range events {
		i, inRange := index[ev.CreatedAt.UTC().Format(time.DateOnly)]
		if !inRange {
			continue
		}
		switch ev.Kind {
		case KindPageView:
			s.Totals.Views++
			s.Series[i].Views++
			bump(devices, ev.Device)
			bump(browsers, ev.Browser)
			bump(countries, ev.Country)
			bump(referrers, ev.Referrer)
		case KindLinkClick:
			s.Totals.Clicks++
			s.Series[i].Clicks++
			if ev.LinkID != nil {
				clicks[*ev.LinkID]++
			}
		}
	}

	s.Totals.UniqueReferrers = len(referrers)
	if s.Totals.Views > 0 {
		s.Totals.CTR = float64(s.Totals.Clicks) / float64(s.Totals.Views)
	}

	s.TopLinks = make([]LinkStat, 0, len(clicks))
	for id, n := range clicks {
		s.TopLinks = append(s.TopLinks, LinkStat{LinkID: id, Title: titles[id], Clicks: n})
	}
	sort.Slice(s.TopLinks, func(a, b int) bool {
		if s.TopLinks[a].Clicks != s.TopLinks[b].Clicks {
			return s.TopLinks[a].Clicks > s.TopLinks[b].Clicks
		}
		return s.TopLinks[a].LinkID < s.TopLinks[b].LinkID
	})
	if len(s.TopLinks) > topN {
		s.TopLinks = s.TopLinks[:topN]
	}

	s.Devices = buckets(devices)
	s.Browsers = buckets(browsers)
	s.Countries = buckets(countries)
	s.Referrers = buckets(referrers)
	return s
}

// bump ignores empty keys so direct traffic and unknown geo do not form a
// bucket.
func bump(m map[string]int, key string) {
	if key != "" {
		m[key]++
	}
}

func buckets(m map[string]int) []Bucket {
	out := make([]Bucket, 0, len(m))
	for k, n := range m {
		out = append(out, Bucket{Key: k, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Key < out[b].Key
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
