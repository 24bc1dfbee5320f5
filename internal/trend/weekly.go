package trend

import (
	"sort"
	"time"
)

// CategoryCounts tallies scored events by band.
type CategoryCounts struct {
	Detractor int `json:"detractor"`
	Neutral   int `json:"neutral"`
	Promoter  int `json:"promoter"`
}

func (c *CategoryCounts) add(b Band) {
	switch b {
	case BandDetractor:
		c.Detractor++
	case BandNeutral:
		c.Neutral++
	case BandPromoter:
		c.Promoter++
	}
}

// WeeklyTrend is the reason and category breakdown of one populated week.
type WeeklyTrend struct {
	Week        int              `json:"week"`
	Start       time.Time        `json:"start"`
	End         time.Time        `json:"end"`
	TotalEvents int              `json:"total_events"`
	Reasons     map[string]int   `json:"reason_counts"`
	Categories  CategoryCounts   `json:"category_counts"`
	Priorities  map[Priority]int `json:"priority_counts"`
	// VsPrevious holds, for every reason seen this week, the signed change
	// against the previous populated week. Nil for the first week.
	VsPrevious map[string]int `json:"comparison_vs_previous_week"`
}

// Weekly groups scheduled events by week and compares each week's reason
// counts with the last week that had any events. Unscheduled events are
// ignored. The result is ordered by week and does not depend on input order.
func Weekly(events []Event, cal Calendar) []WeeklyTrend {
	buckets := make(map[int]*WeeklyTrend)
	for _, e := range events {
		if !e.Scheduled() {
			continue
		}
		w := cal.WeekOf(e.Date)
		entry, ok := buckets[w]
		if !ok {
			start, end := cal.Range(w)
			entry = &WeeklyTrend{
				Week:       w,
				Start:      start,
				End:        end,
				Reasons:    make(map[string]int),
				Priorities: make(map[Priority]int),
			}
			buckets[w] = entry
		}

		entry.TotalEvents++
		if reason, ok := ReasonKey(e); ok {
			entry.Reasons[reason]++
		}
		entry.Categories.add(e.Band())
		if p, ok := PriorityKey(e); ok {
			entry.Priorities[p]++
		}
	}

	weeks := make([]int, 0, len(buckets))
	for w := range buckets {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	out := make([]WeeklyTrend, 0, len(weeks))
	var prev map[string]int
	for i, w := range weeks {
		entry := buckets[w]
		if i > 0 {
			entry.VsPrevious = reasonDelta(entry.Reasons, prev)
		}
		prev = entry.Reasons
		out = append(out, *entry)
	}
	return out
}

func reasonDelta(cur, prev map[string]int) map[string]int {
	delta := make(map[string]int, len(cur))
	for reason, n := range cur {
		delta[reason] = n - prev[reason]
	}
	return delta
}
