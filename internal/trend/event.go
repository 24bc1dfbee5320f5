package trend

import (
	"strings"
	"time"
)

// Band is the customer-score category of an evaluation.
type Band int

const (
	BandUnscored Band = iota
	BandDetractor
	BandNeutral
	BandPromoter
)

func (b Band) String() string {
	switch b {
	case BandDetractor:
		return "detractor"
	case BandNeutral:
		return "neutral"
	case BandPromoter:
		return "promoter"
	default:
		return "unscored"
	}
}

// Priority of the underlying service ticket. It is independent of the score.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Event is one customer-scored service outcome.
type Event struct {
	TeamID   string    `json:"team_id,omitempty"`
	TeamName string    `json:"team_name"`
	Score    int       `json:"score,omitempty"`
	Date     time.Time `json:"date"`
	Reason   string    `json:"reason,omitempty"`
	Priority Priority  `json:"priority,omitempty"`
}

// Classify maps a score onto its band. Scores outside 1..10 are unscored.
func Classify(score int) Band {
	switch {
	case score >= 1 && score <= 6:
		return BandDetractor
	case score == 7 || score == 8:
		return BandNeutral
	case score == 9 || score == 10:
		return BandPromoter
	default:
		return BandUnscored
	}
}

func (e Event) Band() Band { return Classify(e.Score) }

// Scheduled reports whether the event carries a usable evaluation date.
func (e Event) Scheduled() bool { return !e.Date.IsZero() }

// TeamKey returns the join key used to group events by team.
func TeamKey(e Event) string {
	return strings.TrimSpace(e.TeamName)
}

// ReasonKey returns the normalized reason label and whether one is present.
func ReasonKey(e Event) (string, bool) {
	r := strings.TrimSpace(e.Reason)
	return r, r != ""
}

// PriorityKey returns the normalized ticket priority and whether one is present.
func PriorityKey(e Event) (Priority, bool) {
	p := Priority(strings.TrimSpace(string(e.Priority)))
	return p, p != ""
}

// Partition splits events into those with and without an evaluation date.
// Input order is preserved in both outputs.
func Partition(events []Event) (scheduled, unscheduled []Event) {
	for _, e := range events {
		if e.Scheduled() {
			scheduled = append(scheduled, e)
		} else {
			unscheduled = append(unscheduled, e)
		}
	}
	return scheduled, unscheduled
}

// PriorityCounts tallies events by priority, scored or not. Events without a
// priority are not counted.
func PriorityCounts(events []Event) map[Priority]int {
	out := make(map[Priority]int)
	for _, e := range events {
		if p, ok := PriorityKey(e); ok {
			out[p]++
		}
	}
	return out
}
