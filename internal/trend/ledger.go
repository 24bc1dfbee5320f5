package trend

import (
	"sort"
	"time"
)

const (
	// ViolationThreshold is the equivalent-detractor count that constitutes a violation.
	ViolationThreshold = 3
	// NeutralsPerDetractor is how many neutral evaluations weigh as one detractor.
	NeutralsPerDetractor = 3
)

// EquivalentDetractors is detractors + floor(neutrals / 3).
func EquivalentDetractors(detractors, neutrals int) int {
	return detractors + neutrals/NeutralsPerDetractor
}

// Crossing records the first time a team's running equivalent-detractor count
// reached the violation threshold.
type Crossing struct {
	Date                time.Time `json:"date"`
	DetractorsConsumed  int       `json:"detractors_consumed"`
	NeutralsConsumed    int       `json:"neutrals_consumed"`
	NeutralsCarriedOver int       `json:"neutrals_carried_over"`
}

// WalkState is the accumulator of the threshold walk. The zero value is the
// initial state.
type WalkState struct {
	Detractors    int       `json:"running_detractors"`
	Neutrals      int       `json:"running_neutrals"`
	FirstCrossing *Crossing `json:"first_crossing,omitempty"`
}

// Crossed reports whether the walk has already recorded its crossing.
func (s WalkState) Crossed() bool { return s.FirstCrossing != nil }

func (s WalkState) Equivalent() int { return EquivalentDetractors(s.Detractors, s.Neutrals) }

// Step is the per-event transition of the walk. Only the first crossing is
// ever recorded; after it the counters keep accumulating from the post-reset
// baseline. The returned Crossing is never modified afterwards.
func Step(s WalkState, e Event) WalkState {
	switch e.Band() {
	case BandDetractor:
		s.Detractors++
	case BandNeutral:
		s.Neutrals++
	}

	if s.Crossed() || s.Equivalent() < ViolationThreshold {
		return s
	}

	shortfall := max(ViolationThreshold-s.Detractors, 0)
	used := min(s.Neutrals, shortfall*NeutralsPerDetractor)
	s.FirstCrossing = &Crossing{
		Date:                e.Date,
		DetractorsConsumed:  s.Detractors,
		NeutralsConsumed:    used,
		NeutralsCarriedOver: s.Neutrals - used,
	}
	s.Detractors = 0
	s.Neutrals = s.FirstCrossing.NeutralsCarriedOver
	return s
}

// Walk folds Step over the scheduled events in chronological order. Events
// sharing a date keep their input order. The input slice is not modified.
func Walk(events []Event) WalkState {
	var s WalkState
	for _, e := range chronological(events) {
		s = Step(s, e)
	}
	return s
}

func chronological(events []Event) []Event {
	sorted := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Scheduled() {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// Ledger is a team's derived disciplinary state.
//
// The totals are all-time and never reset; they drive the current status.
// FirstCrossing and Final come from the one-shot reset walk and describe only
// the first violation ever reached.
type Ledger struct {
	TeamName             string    `json:"team_name"`
	TotalEvents          int       `json:"total_events"`
	TotalDetractors      int       `json:"total_detractors"`
	TotalNeutrals        int       `json:"total_neutrals"`
	EquivalentDetractors int       `json:"equivalent_detractors"`
	FirstCrossing        *Crossing `json:"first_crossing_ever,omitempty"`
	Final                WalkState `json:"final_running_state"`
}

// BuildLedger derives the ledger of one team. Undated events count toward the
// totals but cannot take part in the chronological walk.
func BuildLedger(team string, events []Event) Ledger {
	l := Ledger{TeamName: team, TotalEvents: len(events)}
	for _, e := range events {
		switch e.Band() {
		case BandDetractor:
			l.TotalDetractors++
		case BandNeutral:
			l.TotalNeutrals++
		}
	}
	l.EquivalentDetractors = EquivalentDetractors(l.TotalDetractors, l.TotalNeutrals)
	l.Final = Walk(events)
	l.FirstCrossing = l.Final.FirstCrossing
	return l
}

// GroupByTeam splits events by TeamKey. Events without a team are dropped.
func GroupByTeam(events []Event) map[string][]Event {
	out := make(map[string][]Event)
	for _, e := range events {
		key := TeamKey(e)
		if key == "" {
			continue
		}
		out[key] = append(out[key], e)
	}
	return out
}

// Ledgers builds one ledger per team found in events, ordered by team name.
func Ledgers(events []Event) []Ledger {
	groups := GroupByTeam(events)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Ledger, 0, len(names))
	for _, name := range names {
		out = append(out, BuildLedger(name, groups[name]))
	}
	return out
}
