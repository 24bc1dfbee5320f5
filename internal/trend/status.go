package trend

import (
	"fmt"
	"strings"
	"time"
)

// Lifecycle carries the team-directory flags. They take precedence over any
// score-derived standing.
type Lifecycle struct {
	TeamName          string    `json:"team_name"`
	Terminated        bool      `json:"is_terminated"`
	Suspended         bool      `json:"is_suspended"`
	SuspensionEnd     time.Time `json:"suspension_end_date"`
	SuspensionReason  string    `json:"suspension_reason,omitempty"`
	Resigned          bool      `json:"is_resigned"`
	ResignationReason string    `json:"resignation_reason,omitempty"`
	OnLeave           bool      `json:"is_on_leave"`
}

type StatusLabel string

const (
	StatusTerminated    StatusLabel = "Terminated"
	StatusSuspended     StatusLabel = "Suspended"
	StatusResigned      StatusLabel = "Resigned"
	StatusOnLeave       StatusLabel = "OnLeave"
	StatusViolated      StatusLabel = "Violated"
	StatusWarning       StatusLabel = "Warning"
	StatusVerbalWarning StatusLabel = "VerbalWarning"
	StatusActive        StatusLabel = "Active"
)

// Status is a team's current standing.
type Status struct {
	Label       StatusLabel `json:"label"`
	Consequence string      `json:"consequence"`
	Notes       string      `json:"notes"`
	// Equivalent is the all-time equivalent-detractor count the status was
	// derived from. It is reported even when a lifecycle flag wins.
	Equivalent int `json:"current_equivalent_detractors"`
}

// ClassifyStatus derives the current status from lifecycle flags first, then
// from the all-time, unreset detractor and neutral totals.
func ClassifyStatus(lc Lifecycle, totalDetractors, totalNeutrals int) Status {
	eq := EquivalentDetractors(totalDetractors, totalNeutrals)
	st := Status{Equivalent: eq}

	switch {
	case lc.Terminated:
		st.Label = StatusTerminated
		st.Consequence = "Team terminated"
		st.Notes = "Team has been terminated"
	case lc.Suspended:
		st.Label = StatusSuspended
		st.Consequence = "Suspended"
		st.Notes = suspensionNotes(lc)
	case lc.Resigned:
		st.Label = StatusResigned
		st.Consequence = "Team resigned"
		st.Notes = withReason("Team has resigned", lc.ResignationReason)
	case lc.OnLeave:
		st.Label = StatusOnLeave
		st.Consequence = "On leave"
		st.Notes = "Team is currently on leave"
	case eq >= ViolationThreshold:
		st.Label = StatusViolated
		st.Consequence = "Immediate suspension pending review"
		st.Notes = fmt.Sprintf("%d equivalent detractors (%d detractors, %d neutrals)", eq, totalDetractors, totalNeutrals)
	case eq == 2:
		st.Label = StatusWarning
		st.Consequence = "Formal warning"
		st.Notes = fmt.Sprintf("%d equivalent detractors, one more reaches the violation threshold", eq)
	case eq == 1:
		st.Label = StatusVerbalWarning
		st.Consequence = "Verbal warning"
		st.Notes = "1 equivalent detractor"
	default:
		st.Label = StatusActive
		st.Consequence = "Active, no violations"
		st.Notes = "No violations recorded"
	}
	return st
}

func suspensionNotes(lc Lifecycle) string {
	notes := "Team is suspended"
	if !lc.SuspensionEnd.IsZero() {
		notes += " until " + lc.SuspensionEnd.Format(dateLayout)
	}
	return withReason(notes, lc.SuspensionReason)
}

func withReason(notes, reason string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return notes + ": " + r
	}
	return notes
}
