package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/godilite/fieldops-server/internal/repository/models"
	"github.com/godilite/fieldops-server/internal/trend"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate accepts the formats the upstream task export uses. ok is false
// for blank or unparsable input.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseScore reads the raw score column. ok is false for anything that is not
// a whole number, including blanks.
func parseScore(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// RowIssues flags columns of a row that could not be parsed.
type RowIssues struct {
	BadDate  bool
	BadScore bool
}

// EventFromRow maps a row onto an engine event. A date that cannot be parsed
// leaves the event unscheduled and a score that cannot be parsed leaves it
// unscored; issues reports both cases.
func EventFromRow(row models.Evaluation) (e trend.Event, issues RowIssues) {
	e = trend.Event{
		TeamID:   row.TeamID.String,
		TeamName: strings.TrimSpace(row.TeamName),
		Reason:   strings.TrimSpace(row.Reason.String),
		Priority: trend.Priority(strings.TrimSpace(row.Priority.String)),
	}
	if row.Score.Valid {
		n, ok := parseScore(row.Score.String)
		if ok {
			e.Score = n
		}
		issues.BadScore = !ok && strings.TrimSpace(row.Score.String) != ""
	}
	if row.InterviewDate.Valid {
		d, ok := parseDate(row.InterviewDate.String)
		e.Date = d
		issues.BadDate = !ok && strings.TrimSpace(row.InterviewDate.String) != ""
	}
	return e, issues
}

// LifecycleFromTeam maps a directory row onto engine lifecycle flags.
func LifecycleFromTeam(t models.Team) trend.Lifecycle {
	lc := trend.Lifecycle{
		TeamName:          strings.TrimSpace(t.Name),
		Terminated:        t.IsTerminated,
		Suspended:         t.IsSuspended,
		SuspensionReason:  t.SuspensionReason.String,
		Resigned:          t.IsResigned,
		ResignationReason: t.ResignationReason.String,
		OnLeave:           t.IsOnLeave,
	}
	if t.SuspensionEndDate.Valid {
		lc.SuspensionEnd, _ = parseDate(t.SuspensionEndDate.String)
	}
	return lc
}
