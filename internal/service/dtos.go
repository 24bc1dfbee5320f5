package service

import "github.com/godilite/fieldops-server/internal/trend"

// TeamReport pairs a team's ledger with its current status. FirstCrossingEver
// (inside Ledger) and Status are independent: the former is the first
// violation in the team's history, the latter reflects all-time totals.
type TeamReport struct {
	TeamName  string          `json:"team_name"`
	Lifecycle trend.Lifecycle `json:"lifecycle"`
	Ledger    trend.Ledger    `json:"ledger"`
	Status    trend.Status    `json:"current_cumulative_status"`
	// InDirectory is false for teams seen only in evaluations.
	InDirectory bool `json:"in_directory"`
}

type PriorityBreakdown struct {
	Total  int                    `json:"total"`
	Counts map[trend.Priority]int `json:"counts"`
}
