package models

import "database/sql"

// Evaluation is one row of the evaluations table. Date and score columns are
// nullable upstream and are passed through untouched as text; SQLite does not
// enforce the INTEGER affinity of score.
type Evaluation struct {
	ID            int64
	TeamID        sql.NullString
	TeamName      string
	Score         sql.NullString
	InterviewDate sql.NullString
	Reason        sql.NullString
	Priority      sql.NullString
}

// Team is one row of the team directory.
type Team struct {
	ID                int64
	Name              string
	IsTerminated      bool
	IsSuspended       bool
	SuspensionEndDate sql.NullString
	SuspensionReason  sql.NullString
	IsResigned        bool
	ResignationReason sql.NullString
	IsOnLeave         bool
}

// EvaluationFilter narrows ListEvaluations. Zero values mean no filter.
type EvaluationFilter struct {
	TeamName string
}
