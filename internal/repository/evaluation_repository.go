package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/godilite/fieldops-server/internal/repository/models"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// Schema creates the tables read by EvaluationRepository.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		is_terminated INTEGER NOT NULL DEFAULT 0,
		is_suspended INTEGER NOT NULL DEFAULT 0,
		suspension_end_date TEXT,
		suspension_reason TEXT,
		is_resigned INTEGER NOT NULL DEFAULT 0,
		resignation_reason TEXT,
		is_on_leave INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id TEXT,
		team_name TEXT NOT NULL,
		score INTEGER,
		interview_date TEXT,
		reason TEXT,
		priority TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_evaluations_team_name ON evaluations (team_name)`,
}

type EvaluationRepository struct {
	db *sql.DB
}

func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// ListEvaluations returns evaluation rows ordered by id. Date parsing and
// score validation are left to the caller. The team filter compares
// whitespace-trimmed names in Go so it agrees with the service's grouping key.
func (s *EvaluationRepository) ListEvaluations(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	query := `
		SELECT id, team_id, team_name, score, interview_date, reason, priority
		FROM evaluations
	`
	query += ` ORDER BY id`
	name := strings.TrimSpace(filter.TeamName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListEvaluations: %w", err)
	}
	defer rows.Close()

	var results []models.Evaluation
	for rows.Next() {
		var e models.Evaluation
		if err := rows.Scan(&e.ID, &e.TeamID, &e.TeamName, &e.Score, &e.InterviewDate, &e.Reason, &e.Priority); err != nil {
			return nil, fmt.Errorf("scan ListEvaluations row: %w", err)
		}
		if name != "" && strings.TrimSpace(e.TeamName) != name {
			continue
		}
		results = append(results, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListEvaluations: %w", err)
	}
	return results, nil
}

const teamColumns = `id, name, is_terminated, is_suspended, suspension_end_date, suspension_reason,
	is_resigned, resignation_reason, is_on_leave`

func scanTeam(row interface{ Scan(dest ...any) error }) (models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.Name, &t.IsTerminated, &t.IsSuspended, &t.SuspensionEndDate, &t.SuspensionReason,
		&t.IsResigned, &t.ResignationReason, &t.IsOnLeave)
	return t, err
}

// ListTeams returns the whole team directory ordered by name.
func (s *EvaluationRepository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query ListTeams: %w", err)
	}
	defer rows.Close()

	var results []models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ListTeams row: %w", err)
		}
		results = append(results, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListTeams: %w", err)
	}
	return results, nil
}

// GetTeam looks up one directory entry by name.
func (s *EvaluationRepository) GetTeam(ctx context.Context, name string) (models.Team, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE name = ?`, strings.TrimSpace(name))
	t, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Team{}, ErrNotFound
		}
		return models.Team{}, fmt.Errorf("query GetTeam: %w", err)
	}
	return t, nil
}

// InsertEvaluation stores one evaluation row and returns its id. The team name
// is stored trimmed.
func (s *EvaluationRepository) InsertEvaluation(ctx context.Context, e models.Evaluation) (int64, error) {
	const query = `
		INSERT INTO evaluations (team_id, team_name, score, interview_date, reason, priority)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query, e.TeamID, strings.TrimSpace(e.TeamName), e.Score, e.InterviewDate, e.Reason, e.Priority)
	if err != nil {
		return 0, fmt.Errorf("exec InsertEvaluation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("InsertEvaluation last id: %w", err)
	}
	return id, nil
}

// UpsertTeam inserts or replaces the lifecycle flags of a team keyed by name.
func (s *EvaluationRepository) UpsertTeam(ctx context.Context, t models.Team) error {
	const query = `
		INSERT INTO teams (name, is_terminated, is_suspended, suspension_end_date, suspension_reason,
			is_resigned, resignation_reason, is_on_leave)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			is_terminated = excluded.is_terminated,
			is_suspended = excluded.is_suspended,
			suspension_end_date = excluded.suspension_end_date,
			suspension_reason = excluded.suspension_reason,
			is_resigned = excluded.is_resigned,
			resignation_reason = excluded.resignation_reason,
			is_on_leave = excluded.is_on_leave
	`
	_, err := s.db.ExecContext(ctx, query, strings.TrimSpace(t.Name), t.IsTerminated, t.IsSuspended,
		t.SuspensionEndDate, t.SuspensionReason, t.IsResigned, t.ResignationReason, t.IsOnLeave)
	if err != nil {
		return fmt.Errorf("exec UpsertTeam: %w", err)
	}
	return nil
}
