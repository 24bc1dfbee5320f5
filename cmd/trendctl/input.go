package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/godilite/fieldops-server/internal/repository"
	"github.com/godilite/fieldops-server/internal/repository/models"
)

// evaluationRecord is one element of an events file. Every field except
// team_name may be absent. score is kept raw so a malformed value only
// unscores its own record.
type evaluationRecord struct {
	TeamID        string          `json:"team_id"`
	TeamName      string          `json:"team_name"`
	Score         json.RawMessage `json:"score"`
	InterviewDate string          `json:"interview_date"`
	Reason        string          `json:"reason"`
	Priority      string          `json:"priority"`
}

type teamRecord struct {
	Name              string `json:"name"`
	IsTerminated      bool   `json:"is_terminated"`
	IsSuspended       bool   `json:"is_suspended"`
	SuspensionEndDate string `json:"suspension_end_date"`
	SuspensionReason  string `json:"suspension_reason"`
	IsResigned        bool   `json:"is_resigned"`
	ResignationReason string `json:"resignation_reason"`
	IsOnLeave         bool   `json:"is_on_leave"`
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func (r evaluationRecord) row(id int64) models.Evaluation {
	e := models.Evaluation{
		ID:            id,
		TeamID:        nullString(r.TeamID),
		TeamName:      r.TeamName,
		InterviewDate: nullString(r.InterviewDate),
		Reason:        nullString(r.Reason),
		Priority:      nullString(r.Priority),
	}
	if raw := strings.Trim(string(r.Score), `"`); raw != "" && raw != "null" {
		e.Score = sql.NullString{String: raw, Valid: true}
	}
	return e
}

func (r teamRecord) row(id int64) models.Team {
	return models.Team{
		ID:                id,
		Name:              strings.TrimSpace(r.Name),
		IsTerminated:      r.IsTerminated,
		IsSuspended:       r.IsSuspended,
		SuspensionEndDate: nullString(r.SuspensionEndDate),
		SuspensionReason:  nullString(r.SuspensionReason),
		IsResigned:        r.IsResigned,
		ResignationReason: nullString(r.ResignationReason),
		IsOnLeave:         r.IsOnLeave,
	}
}

func decodeFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// fileRepository serves evaluations and the team directory from JSON files so
// the CLI runs the same service code as the server.
type fileRepository struct {
	evaluations []models.Evaluation
	teams       []models.Team
}

func loadRepository(eventsPath, teamsPath string) (*fileRepository, error) {
	if eventsPath == "" {
		return nil, fmt.Errorf("--events is required")
	}

	var events []evaluationRecord
	if err := decodeFile(eventsPath, &events); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	repo := &fileRepository{evaluations: make([]models.Evaluation, 0, len(events))}
	for i, r := range events {
		repo.evaluations = append(repo.evaluations, r.row(int64(i+1)))
	}

	if teamsPath != "" {
		var teams []teamRecord
		if err := decodeFile(teamsPath, &teams); err != nil {
			return nil, fmt.Errorf("load teams: %w", err)
		}
		for i, r := range teams {
			repo.teams = append(repo.teams, r.row(int64(i+1)))
		}
	}
	return repo, nil
}

func (f *fileRepository) ListEvaluations(_ context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	name := strings.TrimSpace(filter.TeamName)
	if name == "" {
		return f.evaluations, nil
	}
	var out []models.Evaluation
	for _, e := range f.evaluations {
		if strings.TrimSpace(e.TeamName) == name {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fileRepository) ListTeams(context.Context) ([]models.Team, error) {
	return f.teams, nil
}

func (f *fileRepository) GetTeam(_ context.Context, name string) (models.Team, error) {
	name = strings.TrimSpace(name)
	for _, t := range f.teams {
		if t.Name == name {
			return t, nil
		}
	}
	return models.Team{}, repository.ErrNotFound
}
