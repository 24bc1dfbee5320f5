package mocks

import (
	"context"
	"errors"

	"github.com/godilite/fieldops-server/internal/repository/models"
)

// MockEvaluationRepository is a mock implementation of the EvaluationRepository
// interface for testing the service layer.
type MockEvaluationRepository struct {
	ListEvaluationsFunc func(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error)
	ListTeamsFunc       func(ctx context.Context) ([]models.Team, error)
	GetTeamFunc         func(ctx context.Context, name string) (models.Team, error)
}

// ListEvaluations implements the EvaluationRepository interface
func (m *MockEvaluationRepository) ListEvaluations(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	if m.ListEvaluationsFunc != nil {
		return m.ListEvaluationsFunc(ctx, filter)
	}
	return nil, errors.New("ListEvaluationsFunc not implemented")
}

// ListTeams implements the EvaluationRepository interface
func (m *MockEvaluationRepository) ListTeams(ctx context.Context) ([]models.Team, error) {
	if m.ListTeamsFunc != nil {
		return m.ListTeamsFunc(ctx)
	}
	return nil, errors.New("ListTeamsFunc not implemented")
}

// GetTeam implements the EvaluationRepository interface
func (m *MockEvaluationRepository) GetTeam(ctx context.Context, name string) (models.Team, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(ctx, name)
	}
	return models.Team{}, errors.New("GetTeamFunc not implemented")
}
