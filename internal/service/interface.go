package service

import (
	"context"

	"github.com/godilite/fieldops-server/internal/repository/models"
)

// EvaluationRepository is the storage the trend service reads from.
type EvaluationRepository interface {
	ListEvaluations(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, name string) (models.Team, error)
}
