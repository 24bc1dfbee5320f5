package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/godilite/fieldops-server/internal/repository"
	"github.com/godilite/fieldops-server/internal/repository/models"
	"github.com/godilite/fieldops-server/internal/service/mocks"
	"github.com/godilite/fieldops-server/internal/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func row(team string, score int, date, reason string) models.Evaluation {
	r := models.Evaluation{TeamName: team}
	if score > 0 {
		r.Score = sql.NullString{String: strconv.Itoa(score), Valid: true}
	}
	if date != "" {
		r.InterviewDate = sql.NullString{String: date, Valid: true}
	}
	if reason != "" {
		r.Reason = sql.NullString{String: reason, Valid: true}
	}
	return r
}

func fixtureRows() []models.Evaluation {
	return []models.Evaluation{
		row("North", 3, "2025-01-06", "Late arrival"),
		row("North", 4, "2025-01-07", "Late arrival"),
		row("North", 5, "2025-01-13", "Rude staff"),
		row("South", 7, "2025-01-13", "Rude staff"),
		row("South", 10, "2025-01-20", ""),
		row("South", 2, "not a date", "Late arrival"),
	}
}

func newService(repo *mocks.MockEvaluationRepository) *TrendService {
	return NewTrendService(repo, trend.NewCalendar(trend.DefaultAnchor), zap.NewNop())
}

// TestNewTrendService tests the constructor
func TestNewTrendService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		repo := &mocks.MockEvaluationRepository{}
		svc := newService(repo)

		assert.NotNil(t, svc)
		assert.Equal(t, repo, svc.storage)
		assert.Equal(t, trend.DefaultAnchor, svc.Calendar().Anchor())
	})

	t.Run("nil storage panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewTrendService(nil, trend.NewCalendar(trend.DefaultAnchor), zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		svc := NewTrendService(&mocks.MockEvaluationRepository{}, trend.NewCalendar(trend.DefaultAnchor), nil)
		assert.NotNil(t, svc.logger)
	})
}

func TestGetWeeklyTrend(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MockEvaluationRepository{
		ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
			assert.Empty(t, f.TeamName)
			return fixtureRows(), nil
		},
	}
	svc := newService(repo)

	t.Run("unbounded", func(t *testing.T) {
		weeks, err := svc.GetWeeklyTrend(ctx, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, weeks, 3)

		assert.Equal(t, 2, weeks[0].Reasons["Late arrival"])
		assert.Nil(t, weeks[0].VsPrevious)
		assert.Equal(t, map[string]int{"Rude staff": 2}, weeks[1].VsPrevious)
		assert.Equal(t, trend.CategoryCounts{Promoter: 1}, weeks[2].Categories)
	})

	t.Run("end bound covers its whole day", func(t *testing.T) {
		start := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
		end := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

		weeks, err := svc.GetWeeklyTrend(ctx, start, end)
		require.NoError(t, err)
		require.Len(t, weeks, 2)
		assert.Equal(t, 1, weeks[0].TotalEvents)
		assert.Equal(t, 2, weeks[1].TotalEvents)
	})

	t.Run("nothing in range", func(t *testing.T) {
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.GetWeeklyTrend(ctx, start, start.AddDate(0, 1, 0))
		assert.ErrorIs(t, err, ErrNoEvaluations)
	})

	t.Run("inverted range", func(t *testing.T) {
		start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.GetWeeklyTrend(ctx, start, start.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("storage failure", func(t *testing.T) {
		failing := newService(&mocks.MockEvaluationRepository{
			ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
				return nil, errors.New("database connection failed")
			},
		})
		weeks, err := failing.GetWeeklyTrend(ctx, time.Time{}, time.Time{})
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "database connection failed")
		assert.Nil(t, weeks)
	})
}

func TestGetTeamReports(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MockEvaluationRepository{
		ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
			return fixtureRows(), nil
		},
		ListTeamsFunc: func(ctx context.Context) ([]models.Team, error) {
			return []models.Team{
				{Name: "Idle"},
				{Name: "South", IsTerminated: true},
			}, nil
		},
	}
	svc := newService(repo)

	reports, err := svc.GetTeamReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	t.Run("directory team without events", func(t *testing.T) {
		idle := reports[0]
		assert.Equal(t, "Idle", idle.TeamName)
		assert.True(t, idle.InDirectory)
		assert.Equal(t, 0, idle.Ledger.EquivalentDetractors)
		assert.Nil(t, idle.Ledger.FirstCrossing)
		assert.Equal(t, trend.StatusActive, idle.Status.Label)
	})

	t.Run("team only seen in evaluations", func(t *testing.T) {
		north := reports[1]
		assert.Equal(t, "North", north.TeamName)
		assert.False(t, north.InDirectory)
		assert.Equal(t, 3, north.Ledger.TotalDetractors)
		require.NotNil(t, north.Ledger.FirstCrossing)
		assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), north.Ledger.FirstCrossing.Date)
		assert.Equal(t, trend.StatusViolated, north.Status.Label)
	})

	t.Run("lifecycle flag wins over totals", func(t *testing.T) {
		south := reports[2]
		assert.Equal(t, trend.StatusTerminated, south.Status.Label)
		// the undated detractor still counts toward totals
		assert.Equal(t, 1, south.Ledger.TotalDetractors)
		assert.Equal(t, 1, south.Ledger.TotalNeutrals)
	})

	t.Run("team directory failure", func(t *testing.T) {
		failing := newService(&mocks.MockEvaluationRepository{
			ListEvaluationsFunc: repo.ListEvaluationsFunc,
			ListTeamsFunc: func(ctx context.Context) ([]models.Team, error) {
				return nil, errors.New("locked")
			},
		})
		_, err := failing.GetTeamReports(ctx)
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestGetTeamReport(t *testing.T) {
	ctx := context.Background()

	t.Run("found in directory and events", func(t *testing.T) {
		svc := newService(&mocks.MockEvaluationRepository{
			ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
				assert.Equal(t, "North", f.TeamName)
				return fixtureRows()[:2], nil
			},
			GetTeamFunc: func(ctx context.Context, name string) (models.Team, error) {
				return models.Team{Name: "North"}, nil
			},
		})

		report, err := svc.GetTeamReport(ctx, " North ")
		require.NoError(t, err)
		assert.True(t, report.InDirectory)
		assert.Equal(t, trend.StatusWarning, report.Status.Label)
	})

	t.Run("unknown team", func(t *testing.T) {
		svc := newService(&mocks.MockEvaluationRepository{
			ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
				return nil, nil
			},
			GetTeamFunc: func(ctx context.Context, name string) (models.Team, error) {
				return models.Team{}, repository.ErrNotFound
			},
		})

		_, err := svc.GetTeamReport(ctx, "Nobody")
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})

	t.Run("blank name", func(t *testing.T) {
		svc := newService(&mocks.MockEvaluationRepository{})
		_, err := svc.GetTeamReport(ctx, "  ")
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})

	t.Run("directory failure", func(t *testing.T) {
		svc := newService(&mocks.MockEvaluationRepository{
			ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
				return nil, nil
			},
			GetTeamFunc: func(ctx context.Context, name string) (models.Team, error) {
				return models.Team{}, errors.New("disk I/O error")
			},
		})

		_, err := svc.GetTeamReport(ctx, "North")
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "disk I/O error")
	})
}

func TestGetLeaderboards(t *testing.T) {
	ctx := context.Background()

	t.Run("weekly boards", func(t *testing.T) {
		svc := newService(&mocks.MockEvaluationRepository{
			ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
				return fixtureRows(), nil
			},
		})

		boards, err := svc.GetLeaderboards(ctx)
		require.NoError(t, err)
		require.Len(t, boards, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{boards[0].Week, boards[1].Week, boards[2].Week})
		require.Len(t, boards[1].Teams, 2)
		assert.Equal(t, "North", boards[1].Teams[0].TeamName)
	})

	t.Run("no scheduled events", func(t *testing.T) {
		svc := newService(&mocks.MockEvaluationRepository{
			ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
				return []models.Evaluation{row("North", 3, "", "")}, nil
			},
		})

		_, err := svc.GetLeaderboards(ctx)
		assert.ErrorIs(t, err, ErrNoEvaluations)
	})
}

func TestGetUnscheduledAndPriorities(t *testing.T) {
	ctx := context.Background()
	rows := fixtureRows()
	rows[0].Priority = sql.NullString{String: "High", Valid: true}
	rows = append(rows, models.Evaluation{TeamName: "South", Priority: sql.NullString{String: "Low", Valid: true}})

	svc := newService(&mocks.MockEvaluationRepository{
		ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
			return rows, nil
		},
	})

	unscheduled, err := svc.GetUnscheduled(ctx)
	require.NoError(t, err)
	require.Len(t, unscheduled, 2)
	assert.Equal(t, "Late arrival", unscheduled[0].Reason)

	breakdown, err := svc.GetPriorityBreakdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, breakdown.Total)
	assert.Equal(t, map[trend.Priority]int{trend.PriorityHigh: 1, trend.PriorityLow: 1}, breakdown.Counts)
}

func TestMalformedScoreDoesNotAbortAggregation(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.DebugLevel)

	rows := fixtureRows()
	rows = append(rows, models.Evaluation{
		ID:            99,
		TeamName:      "North",
		Score:         sql.NullString{String: "n/a", Valid: true},
		InterviewDate: sql.NullString{String: "2025-01-08", Valid: true},
	})
	svc := NewTrendService(&mocks.MockEvaluationRepository{
		ListEvaluationsFunc: func(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
			return rows, nil
		},
	}, trend.NewCalendar(trend.DefaultAnchor), zap.New(core))

	weeks, err := svc.GetWeeklyTrend(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, weeks)
	assert.Equal(t, 3, weeks[0].TotalEvents, "malformed row still lands in week 1")
	assert.Equal(t, trend.CategoryCounts{Detractor: 2}, weeks[0].Categories)

	reports, err := svc.GetTeamReports(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, reports)

	warn := logs.FilterMessage("evaluations with unparsable scores").All()
	require.NotEmpty(t, warn)
	assert.Equal(t, int64(1), warn[0].ContextMap()["count"])

	debug := logs.FilterMessage("evaluation score unparsable, treating as unscored").All()
	require.NotEmpty(t, debug)
	assert.Equal(t, "n/a", debug[0].ContextMap()["raw_score"])
	assert.Equal(t, int64(99), debug[0].ContextMap()["evaluation_id"])
}
