package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/godilite/fieldops-server/internal/repository"
	"github.com/godilite/fieldops-server/internal/repository/models"
	"github.com/godilite/fieldops-server/internal/trend"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	dbTimeout = 2 * time.Second
)

var (
	ErrNoEvaluations  = errors.New("no evaluations found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrStorageFailure = errors.New("storage failure")
	ErrInvalidRange   = errors.New("end date must not be before start date")
)

// TrendService loads evaluations and the team directory and runs the trend
// engine over them.
type TrendService struct {
	storage  EvaluationRepository
	calendar trend.Calendar
	logger   *zap.Logger
}

// NewTrendService creates a new TrendService instance.
func NewTrendService(storage EvaluationRepository, calendar trend.Calendar, logger *zap.Logger) *TrendService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &TrendService{
		storage:  storage,
		calendar: calendar,
		logger:   logger.Named("trend-service"),
	}
}

func (s *TrendService) Calendar() trend.Calendar { return s.calendar }

func (s *TrendService) loadEvents(ctx context.Context, filter models.EvaluationFilter) ([]trend.Event, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListEvaluations(dbCtx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	events := make([]trend.Event, 0, len(rows))
	badDates, badScores := 0, 0
	for _, row := range rows {
		e, issues := EventFromRow(row)
		if issues.BadDate {
			badDates++
			s.logger.Debug("evaluation date unparsable, treating as unscheduled",
				zap.Int64("evaluation_id", row.ID),
				zap.String("raw_date", row.InterviewDate.String))
		}
		if issues.BadScore {
			badScores++
			s.logger.Debug("evaluation score unparsable, treating as unscored",
				zap.Int64("evaluation_id", row.ID),
				zap.String("raw_score", row.Score.String))
		}
		events = append(events, e)
	}
	if badDates > 0 {
		s.logger.Warn("evaluations with unparsable dates", zap.Int("count", badDates))
	}
	if badScores > 0 {
		s.logger.Warn("evaluations with unparsable scores", zap.Int("count", badScores))
	}
	return events, nil
}

func (s *TrendService) loadTeams(ctx context.Context) ([]models.Team, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	teams, err := s.storage.ListTeams(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return teams, nil
}

// GetWeeklyTrend returns the weekly reason/category trend of scheduled
// evaluations dated within [start, end]. Zero bounds are open.
func (s *TrendService) GetWeeklyTrend(ctx context.Context, start, end time.Time) ([]trend.WeeklyTrend, error) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, ErrInvalidRange
	}

	events, err := s.loadEvents(ctx, models.EvaluationFilter{})
	if err != nil {
		return nil, err
	}

	inRange := make([]trend.Event, 0, len(events))
	for _, e := range events {
		if e.Scheduled() && withinDays(e.Date, start, end) {
			inRange = append(inRange, e)
		}
	}
	if len(inRange) == 0 {
		return nil, ErrNoEvaluations
	}

	weeks := trend.Weekly(inRange, s.calendar)
	s.logger.Info("computed weekly trend",
		zap.Int("events", len(inRange)),
		zap.Int("weeks", len(weeks)),
		zap.Time("start", start),
		zap.Time("end", end))
	return weeks, nil
}

// withinDays compares calendar days so an end bound covers its whole day.
func withinDays(t, start, end time.Time) bool {
	d := dayOf(t)
	if !start.IsZero() && d.Before(dayOf(start)) {
		return false
	}
	if !end.IsZero() && d.After(dayOf(end)) {
		return false
	}
	return true
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetTeamReports returns a report for every team in the directory or in the
// evaluations, ordered by team name.
func (s *TrendService) GetTeamReports(ctx context.Context) ([]TeamReport, error) {
	var (
		events []trend.Event
		teams  []models.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events, err = s.loadEvents(gctx, models.EvaluationFilter{})
		return err
	})
	g.Go(func() (err error) {
		teams, err = s.loadTeams(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byTeam := trend.GroupByTeam(events)
	directory := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		directory[strings.TrimSpace(t.Name)] = t
	}

	names := make([]string, 0, len(byTeam)+len(directory))
	for name := range directory {
		names = append(names, name)
	}
	for name := range byTeam {
		if _, ok := directory[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	reports := make([]TeamReport, 0, len(names))
	for _, name := range names {
		t, inDir := directory[name]
		reports = append(reports, buildReport(name, t, inDir, byTeam[name]))
	}

	s.logger.Info("computed team reports",
		zap.Int("teams", len(reports)),
		zap.Int("events", len(events)))
	return reports, nil
}

// GetTeamReport returns the report of a single team.
func (s *TrendService) GetTeamReport(ctx context.Context, name string) (TeamReport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TeamReport{}, ErrTeamNotFound
	}

	var (
		events []trend.Event
		team   models.Team
		inDir  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events, err = s.loadEvents(gctx, models.EvaluationFilter{TeamName: name})
		return err
	})
	g.Go(func() error {
		dbCtx, cancel := context.WithTimeout(gctx, dbTimeout)
		defer cancel()

		t, err := s.storage.GetTeam(dbCtx, name)
		switch {
		case err == nil:
			team, inDir = t, true
		case errors.Is(err, repository.ErrNotFound):
		default:
			return fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return TeamReport{}, err
	}

	if !inDir && len(events) == 0 {
		return TeamReport{}, ErrTeamNotFound
	}
	return buildReport(name, team, inDir, events), nil
}

func buildReport(name string, t models.Team, inDir bool, events []trend.Event) TeamReport {
	lc := trend.Lifecycle{TeamName: name}
	if inDir {
		lc = LifecycleFromTeam(t)
	}
	ledger := trend.BuildLedger(name, events)
	return TeamReport{
		TeamName:    name,
		Lifecycle:   lc,
		Ledger:      ledger,
		Status:      trend.ClassifyStatus(lc, ledger.TotalDetractors, ledger.TotalNeutrals),
		InDirectory: inDir,
	}
}

// GetLeaderboards returns the weekly as-of leaderboards.
func (s *TrendService) GetLeaderboards(ctx context.Context) ([]trend.Leaderboard, error) {
	events, err := s.loadEvents(ctx, models.EvaluationFilter{})
	if err != nil {
		return nil, err
	}

	boards := trend.Cumulative(events, s.calendar)
	if len(boards) == 0 {
		return nil, ErrNoEvaluations
	}
	return boards, nil
}

// GetUnscheduled returns evaluations that cannot be placed in any week.
func (s *TrendService) GetUnscheduled(ctx context.Context) ([]trend.Event, error) {
	events, err := s.loadEvents(ctx, models.EvaluationFilter{})
	if err != nil {
		return nil, err
	}

	_, unscheduled := trend.Partition(events)
	if unscheduled == nil {
		unscheduled = []trend.Event{}
	}
	return unscheduled, nil
}

// GetPriorityBreakdown counts evaluations per ticket priority, scored or not.
func (s *TrendService) GetPriorityBreakdown(ctx context.Context) (PriorityBreakdown, error) {
	events, err := s.loadEvents(ctx, models.EvaluationFilter{})
	if err != nil {
		return PriorityBreakdown{}, err
	}
	if len(events) == 0 {
		return PriorityBreakdown{}, ErrNoEvaluations
	}

	return PriorityBreakdown{
		Total:  len(events),
		Counts: trend.PriorityCounts(events),
	}, nil
}
