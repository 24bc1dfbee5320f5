package mocks

import (
	"context"
	"time"

	"github.com/godilite/fieldops-server/internal/service"
	"github.com/godilite/fieldops-server/internal/trend"
)

type MockTrendService struct {
	GetWeeklyTrendFunc       func(ctx context.Context, start, end time.Time) ([]trend.WeeklyTrend, error)
	GetTeamReportsFunc       func(ctx context.Context) ([]service.TeamReport, error)
	GetTeamReportFunc        func(ctx context.Context, name string) (service.TeamReport, error)
	GetLeaderboardsFunc      func(ctx context.Context) ([]trend.Leaderboard, error)
	GetUnscheduledFunc       func(ctx context.Context) ([]trend.Event, error)
	GetPriorityBreakdownFunc func(ctx context.Context) (service.PriorityBreakdown, error)
}

func (m *MockTrendService) GetWeeklyTrend(ctx context.Context, start, end time.Time) ([]trend.WeeklyTrend, error) {
	if m.GetWeeklyTrendFunc != nil {
		return m.GetWeeklyTrendFunc(ctx, start, end)
	}
	return nil, nil
}

func (m *MockTrendService) GetTeamReports(ctx context.Context) ([]service.TeamReport, error) {
	if m.GetTeamReportsFunc != nil {
		return m.GetTeamReportsFunc(ctx)
	}
	return nil, nil
}

func (m *MockTrendService) GetTeamReport(ctx context.Context, name string) (service.TeamReport, error) {
	if m.GetTeamReportFunc != nil {
		return m.GetTeamReportFunc(ctx, name)
	}
	return service.TeamReport{}, nil
}

func (m *MockTrendService) GetLeaderboards(ctx context.Context) ([]trend.Leaderboard, error) {
	if m.GetLeaderboardsFunc != nil {
		return m.GetLeaderboardsFunc(ctx)
	}
	return nil, nil
}

func (m *MockTrendService) GetUnscheduled(ctx context.Context) ([]trend.Event, error) {
	if m.GetUnscheduledFunc != nil {
		return m.GetUnscheduledFunc(ctx)
	}
	return []trend.Event{}, nil
}

func (m *MockTrendService) GetPriorityBreakdown(ctx context.Context) (service.PriorityBreakdown, error) {
	if m.GetPriorityBreakdownFunc != nil {
		return m.GetPriorityBreakdownFunc(ctx)
	}
	return service.PriorityBreakdown{}, nil
}
