package httpapi

import (
	"context"
	"time"

	"github.com/godilite/fieldops-server/internal/service"
	"github.com/godilite/fieldops-server/internal/trend"
)

type TrendService interface {
	GetWeeklyTrend(ctx context.Context, start, end time.Time) ([]trend.WeeklyTrend, error)
	GetTeamReports(ctx context.Context) ([]service.TeamReport, error)
	GetTeamReport(ctx context.Context, name string) (service.TeamReport, error)
	GetLeaderboards(ctx context.Context) ([]trend.Leaderboard, error)
	GetUnscheduled(ctx context.Context) ([]trend.Event, error)
	GetPriorityBreakdown(ctx context.Context) (service.PriorityBreakdown, error)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error
