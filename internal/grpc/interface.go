package grpc

import (
	"context"
	"time"

	"github.com/godilite/fieldops-server/internal/service"
	"github.com/godilite/fieldops-server/internal/trend"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type TrendService interface {
	GetWeeklyTrend(ctx context.Context, start, end time.Time) ([]trend.WeeklyTrend, error)
	GetTeamReports(ctx context.Context) ([]service.TeamReport, error)
	GetTeamReport(ctx context.Context, name string) (service.TeamReport, error)
	GetLeaderboards(ctx context.Context) ([]trend.Leaderboard, error)
	GetPriorityBreakdown(ctx context.Context) (service.PriorityBreakdown, error)
}
