package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/fieldops-server/internal/service"
	"github.com/godilite/fieldops-server/internal/trend"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type CacheKeyType string

const (
	cacheKeyWeeklyTrend  CacheKeyType = "grpc:weekly_trend"
	cacheKeyTeamReports  CacheKeyType = "grpc:team_reports"
	cacheKeyTeamReport   CacheKeyType = "grpc:team_report"
	cacheKeyLeaderboards CacheKeyType = "grpc:leaderboards"
	cacheKeyPriorities   CacheKeyType = "grpc:priority_breakdown"
)

type GRPCHandlers struct {
	trends   TrendService
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

var _ TrendServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(trends TrendService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if trends == nil {
		panic("nil TrendService provided to NewGRPCHandlers")
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandlers{
		trends:   trends,
		cache:    cache,
		logger:   logger.Named("grpc-handler"),
		cacheTTL: ttl,
	}
}

func (s *GRPCHandlers) parseRange(req *structpb.Struct) (start, end time.Time, err error) {
	if start, err = dateField(req, "start_date"); err != nil {
		return start, end, status.Error(codes.InvalidArgument, err.Error())
	}
	if end, err = dateField(req, "end_date"); err != nil {
		return start, end, status.Error(codes.InvalidArgument, err.Error())
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, status.Error(codes.InvalidArgument, "end date must be after start date")
	}
	return start, end, nil
}

// normalizeKey builds a day-granular cache key. Open bounds render as "-".
func normalizeKey(prefix CacheKeyType, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s", prefix, keyDate(start), keyDate(end))
}

func keyDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Truncate(24 * time.Hour).Format("2006-01-02")
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrNoEvaluations):
		s.logger.Info("no evaluations found", zap.String("op", op))
		return status.Error(codes.NotFound, "no evaluations found for the given period")
	case errors.Is(err, service.ErrTeamNotFound):
		s.logger.Info("team not found", zap.String("op", op))
		return status.Error(codes.NotFound, "team not found")
	case errors.Is(err, service.ErrInvalidRange):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) respond(op string, payload any) (*structpb.Struct, error) {
	out, err := toStruct(payload)
	if err != nil {
		s.logger.Error("response encoding failed", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: encode response", op)
	}
	return out, nil
}

func (s *GRPCHandlers) GetWeeklyTrend(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start, end, err := s.parseRange(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyWeeklyTrend, start, end)

	weeks, err := FindAndCache(ctx, s.cache, &s.sfGroup, cacheKey, s.cacheTTL, s.logger, func(fetchCtx context.Context) ([]trend.WeeklyTrend, error) {
		return s.trends.GetWeeklyTrend(fetchCtx, start, end)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetWeeklyTrend", err)
	}

	return s.respond("GetWeeklyTrend", map[string]any{"weeks": weeks})
}

func (s *GRPCHandlers) GetTeamReports(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	reports, err := FindAndCache(ctx, s.cache, &s.sfGroup, string(cacheKeyTeamReports), s.cacheTTL, s.logger, func(fetchCtx context.Context) ([]service.TeamReport, error) {
		return s.trends.GetTeamReports(fetchCtx)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetTeamReports", err)
	}

	return s.respond("GetTeamReports", map[string]any{"teams": reports})
}

func (s *GRPCHandlers) GetTeamReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := stringField(req, "team_name")
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "team_name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	cacheKey := fmt.Sprintf("%s:%s", cacheKeyTeamReport, name)

	report, err := FindAndCache(ctx, s.cache, &s.sfGroup, cacheKey, s.cacheTTL, s.logger, func(fetchCtx context.Context) (service.TeamReport, error) {
		return s.trends.GetTeamReport(fetchCtx, name)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetTeamReport", err)
	}

	return s.respond("GetTeamReport", report)
}

func (s *GRPCHandlers) GetLeaderboards(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	boards, err := FindAndCache(ctx, s.cache, &s.sfGroup, string(cacheKeyLeaderboards), s.cacheTTL, s.logger, func(fetchCtx context.Context) ([]trend.Leaderboard, error) {
		return s.trends.GetLeaderboards(fetchCtx)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetLeaderboards", err)
	}

	return s.respond("GetLeaderboards", map[string]any{"weeks": boards})
}

func (s *GRPCHandlers) GetPriorityBreakdown(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	breakdown, err := FindAndCache(ctx, s.cache, &s.sfGroup, string(cacheKeyPriorities), s.cacheTTL, s.logger, func(fetchCtx context.Context) (service.PriorityBreakdown, error) {
		return s.trends.GetPriorityBreakdown(fetchCtx)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetPriorityBreakdown", err)
	}

	return s.respond("GetPriorityBreakdown", breakdown)
}
