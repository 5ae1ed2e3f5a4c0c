package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock overrides time.Now; tests pin it for deterministic timestamps.
	Clock func() time.Time
	// IDGenerator overrides uuid.NewString.
	IDGenerator func() string
	// ReportCache is invalidated whenever balances or the chart of accounts change. Optional.
	ReportCache portsrepo.ReportCache
}

// ServiceOption is a functional option shared by all services
type ServiceOption func(*BaseService)

// WithClock sets the clock used for timestamps and default dates.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

// WithIDGenerator sets the generator used for new record ids.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(s *BaseService) {
		s.IDGenerator = gen
	}
}

// WithReportCache adds the report cache dependency
func WithReportCache(cache portsrepo.ReportCache) ServiceOption {
	return func(s *BaseService) {
		s.ReportCache = cache
	}
}

func (s *BaseService) apply(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}

// Now returns the current time from Clock, in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// NewID returns a fresh opaque identifier.
func (s *BaseService) NewID() string {
	if s.IDGenerator != nil {
		return s.IDGenerator()
	}
	return uuid.NewString()
}

// InvalidateReports drops cached reports. Failures are logged and otherwise ignored;
// the next read recomputes once the cache recovers.
func (s *BaseService) InvalidateReports(ctx context.Context) {
	if s.ReportCache == nil {
		return
	}
	if err := s.ReportCache.Invalidate(ctx); err != nil {
		s.LogError(ctx, err, "Failed to invalidate report cache")
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
