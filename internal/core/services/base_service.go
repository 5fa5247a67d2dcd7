package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	now   func() time.Time
	newID func() string
}

func newBaseService() BaseService {
	return BaseService{now: time.Now, newID: uuid.NewString}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
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

// LogWarn logs a degraded-but-handled condition
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RequireOrg rejects calls made without an organization context.
func (s *BaseService) RequireOrg(org domain.OrgContext) error {
	if org.OrgID == "" {
		return fmt.Errorf("%w: organization context is required", apperrors.ErrValidation)
	}
	return nil
}

// AuthorizeOrg checks that a resource owned by ownerOrgID may be touched by the caller.
// It must run before any mutation.
func (s *BaseService) AuthorizeOrg(ctx context.Context, org domain.OrgContext, ownerOrgID, resource, resourceID string) error {
	if ownerOrgID == org.OrgID {
		return nil
	}
	s.GetLogger(ctx).Warn("Cross-organization access rejected",
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("org_id", org.OrgID),
		slog.String("user_id", org.UserID))
	return fmt.Errorf("%w: %s %s", apperrors.ErrForbidden, resource, resourceID)
}

func (s *BaseService) timestamp() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

func (s *BaseService) generateID() string {
	if s.newID == nil {
		return uuid.NewString()
	}
	return s.newID()
}
