package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes the error response. Client errors echo the message,
// server errors only the public fallback.
func respondWithError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)
	switch {
	case status == http.StatusBadGateway:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Upstream model unavailable"})
	case status >= http.StatusInternalServerError:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
	default:
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

// orgContextOrAbort returns the caller's organization context, answering 401 when absent.
func orgContextOrAbort(c *gin.Context) (domain.OrgContext, bool) {
	org, ok := middleware.GetOrgContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Organization context not found in request")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.OrgContext{}, false
	}
	return org, true
}
