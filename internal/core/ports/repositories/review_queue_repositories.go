package repositories

import (
	"context"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// ReviewQueueReader is the queryable projection over transactions joined with their
// category and latest decision.
type ReviewQueueReader interface {
	// ListReviewQueue returns at most limit items of the organization matching the filter,
	// ordered by date DESC, confidence ASC (unknown last), transaction id ASC,
	// strictly after the cursor position when one is given.
	ListReviewQueue(ctx context.Context, orgID string, filter domain.ReviewFilter, after *domain.ReviewCursor, limit int) ([]domain.ReviewQueueItem, error)
}
