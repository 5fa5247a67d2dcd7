package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/utils/pagination"
	"github.com/go-playground/validator/v10"
)

type reviewQueueService struct {
	BaseService
	reader   portsrepo.ReviewQueueReader
	validate *validator.Validate
}

// NewReviewQueueService creates the review queue reader.
func NewReviewQueueService(reader portsrepo.ReviewQueueReader) portssvc.ReviewQueueSvc {
	return &reviewQueueService{
		BaseService: newBaseService(),
		reader:      reader,
		validate:    validator.New(),
	}
}

var _ portssvc.ReviewQueueSvc = (*reviewQueueService)(nil)

func (s *reviewQueueService) ListReviewQueue(ctx context.Context, org domain.OrgContext, filter domain.ReviewFilter, cursor string, pageSize int) (*domain.ReviewQueuePage, error) {
	if err := s.RequireOrg(org); err != nil {
		return nil, err
	}
	if pageSize == 0 {
		pageSize = domain.DefaultReviewPageSize
	}
	if pageSize < 1 || pageSize > domain.MaxReviewPageSize {
		return nil, fmt.Errorf("%w: page size must be between 1 and %d", apperrors.ErrValidation, domain.MaxReviewPageSize)
	}
	if err := s.validateFilter(filter); err != nil {
		return nil, err
	}
	filter.Search = strings.TrimSpace(filter.Search)

	var after *domain.ReviewCursor
	if cursor != "" {
		decoded, err := pagination.DecodeReviewCursor(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = &decoded
	}

	// One extra row tells us whether another page exists without a count query.
	items, err := s.reader.ListReviewQueue(ctx, org.OrgID, filter, after, pageSize+1)
	if err != nil {
		s.LogError(ctx, err, "Failed to read review queue", slog.Int("page_size", pageSize))
		return nil, fmt.Errorf("failed to read review queue: %w", err)
	}

	page := &domain.ReviewQueuePage{Items: items}
	if len(items) > pageSize {
		page.Items = items[:pageSize]
		page.HasMore = true
		last := page.Items[len(page.Items)-1]
		next := pagination.EncodeReviewCursor(last.Date, last.Confidence, last.TransactionID)
		page.NextCursor = &next
	}
	if page.Items == nil {
		page.Items = []domain.ReviewQueueItem{}
	}
	for i := range page.Items {
		if page.Items[i].Rationale == nil {
			page.Items[i].Rationale = []string{}
		}
		if len(page.Items[i].Rationale) > domain.MaxReviewRationale {
			page.Items[i].Rationale = page.Items[i].Rationale[:domain.MaxReviewRationale]
		}
	}
	return page, nil
}

func (s *reviewQueueService) validateFilter(filter domain.ReviewFilter) error {
	if err := s.validate.Struct(filter); err != nil {
		return fmt.Errorf("%w: invalid review filter: %v", apperrors.ErrValidation, err)
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return fmt.Errorf("%w: dateFrom must not be after dateTo", apperrors.ErrValidation)
	}
	return nil
}
