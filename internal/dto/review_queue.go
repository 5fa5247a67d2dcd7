package dto

import (
	"time"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/utils"
)

// ListReviewQueueParams defines query parameters for the review queue.
// Absent fields fall back to the default filter.
type ListReviewQueueParams struct {
	NeedsReviewOnly *bool      `form:"needsReviewOnly"`
	MinConfidence   *float64   `form:"minConfidence"`
	MaxConfidence   *float64   `form:"maxConfidence"`
	DateFrom        *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo          *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Search          string     `form:"search"`
	Cursor          string     `form:"cursor"`
	PageSize        int        `form:"pageSize"`
}

// ToReviewFilter builds the domain filter. DateTo covers the whole named day.
func (p ListReviewQueueParams) ToReviewFilter() domain.ReviewFilter {
	filter := domain.DefaultReviewFilter()
	if p.NeedsReviewOnly != nil {
		filter.NeedsReviewOnly = *p.NeedsReviewOnly
	}
	if p.MinConfidence != nil {
		filter.MinConfidence = *p.MinConfidence
	}
	if p.MaxConfidence != nil {
		filter.MaxConfidence = *p.MaxConfidence
	}
	if p.DateFrom != nil {
		from := p.DateFrom.UTC()
		filter.DateFrom = &from
	}
	if p.DateTo != nil {
		to := p.DateTo.UTC().Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &to
	}
	filter.Search = p.Search
	return filter
}

// ReviewQueueItemResponse is one queue entry. Amount is rendered in major units
// with the precision of the currency.
type ReviewQueueItemResponse struct {
	TransactionID  string                 `json:"transactionID"`
	Date           time.Time              `json:"date"`
	Amount         string                 `json:"amount"`
	AmountMinor    int64                  `json:"amountMinor"`
	CurrencyCode   string                 `json:"currencyCode"`
	Description    string                 `json:"description"`
	MerchantName   *string                `json:"merchantName,omitempty"`
	MCC            *string                `json:"mcc,omitempty"`
	CategoryID     *string                `json:"categoryID,omitempty"`
	CategoryName   *string                `json:"categoryName,omitempty"`
	Confidence     *float64               `json:"confidence"`
	NeedsReview    bool                   `json:"needsReview"`
	DecisionSource *domain.DecisionSource `json:"decisionSource,omitempty"`
	Rationale      []string               `json:"rationale"`
	DecidedAt      *time.Time             `json:"decidedAt,omitempty"`
}

// ReviewQueuePageResponse is one page of the review queue.
type ReviewQueuePageResponse struct {
	Items      []ReviewQueueItemResponse `json:"items"`
	NextCursor *string                   `json:"nextCursor,omitempty"`
	HasMore    bool                      `json:"hasMore"`
}

// ToReviewQueuePageResponse converts a domain.ReviewQueuePage.
func ToReviewQueuePageResponse(page *domain.ReviewQueuePage) ReviewQueuePageResponse {
	items := make([]ReviewQueueItemResponse, len(page.Items))
	for i, it := range page.Items {
		rationale := it.Rationale
		if rationale == nil {
			rationale = []string{}
		}
		items[i] = ReviewQueueItemResponse{
			TransactionID:  it.TransactionID,
			Date:           it.Date,
			Amount:         utils.FormatMinorUnits(it.AmountMinor, it.CurrencyCode),
			AmountMinor:    it.AmountMinor,
			CurrencyCode:   it.CurrencyCode,
			Description:    it.Description,
			MerchantName:   it.MerchantName,
			MCC:            it.MCC,
			CategoryID:     it.CategoryID,
			CategoryName:   it.CategoryName,
			Confidence:     it.Confidence,
			NeedsReview:    it.NeedsReview,
			DecisionSource: it.DecisionSource,
			Rationale:      rationale,
			DecidedAt:      it.DecidedAt,
		}
	}
	return ReviewQueuePageResponse{Items: items, NextCursor: page.NextCursor, HasMore: page.HasMore}
}
