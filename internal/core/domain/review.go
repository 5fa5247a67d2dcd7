package domain

import "time"

const (
	DefaultReviewPageSize = 100
	MaxReviewPageSize     = 1000
	MaxReviewRationale    = 3
)

// ReviewFilter narrows the review queue.
type ReviewFilter struct {
	NeedsReviewOnly bool       `validate:"-"`
	MinConfidence   float64    `validate:"gte=0,lte=1"`
	MaxConfidence   float64    `validate:"gte=0,lte=1,gtefield=MinConfidence"`
	DateFrom        *time.Time `validate:"-"`
	DateTo          *time.Time `validate:"-"`
	Search          string     `validate:"max=200"`
}

// DefaultReviewFilter returns the filter used when the caller supplies none.
func DefaultReviewFilter() ReviewFilter {
	return ReviewFilter{NeedsReviewOnly: true, MinConfidence: 0, MaxConfidence: 1}
}

// ReviewCursor is the decoded position of the last item of a page.
type ReviewCursor struct {
	Date          time.Time
	Confidence    *float64
	TransactionID string
}

// ReviewQueueItem is a read-only projection of a transaction awaiting attention.
type ReviewQueueItem struct {
	TransactionID  string          `json:"transactionID"`
	Date           time.Time       `json:"date"`
	AmountMinor    int64           `json:"amountMinor"`
	CurrencyCode   string          `json:"currencyCode"`
	Description    string          `json:"description"`
	MerchantName   *string         `json:"merchantName,omitempty"`
	MCC            *string         `json:"mcc,omitempty"`
	CategoryID     *string         `json:"categoryID,omitempty"`
	CategoryName   *string         `json:"categoryName,omitempty"`
	Confidence     *float64        `json:"confidence,omitempty"`
	NeedsReview    bool            `json:"needsReview"`
	DecisionSource *DecisionSource `json:"decisionSource,omitempty"`
	Rationale      []string        `json:"rationale"`
	DecidedAt      *time.Time      `json:"decidedAt,omitempty"`
}

// ReviewQueuePage is one page of review queue results.
type ReviewQueuePage struct {
	Items      []ReviewQueueItem `json:"items"`
	NextCursor *string           `json:"nextCursor,omitempty"`
	HasMore    bool              `json:"hasMore"`
}
