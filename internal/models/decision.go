package models

import "time"

// Decision is the row model of the categorization_decisions table.
type Decision struct {
	DecisionID    string    `db:"decision_id"`
	TransactionID string    `db:"transaction_id"`
	OrgID         string    `db:"org_id"`
	Source        string    `db:"source"`
	CategoryID    *string   `db:"category_id"`
	Confidence    float64   `db:"confidence"`
	Rationale     []byte    `db:"rationale"`  // JSONB; historically list, {"reasons": [...]}, or string
	Attributes    []byte    `db:"attributes"` // JSONB, nullable
	AutoApplied   bool      `db:"auto_applied"`
	DecidedBy     string    `db:"decided_by"`
	CreatedAt     time.Time `db:"created_at"`
}

// ReviewQueueRow is the joined projection scanned by the review queue query.
type ReviewQueueRow struct {
	TransactionID  string     `db:"transaction_id"`
	TxnDate        time.Time  `db:"txn_date"`
	AmountMinor    int64      `db:"amount_minor"`
	CurrencyCode   string     `db:"currency_code"`
	Description    string     `db:"description"`
	MerchantName   *string    `db:"merchant_name"`
	MCC            *string    `db:"mcc"`
	CategoryID     *string    `db:"category_id"`
	CategoryName   *string    `db:"category_name"`
	Confidence     *float64   `db:"confidence"`
	NeedsReview    bool       `db:"needs_review"`
	DecisionSource *string    `db:"decision_source"`
	Rationale      []byte     `db:"rationale"`
	DecidedAt      *time.Time `db:"decided_at"`
}
