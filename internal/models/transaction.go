package models

import "time"

// Transaction is the row model of the transactions table.
type Transaction struct {
	TransactionID string    `db:"transaction_id"`
	OrgID         string    `db:"org_id"`
	TxnDate       time.Time `db:"txn_date"`
	AmountMinor   int64     `db:"amount_minor"`
	CurrencyCode  string    `db:"currency_code"`
	Description   string    `db:"description"`
	MerchantName  *string   `db:"merchant_name"` // Nullable
	MCC           *string   `db:"mcc"`           // Nullable
	Source        string    `db:"source"`
	RawPayload    []byte    `db:"raw_payload"` // JSONB, nullable
	CategoryID    *string   `db:"category_id"` // Nullable
	Confidence    *float64  `db:"confidence"`  // Nullable
	NeedsReview   bool      `db:"needs_review"`
	Reviewed      bool      `db:"reviewed"`
	AuditFields
}
