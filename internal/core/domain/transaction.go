package domain

import (
	"encoding/json"
	"time"
)

// NormalizedTransaction is the canonical transaction record produced by the upstream
// ingestion pipeline. The feed fields are read-only for this service; only the
// categorization state (CategoryID, Confidence, NeedsReview, Reviewed) is mutated.
type NormalizedTransaction struct {
	TransactionID string          `json:"transactionID"`
	OrgID         string          `json:"orgID"`
	Date          time.Time       `json:"date"`
	AmountMinor   int64           `json:"amountMinor"` // Signed, in minor units of CurrencyCode
	CurrencyCode  string          `json:"currencyCode"`
	Description   string          `json:"description"`
	MerchantName  *string         `json:"merchantName,omitempty"`
	MCC           *string         `json:"mcc,omitempty"`
	Source        string          `json:"source"` // Provenance tag, e.g. "plaid", "shopify"
	RawPayload    json.RawMessage `json:"rawPayload,omitempty"`

	CategoryID  *string  `json:"categoryID,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	NeedsReview bool     `json:"needsReview"`
	Reviewed    bool     `json:"reviewed"`
	AuditFields
}

// VendorText returns the text used to derive the vendor key: the merchant name when
// the feed supplied one, otherwise the free-text description.
func (t NormalizedTransaction) VendorText() string {
	if t.MerchantName != nil && *t.MerchantName != "" {
		return *t.MerchantName
	}
	return t.Description
}

// CategorizationPatch is the set of fields the decision engine writes back to a transaction.
type CategorizationPatch struct {
	CategoryID  *string
	Confidence  *float64
	NeedsReview bool
	Reviewed    bool
	UpdatedBy   string
	UpdatedAt   time.Time
}
