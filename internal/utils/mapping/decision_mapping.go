package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/models"
)

// ToModelDecision converts a domain Decision to a model Decision.
// Rationale is always written in the canonical list shape.
func ToModelDecision(d domain.Decision) (models.Decision, error) {
	rationale := d.Rationale
	if rationale == nil {
		rationale = []string{}
	}
	rationaleJSON, err := json.Marshal(rationale)
	if err != nil {
		return models.Decision{}, fmt.Errorf("marshal rationale: %w", err)
	}
	var attributesJSON []byte
	if len(d.Attributes) > 0 {
		attributesJSON, err = json.Marshal(d.Attributes)
		if err != nil {
			return models.Decision{}, fmt.Errorf("marshal attributes: %w", err)
		}
	}
	return models.Decision{
		DecisionID:    d.DecisionID,
		TransactionID: d.TransactionID,
		OrgID:         d.OrgID,
		Source:        string(d.Source),
		CategoryID:    d.CategoryID,
		Confidence:    d.Confidence,
		Rationale:     rationaleJSON,
		Attributes:    attributesJSON,
		AutoApplied:   d.AutoApplied,
		DecidedBy:     d.DecidedBy,
		CreatedAt:     d.CreatedAt,
	}, nil
}

// ToDomainDecision converts a model Decision to a domain Decision.
// Unreadable attributes are dropped rather than failing the read.
func ToDomainDecision(m models.Decision) domain.Decision {
	var attributes map[string]any
	if len(m.Attributes) > 0 {
		if err := json.Unmarshal(m.Attributes, &attributes); err != nil {
			attributes = nil
		}
	}
	return domain.Decision{
		DecisionID:    m.DecisionID,
		TransactionID: m.TransactionID,
		OrgID:         m.OrgID,
		Source:        domain.DecisionSource(m.Source),
		CategoryID:    m.CategoryID,
		Confidence:    m.Confidence,
		Rationale:     CollapseRationale(decodeRationale(m.Rationale)),
		Attributes:    attributes,
		AutoApplied:   m.AutoApplied,
		DecidedBy:     m.DecidedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// ToReviewQueueItem converts a joined review queue row into its domain projection.
func ToReviewQueueItem(r models.ReviewQueueRow) domain.ReviewQueueItem {
	var source *domain.DecisionSource
	if r.DecisionSource != nil {
		s := domain.DecisionSource(*r.DecisionSource)
		source = &s
	}
	return domain.ReviewQueueItem{
		TransactionID:  r.TransactionID,
		Date:           r.TxnDate,
		AmountMinor:    r.AmountMinor,
		CurrencyCode:   r.CurrencyCode,
		Description:    r.Description,
		MerchantName:   r.MerchantName,
		MCC:            r.MCC,
		CategoryID:     r.CategoryID,
		CategoryName:   r.CategoryName,
		Confidence:     r.Confidence,
		NeedsReview:    r.NeedsReview,
		DecisionSource: source,
		Rationale:      NormalizeRationale(r.Rationale),
		DecidedAt:      r.DecidedAt,
	}
}
