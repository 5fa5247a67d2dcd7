package dto

import (
	"time"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// ApplyDecisionRequest is one externally produced categorization to apply.
type ApplyDecisionRequest struct {
	TransactionID string   `json:"transactionID" binding:"required"`
	CategoryID    *string  `json:"categoryID"`
	Confidence    *float64 `json:"confidence" binding:"required,gte=0,lte=1"`
	Rationale     []string `json:"rationale" binding:"max=20"`
	Source        string   `json:"source" binding:"required,oneof=pass1 llm user"`
}

// ApplyDecisionsBatchRequest applies several decisions independently.
type ApplyDecisionsBatchRequest struct {
	Items []ApplyDecisionRequest `json:"items" binding:"required,min=1,max=500,dive"`
}

// ToDecisionItems converts the request into domain batch items.
func (r ApplyDecisionsBatchRequest) ToDecisionItems() []domain.DecisionItem {
	items := make([]domain.DecisionItem, len(r.Items))
	for i, it := range r.Items {
		var confidence float64
		if it.Confidence != nil {
			confidence = *it.Confidence
		}
		items[i] = domain.DecisionItem{
			TransactionID: it.TransactionID,
			Source:        domain.DecisionSource(it.Source),
			Result: domain.CategorizationResult{
				CategoryID: it.CategoryID,
				Confidence: confidence,
				Rationale:  it.Rationale,
			},
		}
	}
	return items
}

// DecisionResponse is one row of a transaction's decision history.
type DecisionResponse struct {
	DecisionID  string                `json:"decisionID"`
	Source      domain.DecisionSource `json:"source"`
	CategoryID  *string               `json:"categoryID,omitempty"`
	Confidence  float64               `json:"confidence"`
	Rationale   []string              `json:"rationale"`
	Attributes  map[string]any        `json:"attributes,omitempty"`
	AutoApplied bool                  `json:"autoApplied"`
	DecidedBy   string                `json:"decidedBy"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// ListDecisionsResponse wraps a decision history.
type ListDecisionsResponse struct {
	TransactionID string             `json:"transactionID"`
	Decisions     []DecisionResponse `json:"decisions"`
}

// ToListDecisionsResponse converts a decision history, oldest first.
func ToListDecisionsResponse(transactionID string, decisions []domain.Decision) ListDecisionsResponse {
	out := make([]DecisionResponse, len(decisions))
	for i, d := range decisions {
		rationale := d.Rationale
		if rationale == nil {
			rationale = []string{}
		}
		out[i] = DecisionResponse{
			DecisionID:  d.DecisionID,
			Source:      d.Source,
			CategoryID:  d.CategoryID,
			Confidence:  d.Confidence,
			Rationale:   rationale,
			Attributes:  d.Attributes,
			AutoApplied: d.AutoApplied,
			DecidedBy:   d.DecidedBy,
			CreatedAt:   d.CreatedAt,
		}
	}
	return ListDecisionsResponse{TransactionID: transactionID, Decisions: out}
}
