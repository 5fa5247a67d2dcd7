package dto

import "github.com/SscSPs/categorization_engine/internal/core/domain"

// CategorizeBatchRequest lists stored transactions to run through both passes.
type CategorizeBatchRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1,max=500,dive,required"`
}

// CategorizationResultResponse mirrors domain.CategorizationResult.
type CategorizationResultResponse struct {
	CategoryID *string        `json:"categoryID,omitempty"`
	Confidence float64        `json:"confidence"`
	Rationale  []string       `json:"rationale"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// CategorizationOutcomeResponse is returned by the single categorize endpoint.
type CategorizationOutcomeResponse struct {
	TransactionID string                       `json:"transactionID"`
	Source        domain.DecisionSource        `json:"source"`
	AutoApplied   bool                         `json:"autoApplied"`
	NeedsReview   bool                         `json:"needsReview"`
	Result        CategorizationResultResponse `json:"result"`
}

// BatchResultResponse summarizes a batch call.
type BatchResultResponse struct {
	Total      int                       `json:"total"`
	Successful int                       `json:"successful"`
	Failed     []domain.BatchItemFailure `json:"failed"`
}

// CorrectionRequest carries the category chosen by a reviewer.
type CorrectionRequest struct {
	CategoryID string `json:"categoryID" binding:"required,max=128"`
}

// CorrectionResponse reports the applied correction and the reinforced rule.
type CorrectionResponse struct {
	TransactionID string             `json:"transactionID"`
	CategoryID    string             `json:"categoryID"`
	Rule          *LearnRuleResponse `json:"rule,omitempty"`
	RuleError     string             `json:"ruleError,omitempty"`
}

func toCategorizationResultResponse(r domain.CategorizationResult) CategorizationResultResponse {
	rationale := r.Rationale
	if rationale == nil {
		rationale = []string{}
	}
	return CategorizationResultResponse{
		CategoryID: r.CategoryID,
		Confidence: r.Confidence,
		Rationale:  rationale,
		Attributes: r.Attributes,
	}
}

// ToCategorizationOutcomeResponse converts a domain.CategorizationOutcome.
func ToCategorizationOutcomeResponse(o *domain.CategorizationOutcome) CategorizationOutcomeResponse {
	return CategorizationOutcomeResponse{
		TransactionID: o.TransactionID,
		Source:        o.Source,
		AutoApplied:   o.AutoApplied,
		NeedsReview:   !o.AutoApplied,
		Result:        toCategorizationResultResponse(o.Result),
	}
}

// ToBatchResultResponse converts a domain.BatchResult.
func ToBatchResultResponse(r domain.BatchResult) BatchResultResponse {
	failed := r.Failed
	if failed == nil {
		failed = []domain.BatchItemFailure{}
	}
	return BatchResultResponse{
		Total:      r.Total,
		Successful: r.Successful,
		Failed:     failed,
	}
}

// ToCorrectionResponse converts a domain.CorrectionResult.
func ToCorrectionResponse(r *domain.CorrectionResult) CorrectionResponse {
	resp := CorrectionResponse{
		TransactionID: r.TransactionID,
		CategoryID:    r.CategoryID,
		RuleError:     r.RuleError,
	}
	if r.Rule != nil {
		rule := ToLearnRuleResponse(r.Rule)
		resp.Rule = &rule
	}
	return resp
}
