package domain

import "time"

// DecisionSource tags which component produced a categorization.
type DecisionSource string

const (
	SourcePass1 DecisionSource = "pass1"
	SourceLLM   DecisionSource = "llm"
	SourceUser  DecisionSource = "user"
)

// Decision is an immutable audit record of one categorization attempt.
type Decision struct {
	DecisionID    string         `json:"decisionID"`
	TransactionID string         `json:"transactionID"`
	OrgID         string         `json:"orgID"`
	Source        DecisionSource `json:"source"`
	CategoryID    *string        `json:"categoryID,omitempty"`
	Confidence    float64        `json:"confidence"`
	Rationale     []string       `json:"rationale"`
	Attributes    map[string]any `json:"attributes,omitempty"`
	AutoApplied   bool           `json:"autoApplied"`
	DecidedBy     string         `json:"decidedBy"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// CategorizationResult is the output shape shared by Pass1 and Pass2.
type CategorizationResult struct {
	CategoryID *string        `json:"categoryID,omitempty"`
	Confidence float64        `json:"confidence"`
	Rationale  []string       `json:"rationale"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// HasCategory reports whether the result proposes a category.
func (r CategorizationResult) HasCategory() bool {
	return r.CategoryID != nil && *r.CategoryID != ""
}

// DecisionItem is one entry of a batch decision application.
type DecisionItem struct {
	TransactionID string
	Result        CategorizationResult
	Source        DecisionSource
}

// BatchItemFailure describes a batch item that could not be processed.
type BatchItemFailure struct {
	TransactionID string `json:"transactionID"`
	Error         string `json:"error"`
}

// BatchResult summarizes a batch operation. Successful + len(Failed) == Total.
type BatchResult struct {
	Total      int                `json:"total"`
	Successful int                `json:"successful"`
	Failed     []BatchItemFailure `json:"failed"`
}

// CategorizationOutcome reports the final decision taken for one transaction.
type CategorizationOutcome struct {
	TransactionID string               `json:"transactionID"`
	Source        DecisionSource       `json:"source"`
	Result        CategorizationResult `json:"result"`
	AutoApplied   bool                 `json:"autoApplied"`
}

// CorrectionResult reports the outcome of a human correction.
type CorrectionResult struct {
	TransactionID string           `json:"transactionID"`
	CategoryID    string           `json:"categoryID"`
	Rule          *LearnRuleResult `json:"rule,omitempty"`
	RuleError     string           `json:"ruleError,omitempty"`
}
