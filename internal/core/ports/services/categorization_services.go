package services

import (
	"context"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// RuleMatcherSvc is the deterministic first categorization pass.
type RuleMatcherSvc interface {
	// Match categorizes a transaction from stored rules. Identical input and rule set
	// always yield identical output.
	Match(ctx context.Context, org domain.OrgContext, txn domain.NormalizedTransaction) (domain.CategorizationResult, error)
}

// ModelScorerSvc is the generative-model fallback pass.
type ModelScorerSvc interface {
	// Score asks the generative model for a category, using hints from the first pass.
	// Returns an error wrapping apperrors.ErrExternalService when the model call fails;
	// unparseable model output yields a fail-closed result, not an error.
	Score(ctx context.Context, org domain.OrgContext, txn domain.NormalizedTransaction, hints []string) (domain.CategorizationResult, error)
}

// DecisionPolicySvc applies categorization results to transactions.
type DecisionPolicySvc interface {
	// ApplyDecision mutates the transaction according to the confidence threshold and
	// appends an audit row.
	ApplyDecision(ctx context.Context, org domain.OrgContext, transactionID string, result domain.CategorizationResult, source domain.DecisionSource) error

	// ApplyBatch applies each item independently; one failure never aborts the batch.
	ApplyBatch(ctx context.Context, org domain.OrgContext, items []domain.DecisionItem) domain.BatchResult

	// IsAutoApplicable reports whether a result clears the auto-apply threshold.
	IsAutoApplicable(result domain.CategorizationResult) bool
}

// DecisionReaderSvc exposes the decision audit trail.
type DecisionReaderSvc interface {
	ListDecisions(ctx context.Context, org domain.OrgContext, transactionID string) ([]domain.Decision, error)
}

// RuleLearnerSvc turns human corrections into reinforced rules.
type RuleLearnerSvc interface {
	LearnRule(ctx context.Context, org domain.OrgContext, req domain.LearnRuleRequest) (*domain.LearnRuleResult, error)
	ListRules(ctx context.Context, org domain.OrgContext) ([]domain.Rule, error)
	// SeedRules creates curated rules for an organization, or global rules when orgID
	// is nil. Re-seeding a pattern reassigns its category instead of duplicating it.
	SeedRules(ctx context.Context, orgID *string, seeds []domain.RuleSeed) (*domain.RuleSeedResult, error)
}

// ReviewQueueSvc reads the prioritized review queue.
type ReviewQueueSvc interface {
	// ListReviewQueue returns one page of the queue. cursor is the opaque token of a
	// previous page (empty for the first page); pageSize 0 selects the default.
	ListReviewQueue(ctx context.Context, org domain.OrgContext, filter domain.ReviewFilter, cursor string, pageSize int) (*domain.ReviewQueuePage, error)
}

// CategorizerSvc runs the two-pass pipeline for stored transactions.
type CategorizerSvc interface {
	CategorizeTransaction(ctx context.Context, org domain.OrgContext, transactionID string) (*domain.CategorizationOutcome, error)
	CategorizeBatch(ctx context.Context, org domain.OrgContext, transactionIDs []string) domain.BatchResult
}

// CorrectionSvc is the entry point for human category corrections.
type CorrectionSvc interface {
	CorrectCategory(ctx context.Context, org domain.OrgContext, transactionID string, categoryID string) (*domain.CorrectionResult, error)
}
