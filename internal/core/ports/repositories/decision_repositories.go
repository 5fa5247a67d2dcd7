package repositories

import (
	"context"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// DecisionAppender appends decision audit rows. Rows are never updated or deleted.
type DecisionAppender interface {
	AppendDecision(ctx context.Context, decision domain.Decision) error
}

// DecisionReader reads the audit trail.
type DecisionReader interface {
	// ListDecisionsByTransaction returns all decisions of a transaction, oldest first.
	ListDecisionsByTransaction(ctx context.Context, transactionID string) ([]domain.Decision, error)
}

// DecisionRepositoryFacade combines all decision-related repository interfaces
type DecisionRepositoryFacade interface {
	DecisionAppender
	DecisionReader
}
