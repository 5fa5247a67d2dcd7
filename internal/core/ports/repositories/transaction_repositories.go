package repositories

import (
	"context"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its ID. Returns apperrors.ErrNotFound if absent.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.NormalizedTransaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// UpdateTransactionCategorization writes the categorization state of a transaction.
	UpdateTransactionCategorization(ctx context.Context, transactionID string, patch domain.CategorizationPatch) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
