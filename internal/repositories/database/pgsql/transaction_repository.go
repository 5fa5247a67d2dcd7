package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	"github.com/SscSPs/categorization_engine/internal/models"
	"github.com/SscSPs/categorization_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTransactionRepository reads transactions written by the ingestion pipeline and
// updates only their categorization columns.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const selectTransactionColumns = `
	SELECT transaction_id, org_id, txn_date, amount_minor, currency_code, description,
	       merchant_name, mcc, source, raw_payload, category_id, confidence, needs_review, reviewed,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM transactions`

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.NormalizedTransaction, error) {
	query := selectTransactionColumns + ` WHERE transaction_id = $1;`

	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&m.TransactionID, &m.OrgID, &m.TxnDate, &m.AmountMinor, &m.CurrencyCode, &m.Description,
		&m.MerchantName, &m.MCC, &m.Source, &m.RawPayload, &m.CategoryID, &m.Confidence, &m.NeedsReview, &m.Reviewed,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// UpdateTransactionCategorization writes category, confidence and review flags.
func (r *PgxTransactionRepository) UpdateTransactionCategorization(ctx context.Context, transactionID string, patch domain.CategorizationPatch) error {
	query := `
		UPDATE transactions
		SET category_id = $2, confidence = $3, needs_review = $4, reviewed = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		transactionID, patch.CategoryID, patch.Confidence, patch.NeedsReview, patch.Reviewed,
		patch.UpdatedAt, patch.UpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "update categorization of transaction "+transactionID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}
