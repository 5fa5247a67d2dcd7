package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	"github.com/SscSPs/categorization_engine/internal/models"
	"github.com/SscSPs/categorization_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDecisionRepository persists the append-only decision audit trail.
type PgxDecisionRepository struct {
	BaseRepository
}

func newPgxDecisionRepository(pool *pgxpool.Pool) portsrepo.DecisionRepositoryFacade {
	return &PgxDecisionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DecisionRepositoryFacade = (*PgxDecisionRepository)(nil)

// AppendDecision inserts one decision row.
func (r *PgxDecisionRepository) AppendDecision(ctx context.Context, decision domain.Decision) error {
	m, err := mapping.ToModelDecision(decision)
	if err != nil {
		return fmt.Errorf("failed to encode decision %s: %w", decision.DecisionID, err)
	}
	query := `
		INSERT INTO categorization_decisions (decision_id, transaction_id, org_id, source, category_id,
			confidence, rationale, attributes, auto_applied, decided_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.DecisionID, m.TransactionID, m.OrgID, m.Source, m.CategoryID,
		m.Confidence, m.Rationale, m.Attributes, m.AutoApplied, m.DecidedBy, m.CreatedAt,
	)
	if err != nil {
		return translateWriteError(err, "append decision "+m.DecisionID)
	}
	return nil
}

// ListDecisionsByTransaction returns the audit trail of a transaction, oldest first.
func (r *PgxDecisionRepository) ListDecisionsByTransaction(ctx context.Context, transactionID string) ([]domain.Decision, error) {
	query := `
		SELECT decision_id, transaction_id, org_id, source, category_id, confidence,
		       rationale, attributes, auto_applied, decided_by, created_at
		FROM categorization_decisions
		WHERE transaction_id = $1
		ORDER BY created_at ASC, decision_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	decisions := []domain.Decision{}
	for rows.Next() {
		var m models.Decision
		if err := rows.Scan(
			&m.DecisionID, &m.TransactionID, &m.OrgID, &m.Source, &m.CategoryID, &m.Confidence,
			&m.Rationale, &m.Attributes, &m.AutoApplied, &m.DecidedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decision row: %w", err)
		}
		decisions = append(decisions, mapping.ToDomainDecision(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decision rows: %w", err)
	}
	return decisions, nil
}
