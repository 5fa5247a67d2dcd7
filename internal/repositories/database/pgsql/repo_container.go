package pgsql

import (
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		RuleRepo:        newPgxRuleRepository(dbPool),
		DecisionRepo:    newPgxDecisionRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		ReviewQueueRepo: newPgxReviewQueueRepository(dbPool),
	}
}
