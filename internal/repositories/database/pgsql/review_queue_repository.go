package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	"github.com/SscSPs/categorization_engine/internal/models"
	"github.com/SscSPs/categorization_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReviewQueueRepository serves the review queue projection with keyset pagination.
type PgxReviewQueueRepository struct {
	BaseRepository
}

func newPgxReviewQueueRepository(pool *pgxpool.Pool) portsrepo.ReviewQueueReader {
	return &PgxReviewQueueRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReviewQueueReader = (*PgxReviewQueueRepository)(nil)

const reviewQueueBaseQuery = `
	SELECT t.transaction_id, t.txn_date, t.amount_minor, t.currency_code, t.description,
	       t.merchant_name, t.mcc, t.category_id, c.name, t.confidence, t.needs_review,
	       d.source, d.rationale, d.created_at
	FROM transactions t
	LEFT JOIN categories c ON c.category_id = t.category_id
	LEFT JOIN LATERAL (
		SELECT cd.source, cd.rationale, cd.created_at
		FROM categorization_decisions cd
		WHERE cd.transaction_id = t.transaction_id
		ORDER BY cd.created_at DESC, cd.decision_id DESC
		LIMIT 1
	) d ON TRUE`

const reviewQueueOrderBy = ` ORDER BY t.txn_date DESC, t.confidence ASC NULLS LAST, t.transaction_id ASC`

// reviewQueryBuilder accumulates WHERE predicates and their positional arguments.
type reviewQueryBuilder struct {
	conditions []string
	args       []any
}

func (b *reviewQueryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *reviewQueryBuilder) where(condition string) {
	b.conditions = append(b.conditions, condition)
}

// escapeLike escapes LIKE metacharacters using the default backslash escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildReviewQueueQuery renders the SQL and arguments for one page.
// Unknown confidence sorts after every known value, so the cursor predicate
// treats NULL as the largest confidence.
func buildReviewQueueQuery(orgID string, filter domain.ReviewFilter, after *domain.ReviewCursor, limit int) (string, []any) {
	b := &reviewQueryBuilder{}
	b.where("t.org_id = " + b.arg(orgID))

	if filter.NeedsReviewOnly {
		b.where("t.needs_review")
	}

	minConf, maxConf := b.arg(filter.MinConfidence), b.arg(filter.MaxConfidence)
	confRange := fmt.Sprintf("t.confidence BETWEEN %s AND %s", minConf, maxConf)
	if filter.MinConfidence == 0 {
		b.where("(t.confidence IS NULL OR " + confRange + ")")
	} else {
		b.where(confRange)
	}

	if filter.DateFrom != nil {
		b.where("t.txn_date >= " + b.arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		b.where("t.txn_date <= " + b.arg(*filter.DateTo))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := b.arg("%" + escapeLike(search) + "%")
		b.where(fmt.Sprintf("(t.description ILIKE %s OR t.merchant_name ILIKE %s)", pattern, pattern))
	}

	if after != nil {
		date := b.arg(after.Date)
		id := b.arg(after.TransactionID)
		var sameDate string
		if after.Confidence != nil {
			conf := b.arg(*after.Confidence)
			sameDate = fmt.Sprintf(
				"t.confidence > %s OR t.confidence IS NULL OR (t.confidence = %s AND t.transaction_id > %s)",
				conf, conf, id)
		} else {
			sameDate = fmt.Sprintf("t.confidence IS NULL AND t.transaction_id > %s", id)
		}
		b.where(fmt.Sprintf("(t.txn_date < %s OR (t.txn_date = %s AND (%s)))", date, date, sameDate))
	}

	query := reviewQueueBaseQuery +
		" WHERE " + strings.Join(b.conditions, " AND ") +
		reviewQueueOrderBy +
		" LIMIT " + b.arg(limit)
	return query, b.args
}

// ListReviewQueue returns at most limit items strictly after the cursor.
func (r *PgxReviewQueueRepository) ListReviewQueue(ctx context.Context, orgID string, filter domain.ReviewFilter, after *domain.ReviewCursor, limit int) ([]domain.ReviewQueueItem, error) {
	query, args := buildReviewQueueQuery(orgID, filter, after, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query review queue for org %s: %w", orgID, err)
	}
	defer rows.Close()

	items := []domain.ReviewQueueItem{}
	for rows.Next() {
		var m models.ReviewQueueRow
		if err := rows.Scan(
			&m.TransactionID, &m.TxnDate, &m.AmountMinor, &m.CurrencyCode, &m.Description,
			&m.MerchantName, &m.MCC, &m.CategoryID, &m.CategoryName, &m.Confidence, &m.NeedsReview,
			&m.DecisionSource, &m.Rationale, &m.DecidedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review queue row: %w", err)
		}
		items = append(items, mapping.ToReviewQueueItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review queue rows: %w", err)
	}
	return items, nil
}
