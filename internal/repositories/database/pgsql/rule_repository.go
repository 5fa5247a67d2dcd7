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

// PgxRuleRepository implements the rule repository interfaces.
type PgxRuleRepository struct {
	BaseRepository
}

func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

const ruleColumns = `rule_id, org_id, vendor, mcc, category_id, weight, description,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRule(row pgx.Row, extra ...any) (models.Rule, error) {
	var m models.Rule
	dest := []any{
		&m.RuleID, &m.OrgID, &m.Vendor, &m.MCC, &m.CategoryID, &m.Weight, &m.Description,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	}
	err := row.Scan(append(dest, extra...)...)
	return m, err
}

func collectRules(rows pgx.Rows) ([]domain.Rule, error) {
	defer rows.Close()
	out := []models.Rule{}
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule rows: %w", err)
	}
	return mapping.ToDomainRuleSlice(out), nil
}

func mccKey(mcc *string) string {
	if mcc == nil {
		return ""
	}
	return *mcc
}

// FindRuleByPattern retrieves the rule for an exact (org, vendor, mcc) pattern.
func (r *PgxRuleRepository) FindRuleByPattern(ctx context.Context, orgID string, vendor string, mcc *string) (*domain.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM categorization_rules WHERE org_id = $1 AND vendor = $2 AND mcc = $3;`

	m, err := scanRule(r.Pool.QueryRow(ctx, query, orgID, vendor, mccKey(mcc)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rule for vendor %q: %w", vendor, err)
	}
	rule := mapping.ToDomainRule(m)
	return &rule, nil
}

// FindCandidateRules fetches org-scoped and global rules for the vendor together with
// MCC-only rules for the MCC in one round trip. Ranking happens in the matcher.
func (r *PgxRuleRepository) FindCandidateRules(ctx context.Context, orgID string, vendor string, mcc *string) ([]domain.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM categorization_rules
		WHERE org_id IN ($1, '')
		  AND (
		        ($2 <> '' AND vendor = $2)
		     OR (vendor = '' AND $3 <> '' AND mcc = $3)
		  )
		ORDER BY rule_id;
	`
	rows, err := r.Pool.Query(ctx, query, orgID, vendor, mccKey(mcc))
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate rules for vendor %q: %w", vendor, err)
	}
	return collectRules(rows)
}

// ListRulesByOrg lists the rules owned by an organization.
func (r *PgxRuleRepository) ListRulesByOrg(ctx context.Context, orgID string) ([]domain.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM categorization_rules WHERE org_id = $1 ORDER BY weight DESC, rule_id;`

	rows, err := r.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules for org %s: %w", orgID, err)
	}
	return collectRules(rows)
}

// SaveRule inserts a new rule.
func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.Rule) error {
	m := mapping.ToModelRule(rule)
	query := `
		INSERT INTO categorization_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RuleID, m.OrgID, m.Vendor, m.MCC, m.CategoryID, m.Weight, m.Description,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "save rule "+m.RuleID)
	}
	return nil
}

// UpdateRule applies a patch to an existing rule.
func (r *PgxRuleRepository) UpdateRule(ctx context.Context, ruleID string, patch domain.RulePatch) error {
	query := `
		UPDATE categorization_rules
		SET category_id = COALESCE($2, category_id),
		    weight = weight + $3,
		    description = COALESCE($4, description),
		    last_updated_at = NOW(),
		    last_updated_by = $5
		WHERE rule_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, ruleID, patch.CategoryID, patch.WeightDelta, patch.Description, patch.UpdatedBy)
	if err != nil {
		return translateWriteError(err, "update rule "+ruleID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: rule %s", apperrors.ErrNotFound, ruleID)
	}
	return nil
}

// UpsertRule relies on the (org_id, vendor, mcc) unique constraint so concurrent learners
// for one pattern serialize in the database. xmax is zero only on a freshly inserted row.
func (r *PgxRuleRepository) UpsertRule(ctx context.Context, rule domain.Rule, weightDelta int) (*domain.Rule, bool, error) {
	m := mapping.ToModelRule(rule)
	query := `
		INSERT INTO categorization_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (org_id, vendor, mcc) DO UPDATE
		SET weight = categorization_rules.weight + $12,
		    category_id = EXCLUDED.category_id,
		    description = COALESCE(EXCLUDED.description, categorization_rules.description),
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by
		RETURNING ` + ruleColumns + `, (xmax = 0) AS inserted;
	`
	var inserted bool
	stored, err := scanRule(r.Pool.QueryRow(ctx, query,
		m.RuleID, m.OrgID, m.Vendor, m.MCC, m.CategoryID, m.Weight, m.Description,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, weightDelta,
	), &inserted)
	if err != nil {
		return nil, false, translateWriteError(err, fmt.Sprintf("upsert rule for vendor %q", m.Vendor))
	}
	out := mapping.ToDomainRule(stored)
	return &out, inserted, nil
}
