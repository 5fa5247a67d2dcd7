package repositories

import (
	"context"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// RuleReader defines read operations for categorization rules
type RuleReader interface {
	// FindRuleByPattern retrieves the rule of an organization for an exact (vendor, mcc) pattern.
	// An empty orgID selects global rules.
	// Returns apperrors.ErrNotFound if there is none.
	FindRuleByPattern(ctx context.Context, orgID string, vendor string, mcc *string) (*domain.Rule, error)

	// FindCandidateRules returns, in a single lookup, every rule that could match a
	// transaction: org-scoped and global rules for the vendor (any MCC) plus MCC-only rules for the MCC.
	FindCandidateRules(ctx context.Context, orgID string, vendor string, mcc *string) ([]domain.Rule, error)

	// ListRulesByOrg lists the rules owned by an organization, highest weight first.
	ListRulesByOrg(ctx context.Context, orgID string) ([]domain.Rule, error)
}

// RuleWriter defines write operations for categorization rules
type RuleWriter interface {
	// SaveRule inserts a new rule. Returns apperrors.ErrDuplicate if the pattern already exists.
	SaveRule(ctx context.Context, rule domain.Rule) error

	// UpdateRule applies a patch to an existing rule.
	UpdateRule(ctx context.Context, ruleID string, patch domain.RulePatch) error

	// UpsertRule atomically inserts the rule or, when a rule with the same
	// (org, vendor, mcc) exists, adds weightDelta to its weight and overwrites its category.
	// It returns the stored rule and whether it was newly created.
	UpsertRule(ctx context.Context, rule domain.Rule, weightDelta int) (*domain.Rule, bool, error)
}

// RuleRepositoryFacade combines all rule-related repository interfaces
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}
