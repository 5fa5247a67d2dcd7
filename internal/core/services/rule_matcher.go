package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
)

// matchKind orders rule patterns by specificity; larger is more specific.
type matchKind int

const (
	matchNone matchKind = iota
	matchMCCOnly
	matchVendor
	matchVendorMCC
)

func (k matchKind) String() string {
	switch k {
	case matchVendorMCC:
		return "vendor+mcc"
	case matchVendor:
		return "vendor"
	case matchMCCOnly:
		return "mcc"
	default:
		return "none"
	}
}

// confidenceBand is expressed in basis points so results are exact and reproducible.
type confidenceBand struct {
	floor, ceiling, step int
}

const maxRuleConfidenceBP = 9500

var confidenceBands = map[matchKind]confidenceBand{
	matchVendorMCC: {floor: 8800, ceiling: 9500, step: 300},
	matchVendor:    {floor: 8000, ceiling: 8700, step: 300},
	matchMCCOnly:   {floor: 4500, ceiling: 5500, step: 200},
}

// ruleConfidence maps a match kind and rule weight to a confidence that grows with
// reinforcement but never leaves its band and never reaches 1.0.
func ruleConfidence(kind matchKind, weight int) float64 {
	band, ok := confidenceBands[kind]
	if !ok {
		return 0
	}
	extra := weight - 1
	if extra < 0 {
		extra = 0
	}
	bp := band.floor + extra*band.step
	if bp > band.ceiling || bp < band.floor {
		bp = band.ceiling
	}
	if bp > maxRuleConfidenceBP {
		bp = maxRuleConfidenceBP
	}
	return float64(bp) / 10000
}

type ruleCandidate struct {
	rule      domain.Rule
	kind      matchKind
	orgScoped bool
}

type ruleMatcherService struct {
	BaseService
	ruleRepo portsrepo.RuleReader
}

// NewRuleMatcherService creates the deterministic Pass1 categorizer.
func NewRuleMatcherService(ruleRepo portsrepo.RuleReader) portssvc.RuleMatcherSvc {
	return &ruleMatcherService{BaseService: newBaseService(), ruleRepo: ruleRepo}
}

var _ portssvc.RuleMatcherSvc = (*ruleMatcherService)(nil)

func (s *ruleMatcherService) Match(ctx context.Context, org domain.OrgContext, txn domain.NormalizedTransaction) (domain.CategorizationResult, error) {
	if err := s.RequireOrg(org); err != nil {
		return domain.CategorizationResult{}, err
	}
	if err := s.AuthorizeOrg(ctx, org, txn.OrgID, "transaction", txn.TransactionID); err != nil {
		return domain.CategorizationResult{}, err
	}

	vendor := NormalizeVendor(txn.VendorText())
	mcc := normalizeMCC(txn.MCC)

	var rules []domain.Rule
	if vendor != "" || mcc != nil {
		var err error
		rules, err = s.ruleRepo.FindCandidateRules(ctx, org.OrgID, vendor, mcc)
		if err != nil {
			s.LogError(ctx, err, "Failed to load candidate rules", slog.String("transaction_id", txn.TransactionID))
			return domain.CategorizationResult{}, fmt.Errorf("failed to load candidate rules: %w", err)
		}
	}

	best, ok := selectRule(rules, org.OrgID, vendor, mcc)
	if !ok {
		return noRuleResult(vendor, mcc), nil
	}

	categoryID := best.rule.CategoryID
	result := domain.CategorizationResult{
		CategoryID: &categoryID,
		Confidence: ruleConfidence(best.kind, best.rule.Weight),
		Rationale:  []string{describeRuleMatch(best)},
		Attributes: map[string]any{
			"rule_id":    best.rule.RuleID,
			"match":      best.kind.String(),
			"vendor":     vendor,
			"rule_scope": ruleScope(best),
		},
	}
	if mcc != nil {
		if group, ok := MCCGroupDescription(*mcc); ok {
			result.Rationale = append(result.Rationale, fmt.Sprintf("MCC %s: %s", *mcc, group))
		}
	}

	s.LogDebug(ctx, "Pass1 rule matched",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("rule_id", best.rule.RuleID),
		slog.Float64("confidence", result.Confidence))
	return result, nil
}

// selectRule picks the best applicable rule: most specific pattern, then org-scoped
// before global, then highest weight, then lowest rule id.
func selectRule(rules []domain.Rule, orgID, vendor string, mcc *string) (ruleCandidate, bool) {
	candidates := make([]ruleCandidate, 0, len(rules))
	for _, r := range rules {
		if r.OrgID != nil && *r.OrgID != orgID {
			continue
		}
		kind := classifyRule(r, vendor, mcc)
		if kind == matchNone {
			continue
		}
		candidates = append(candidates, ruleCandidate{rule: r, kind: kind, orgScoped: r.OrgID != nil})
	}
	if len(candidates) == 0 {
		return ruleCandidate{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.kind != b.kind {
			return a.kind > b.kind
		}
		if a.orgScoped != b.orgScoped {
			return a.orgScoped
		}
		if a.rule.Weight != b.rule.Weight {
			return a.rule.Weight > b.rule.Weight
		}
		return a.rule.RuleID < b.rule.RuleID
	})
	return candidates[0], true
}

func classifyRule(r domain.Rule, vendor string, mcc *string) matchKind {
	ruleMCC := normalizeMCC(r.MCC)
	mccEqual := ruleMCC != nil && mcc != nil && *ruleMCC == *mcc

	switch {
	case r.Vendor != "" && r.Vendor == vendor && ruleMCC == nil:
		return matchVendor
	case r.Vendor != "" && r.Vendor == vendor && mccEqual:
		return matchVendorMCC
	case r.Vendor == "" && mccEqual:
		return matchMCCOnly
	default:
		return matchNone
	}
}

func ruleScope(c ruleCandidate) string {
	if c.orgScoped {
		return "organization"
	}
	return "global"
}

func describeRuleMatch(c ruleCandidate) string {
	pattern := c.rule.Vendor
	switch c.kind {
	case matchVendorMCC:
		pattern = fmt.Sprintf("%s / MCC %s", c.rule.Vendor, *c.rule.MCC)
	case matchMCCOnly:
		pattern = fmt.Sprintf("MCC %s", *c.rule.MCC)
	}
	return fmt.Sprintf("matched %s %s rule %s (pattern %q, weight %d)",
		ruleScope(c), c.kind, c.rule.RuleID, pattern, c.rule.Weight)
}

func noRuleResult(vendor string, mcc *string) domain.CategorizationResult {
	reason := fmt.Sprintf("no rule matched vendor %q", vendor)
	if mcc != nil {
		reason = fmt.Sprintf("no rule matched vendor %q or MCC %s", vendor, *mcc)
	}
	rationale := []string{reason}
	if mcc != nil {
		if group, ok := MCCGroupDescription(*mcc); ok {
			rationale = append(rationale, fmt.Sprintf("MCC %s: %s", *mcc, group))
		}
	}
	return domain.CategorizationResult{Confidence: 0, Rationale: rationale}
}
