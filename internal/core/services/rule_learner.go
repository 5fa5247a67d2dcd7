package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
)

type ruleLearnerService struct {
	BaseService
	ruleRepo   portsrepo.RuleRepositoryFacade
	categories portssvc.CategoryDirectorySvc
}

// NewRuleLearnerService creates the service that reinforces rules from corrections.
func NewRuleLearnerService(ruleRepo portsrepo.RuleRepositoryFacade, categories portssvc.CategoryDirectorySvc) portssvc.RuleLearnerSvc {
	return &ruleLearnerService{
		BaseService: newBaseService(),
		ruleRepo:    ruleRepo,
		categories:  categories,
	}
}

var _ portssvc.RuleLearnerSvc = (*ruleLearnerService)(nil)

func (s *ruleLearnerService) LearnRule(ctx context.Context, org domain.OrgContext, req domain.LearnRuleRequest) (*domain.LearnRuleResult, error) {
	if err := s.RequireOrg(org); err != nil {
		return nil, err
	}

	vendor := NormalizeVendor(req.Vendor)
	if vendor == "" {
		return nil, fmt.Errorf("%w: vendor %q is empty after normalization", apperrors.ErrValidation, req.Vendor)
	}
	delta := req.WeightDelta
	if delta == 0 {
		delta = 1
	}
	if delta < 0 {
		return nil, fmt.Errorf("%w: weight delta must be positive, got %d", apperrors.ErrValidation, req.WeightDelta)
	}
	categoryID := strings.TrimSpace(req.CategoryID)
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category id is required", apperrors.ErrValidation)
	}

	category, err := s.categories.ResolveCategory(ctx, categoryID, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category %s: %w", categoryID, err)
	}

	now := s.timestamp()
	orgID := org.OrgID
	rule := domain.Rule{
		RuleID:      s.generateID(),
		OrgID:       &orgID,
		Vendor:      vendor,
		MCC:         normalizeMCC(req.MCC),
		CategoryID:  category.CategoryID,
		Weight:      delta,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     org.Actor(),
			LastUpdatedAt: now,
			LastUpdatedBy: org.Actor(),
		},
	}

	stored, isNew, err := s.ruleRepo.UpsertRule(ctx, rule, delta)
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert rule", slog.String("vendor", vendor), slog.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to upsert rule: %w", err)
	}

	verb := "Updated"
	if isNew {
		verb = "Created"
	}
	result := &domain.LearnRuleResult{
		RuleID:  stored.RuleID,
		IsNew:   isNew,
		Weight:  stored.Weight,
		Message: fmt.Sprintf("%s rule: %s → %s", verb, vendor, category.Name),
	}
	s.LogInfo(ctx, "Rule learned",
		slog.String("rule_id", stored.RuleID),
		slog.Bool("is_new", isNew),
		slog.Int("weight", stored.Weight))
	return result, nil
}

func (s *ruleLearnerService) ListRules(ctx context.Context, org domain.OrgContext) ([]domain.Rule, error) {
	if err := s.RequireOrg(org); err != nil {
		return nil, err
	}
	rules, err := s.ruleRepo.ListRulesByOrg(ctx, org.OrgID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to list rules")
		}
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	if rules == nil {
		return []domain.Rule{}, nil
	}
	return rules, nil
}

type plannedSeed struct {
	vendor      string
	mcc         *string
	categoryID  string
	weight      int
	description *string
}

// SeedRules validates every seed before writing any, then creates missing patterns
// and reassigns the category of patterns that already exist.
func (s *ruleLearnerService) SeedRules(ctx context.Context, orgID *string, seeds []domain.RuleSeed) (*domain.RuleSeedResult, error) {
	result := &domain.RuleSeedResult{}
	if len(seeds) == 0 {
		return result, nil
	}
	owner := ""
	var ownerID *string
	if orgID != nil {
		owner = strings.TrimSpace(*orgID)
		if owner == "" {
			return nil, fmt.Errorf("%w: organization id is blank", apperrors.ErrValidation)
		}
		ownerID = &owner
	}

	planned := make([]plannedSeed, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for i, seed := range seeds {
		vendor := NormalizeVendor(seed.Vendor)
		mcc := normalizeMCC(&seed.MCC)
		if vendor == "" && mcc == nil {
			return nil, fmt.Errorf("%w: rule seed %d needs a vendor or an MCC", apperrors.ErrValidation, i)
		}
		if mcc != nil && !isMCC(*mcc) {
			return nil, fmt.Errorf("%w: rule seed %d has invalid MCC %q", apperrors.ErrValidation, i, *mcc)
		}
		if seed.Weight < 0 {
			return nil, fmt.Errorf("%w: rule seed %d has negative weight %d", apperrors.ErrValidation, i, seed.Weight)
		}
		pattern := vendor + "|"
		if mcc != nil {
			pattern += *mcc
		}
		if _, dup := seen[pattern]; dup {
			return nil, fmt.Errorf("%w: rule seed %d repeats pattern vendor %q", apperrors.ErrValidation, i, vendor)
		}
		seen[pattern] = struct{}{}

		category, err := s.categories.ResolveCategory(ctx, strings.TrimSpace(seed.Category), owner)
		if err != nil {
			return nil, fmt.Errorf("rule seed %d: failed to resolve category %q: %w", i, seed.Category, err)
		}
		weight := seed.Weight
		if weight == 0 {
			weight = 1
		}
		planned = append(planned, plannedSeed{
			vendor:      vendor,
			mcc:         mcc,
			categoryID:  category.CategoryID,
			weight:      weight,
			description: seed.Description,
		})
	}

	actor := "system"
	for _, p := range planned {
		existing, err := s.ruleRepo.FindRuleByPattern(ctx, owner, p.vendor, p.mcc)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			now := s.timestamp()
			rule := domain.Rule{
				RuleID:      s.generateID(),
				OrgID:       ownerID,
				Vendor:      p.vendor,
				MCC:         p.mcc,
				CategoryID:  p.categoryID,
				Weight:      p.weight,
				Description: p.description,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     actor,
					LastUpdatedAt: now,
					LastUpdatedBy: actor,
				},
			}
			if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
				s.LogError(ctx, err, "Failed to save seeded rule", slog.String("vendor", p.vendor))
				return nil, fmt.Errorf("failed to save seeded rule: %w", err)
			}
			result.Created++
		case err != nil:
			s.LogError(ctx, err, "Failed to look up seeded rule", slog.String("vendor", p.vendor))
			return nil, fmt.Errorf("failed to look up seeded rule: %w", err)
		case existing.CategoryID != p.categoryID:
			categoryID := p.categoryID
			patch := domain.RulePatch{CategoryID: &categoryID, Description: p.description, UpdatedBy: actor}
			if err := s.ruleRepo.UpdateRule(ctx, existing.RuleID, patch); err != nil {
				s.LogError(ctx, err, "Failed to update seeded rule", slog.String("rule_id", existing.RuleID))
				return nil, fmt.Errorf("failed to update seeded rule %s: %w", existing.RuleID, err)
			}
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	s.LogInfo(ctx, "Rules seeded",
		slog.String("org_id", owner),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("unchanged", result.Unchanged))
	return result, nil
}

func isMCC(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
