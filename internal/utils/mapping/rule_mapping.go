package mapping

import (
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/models"
)

// ToModelRule converts a domain Rule to a model Rule, folding absent org/MCC into ''.
func ToModelRule(d domain.Rule) models.Rule {
	return models.Rule{
		RuleID:      d.RuleID,
		OrgID:       derefOrEmpty(d.OrgID),
		Vendor:      d.Vendor,
		MCC:         derefOrEmpty(d.MCC),
		CategoryID:  d.CategoryID,
		Weight:      d.Weight,
		Description: d.Description,
		AuditFields: models.AuditFields(d.AuditFields),
	}
}

// ToDomainRule converts a model Rule to a domain Rule
func ToDomainRule(m models.Rule) domain.Rule {
	return domain.Rule{
		RuleID:      m.RuleID,
		OrgID:       emptyToNil(m.OrgID),
		Vendor:      m.Vendor,
		MCC:         emptyToNil(m.MCC),
		CategoryID:  m.CategoryID,
		Weight:      m.Weight,
		Description: m.Description,
		AuditFields: domain.AuditFields(m.AuditFields),
	}
}

// ToDomainRuleSlice converts a slice of model Rules
func ToDomainRuleSlice(ms []models.Rule) []domain.Rule {
	ds := make([]domain.Rule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRule(m)
	}
	return ds
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
