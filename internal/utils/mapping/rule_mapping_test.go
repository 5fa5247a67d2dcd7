package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestRuleMappingGlobalMCCOnly(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	mcc := "5812"
	rule := domain.Rule{
		RuleID:     "rule-1",
		MCC:        &mcc,
		CategoryID: "cat_meals",
		Weight:     1,
		AuditFields: domain.AuditFields{
			CreatedAt:     created,
			CreatedBy:     "system",
			LastUpdatedAt: created.Add(time.Hour),
			LastUpdatedBy: "user-1",
		},
	}

	m := ToModelRule(rule)
	assert.Equal(t, "", m.OrgID, "global rules are stored with an empty org id")
	assert.Equal(t, "", m.Vendor)
	assert.Equal(t, "5812", m.MCC)
	assert.Equal(t, created, m.CreatedAt)
	assert.Equal(t, "user-1", m.LastUpdatedBy)

	back := ToDomainRule(m)
	assert.Nil(t, back.OrgID)
	assert.Equal(t, rule, back)
}

func TestRuleMappingOrgVendorWithoutMCC(t *testing.T) {
	org := "org-1"
	m := ToModelRule(domain.Rule{RuleID: "rule-2", OrgID: &org, Vendor: "UBER", CategoryID: "cat_travel", Weight: 3})
	assert.Equal(t, "org-1", m.OrgID)
	assert.Equal(t, "", m.MCC)

	back := ToDomainRule(m)
	if assert.NotNil(t, back.OrgID) {
		assert.Equal(t, "org-1", *back.OrgID)
	}
	assert.Nil(t, back.MCC)
}
