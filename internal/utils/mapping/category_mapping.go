package mapping

import (
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/models"
)

// ToModelCategory converts a domain Category to a model Category
func ToModelCategory(d domain.Category) models.Category {
	var tier *string
	if d.Tier != nil {
		t := string(*d.Tier)
		tier = &t
	}
	return models.Category{
		CategoryID:  d.CategoryID,
		OrgID:       d.OrgID,
		ParentID:    d.ParentID,
		Name:        d.Name,
		Tier:        tier,
		AuditFields: models.AuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) domain.Category {
	var tier *domain.CategoryTier
	if m.Tier != nil {
		t := domain.CategoryTier(*m.Tier)
		tier = &t
	}
	return domain.Category{
		CategoryID:  m.CategoryID,
		OrgID:       m.OrgID,
		ParentID:    m.ParentID,
		Name:        m.Name,
		Tier:        tier,
		AuditFields: domain.AuditFields(m.AuditFields),
	}
}

// ToDomainCategorySlice converts a slice of model Categories
func ToDomainCategorySlice(ms []models.Category) []domain.Category {
	ds := make([]domain.Category, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCategory(m)
	}
	return ds
}
