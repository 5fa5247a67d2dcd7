package dto

import "github.com/SscSPs/categorization_engine/internal/core/domain"

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID string               `json:"categoryID"`
	ParentID   *string              `json:"parentID,omitempty"`
	Name       string               `json:"name"`
	Tier       *domain.CategoryTier `json:"tier,omitempty"`
	Global     bool                 `json:"global"`
}

// ToListCategoriesResponse converts a slice of domain.Category.
func ToListCategoriesResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		res[i] = CategoryResponse{
			CategoryID: c.CategoryID,
			ParentID:   c.ParentID,
			Name:       c.Name,
			Tier:       c.Tier,
			Global:     c.IsGlobal(),
		}
	}
	return res
}
