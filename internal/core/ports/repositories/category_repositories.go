package repositories

import (
	"context"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// FindCategoryByID retrieves a category by its ID regardless of owner.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategoriesForOrg returns global categories and those owned by the organization.
	ListCategoriesForOrg(ctx context.Context, orgID string) ([]domain.Category, error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	// SaveCategory persists a single category.
	SaveCategory(ctx context.Context, category domain.Category) error

	// SaveCategories persists categories atomically, in slice order.
	SaveCategories(ctx context.Context, categories []domain.Category) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
