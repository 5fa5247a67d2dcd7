package services

import (
	"context"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// CategoryDirectorySvc resolves category identifiers for an organization.
type CategoryDirectorySvc interface {
	// ResolveCategory returns the category if it exists and is visible to the organization
	// (global or owned by it); apperrors.ErrNotFound otherwise.
	ResolveCategory(ctx context.Context, categoryID string, orgID string) (*domain.Category, error)

	// ListCategories returns every category visible to the organization.
	ListCategories(ctx context.Context, orgID string) ([]domain.Category, error)

	// SeedCategories creates a category tree. A nil orgID seeds global categories.
	SeedCategories(ctx context.Context, orgID *string, seeds []domain.CategorySeed) ([]domain.Category, error)
}
