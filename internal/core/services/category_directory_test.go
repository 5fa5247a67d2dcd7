package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/core/services"
	"github.com/SscSPs/categorization_engine/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCategoriesRootsFirst(t *testing.T) {
	store := memory.NewStore()
	dir := services.NewCategoryDirectoryService(store)
	opex := domain.TierOperatingExpense

	// Children listed before their roots still resolve because roots are placed first.
	created, err := dir.SeedCategories(context.Background(), nil, []domain.CategorySeed{
		{Key: "cat_meals", Name: "Meals", ParentKey: "cat_expenses", Tier: &opex},
		{Key: "cat_client_meals", Name: "Client meals", ParentKey: "cat_meals"},
		{Key: "cat_expenses", Name: "Expenses", Tier: &opex},
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, "cat_expenses", created[0].CategoryID)
	assert.Nil(t, created[0].ParentID)

	meals, err := dir.ResolveCategory(context.Background(), "cat_meals", "any-org")
	require.NoError(t, err)
	require.NotNil(t, meals.ParentID)
	assert.Equal(t, "cat_expenses", *meals.ParentID)
	assert.True(t, meals.IsGlobal())

	client, err := dir.ResolveCategory(context.Background(), "cat_client_meals", "any-org")
	require.NoError(t, err)
	assert.Equal(t, "cat_meals", *client.ParentID)
}

func TestSeedCategoriesRejectsUnresolvableParents(t *testing.T) {
	tests := []struct {
		name  string
		seeds []domain.CategorySeed
	}{
		{name: "unknown parent", seeds: []domain.CategorySeed{{Key: "a", Name: "A", ParentKey: "ghost"}}},
		{name: "two node cycle", seeds: []domain.CategorySeed{
			{Key: "a", Name: "A", ParentKey: "b"},
			{Key: "b", Name: "B", ParentKey: "a"},
		}},
		{name: "self parent", seeds: []domain.CategorySeed{{Key: "a", Name: "A", ParentKey: "a"}}},
		{name: "duplicate key", seeds: []domain.CategorySeed{{Key: "a", Name: "A"}, {Key: "a", Name: "A2"}}},
		{name: "missing name", seeds: []domain.CategorySeed{{Key: "a"}}},
		{name: "bad tier", seeds: []domain.CategorySeed{{Key: "a", Name: "A", Tier: tierPtr("assets")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			dir := services.NewCategoryDirectoryService(store)

			_, err := dir.SeedCategories(context.Background(), nil, tt.seeds)

			assert.ErrorIs(t, err, apperrors.ErrValidation)
			all, err := dir.ListCategories(context.Background(), "org-1")
			require.NoError(t, err)
			assert.Empty(t, all, "nothing is persisted on failure")
		})
	}
}

func TestCategoryVisibility(t *testing.T) {
	store := memory.NewStore()
	dir := services.NewCategoryDirectoryService(store)
	ctx := context.Background()
	org1 := "org-1"

	_, err := dir.SeedCategories(ctx, nil, []domain.CategorySeed{{Key: "cat_global", Name: "Global"}})
	require.NoError(t, err)
	private, err := dir.SeedCategories(ctx, &org1, []domain.CategorySeed{{Key: "private", Name: "Private"}})
	require.NoError(t, err)
	require.Len(t, private, 1)
	privateID := private[0].CategoryID
	assert.NotEqual(t, "private", privateID, "organization categories get generated ids")

	_, err = dir.ResolveCategory(ctx, privateID, "org-1")
	assert.NoError(t, err)
	_, err = dir.ResolveCategory(ctx, privateID, "org-2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = dir.ResolveCategory(ctx, "cat_global", "org-2")
	assert.NoError(t, err)
	_, err = dir.ResolveCategory(ctx, "", "org-2")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	visible, err := dir.ListCategories(ctx, "org-2")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "cat_global", visible[0].CategoryID)
}

func tierPtr(t domain.CategoryTier) *domain.CategoryTier { return &t }
