package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/core/services"
	"github.com/SscSPs/categorization_engine/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `categories:
  - key: cat_expenses
    name: Expenses
    tier: operating_expense
  - key: cat_meals
    name: Meals
    parent: cat_expenses
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	f, err := loadSeedFile(path)

	require.NoError(t, err)
	seeds := f.Categories
	require.Len(t, seeds, 2)
	assert.Equal(t, "cat_expenses", seeds[0].Key)
	require.NotNil(t, seeds[0].Tier)
	assert.Equal(t, domain.TierOperatingExpense, *seeds[0].Tier)
	assert.Equal(t, "cat_expenses", seeds[1].ParentKey)
	assert.Nil(t, seeds[1].Tier)
	assert.Empty(t, f.Rules)
}

func TestLoadSeedFileWithRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `rules:
  - mcc: "5812"
    category: cat_meals
  - vendor: Delta Air Lines
    mcc: "3058"
    category: cat_travel
    weight: 3
    description: airline
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	f, err := loadSeedFile(path)

	require.NoError(t, err)
	assert.Empty(t, f.Categories)
	require.Len(t, f.Rules, 2)
	assert.Equal(t, domain.RuleSeed{MCC: "5812", Category: "cat_meals"}, f.Rules[0])
	assert.Equal(t, "Delta Air Lines", f.Rules[1].Vendor)
	assert.Equal(t, 3, f.Rules[1].Weight)
	require.NotNil(t, f.Rules[1].Description)
	assert.Equal(t, "airline", *f.Rules[1].Description)
}

func TestLoadSeedFileRejectsEmptyAndMissing(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("categories: []\nrules: []\n"), 0o600))

	_, err := loadSeedFile(empty)
	assert.Error(t, err)

	_, err = loadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplySeedFileGlobalRulesFeedRuleMatcher(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Provider()
	directory := services.NewCategoryDirectoryService(repos.CategoryRepo)
	rules := services.NewRuleLearnerService(repos.RuleRepo, directory)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	f := &seedFile{
		Categories: []domain.CategorySeed{
			{Key: "cat_expenses", Name: "Expenses"},
			{Key: "cat_meals", Name: "Meals", ParentKey: "cat_expenses"},
		},
		Rules: []domain.RuleSeed{{MCC: "5812", Category: "cat_meals"}},
	}
	require.NoError(t, applySeedFile(ctx, logger, directory, rules, f, ""))

	mcc := "5812"
	txn := domain.NormalizedTransaction{
		TransactionID: "txn-1",
		OrgID:         "org-1",
		Date:          time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		AmountMinor:   -1250,
		CurrencyCode:  "USD",
		Description:   "CORNER TRATTORIA",
		MCC:           &mcc,
	}
	result, err := services.NewRuleMatcherService(repos.RuleRepo).Match(ctx, domain.OrgContext{OrgID: "org-1"}, txn)

	require.NoError(t, err)
	require.NotNil(t, result.CategoryID)
	assert.Equal(t, "cat_meals", *result.CategoryID)
	assert.Equal(t, "mcc", result.Attributes["match"])
	assert.Equal(t, "global", result.Attributes["rule_scope"])
}

func TestApplySeedFileOrgRulesUseSeededCategoryIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Provider()
	directory := services.NewCategoryDirectoryService(repos.CategoryRepo)
	rules := services.NewRuleLearnerService(repos.RuleRepo, directory)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	f := &seedFile{
		Categories: []domain.CategorySeed{
			{Key: "cat_travel", Name: "Travel", ParentKey: "cat_expenses"},
			{Key: "cat_expenses", Name: "Expenses"},
		},
		Rules: []domain.RuleSeed{{Vendor: "uber", Category: "cat_travel"}},
	}
	require.NoError(t, applySeedFile(ctx, logger, directory, rules, f, "org-1"))

	categories, err := directory.ListCategories(ctx, "org-1")
	require.NoError(t, err)
	travelID := ""
	for _, c := range categories {
		if c.Name == "Travel" {
			travelID = c.CategoryID
		}
	}
	require.NotEmpty(t, travelID)
	assert.NotEqual(t, "cat_travel", travelID, "organization categories get generated ids")

	rule, err := store.FindRuleByPattern(ctx, "org-1", "UBER", nil)
	require.NoError(t, err)
	assert.Equal(t, travelID, rule.CategoryID)
}

func TestResolveRuleCategoriesPassesThroughIDs(t *testing.T) {
	ids := map[string]string{"cat_meals": "generated-1"}
	in := []domain.RuleSeed{{MCC: "5812", Category: " cat_meals "}, {MCC: "4111", Category: "cat_existing"}}

	out := resolveRuleCategories(in, ids)

	assert.Equal(t, "generated-1", out[0].Category)
	assert.Equal(t, "cat_existing", out[1].Category)
	assert.Equal(t, " cat_meals ", in[0].Category, "input is not modified")
}
