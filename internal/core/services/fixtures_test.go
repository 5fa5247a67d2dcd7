package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/core/services"
	"github.com/SscSPs/categorization_engine/internal/platform/config"
	"github.com/SscSPs/categorization_engine/internal/repositories/memory"
	"github.com/stretchr/testify/require"
)

// engineFixture wires every service over the in-memory store and a mocked model.
type engineFixture struct {
	store *memory.Store
	model *MockGenerativeModel
	svc   *portssvc.ServiceContainer
	org   domain.OrgContext
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	store := memory.NewStore()
	model := new(MockGenerativeModel)
	cfg := &config.Config{
		AutoApplyThreshold: 0.85,
		ModelMaxTokens:     256,
		ModelTemperature:   0.1,
		ModelTimeout:       time.Second,
		ModelRetryBackoff:  time.Millisecond,
	}
	f := &engineFixture{
		store: store,
		model: model,
		svc:   services.NewServiceContainer(cfg, store.Provider(), model),
		org:   domain.OrgContext{OrgID: "org-1", UserID: "user-1"},
	}

	_, err := f.svc.Categories.SeedCategories(context.Background(), nil, []domain.CategorySeed{
		{Key: "cat_expenses", Name: "Expenses"},
		{Key: "cat_food_beverage", Name: "Food & Beverage", ParentKey: "cat_expenses"},
		{Key: "cat_meals", Name: "Meals", ParentKey: "cat_expenses"},
		{Key: "cat_travel", Name: "Travel", ParentKey: "cat_expenses"},
	})
	require.NoError(t, err)
	return f
}

func (f *engineFixture) putTransaction(id string, date time.Time, description string, mcc *string) {
	f.store.PutTransaction(domain.NormalizedTransaction{
		TransactionID: id,
		OrgID:         f.org.OrgID,
		Date:          date,
		AmountMinor:   -450,
		CurrencyCode:  "USD",
		Description:   description,
		MCC:           mcc,
		Source:        "plaid",
	})
}

func (f *engineFixture) transaction(t *testing.T, id string) *domain.NormalizedTransaction {
	t.Helper()
	txn, err := f.store.FindTransactionByID(context.Background(), id)
	require.NoError(t, err)
	return txn
}

func (f *engineFixture) decisionCount(t *testing.T, id string) int {
	t.Helper()
	decisions, err := f.store.ListDecisionsByTransaction(context.Background(), id)
	require.NoError(t, err)
	return len(decisions)
}
