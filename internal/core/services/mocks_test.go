package services_test

import (
	"context"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.NormalizedTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizedTransaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransactionCategorization(ctx context.Context, transactionID string, patch domain.CategorizationPatch) error {
	args := m.Called(ctx, transactionID, patch)
	return args.Error(0)
}

// --- Mock DecisionRepository ---
type MockDecisionRepository struct {
	mock.Mock
}

func (m *MockDecisionRepository) AppendDecision(ctx context.Context, decision domain.Decision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

func (m *MockDecisionRepository) ListDecisionsByTransaction(ctx context.Context, transactionID string) ([]domain.Decision, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Decision), args.Error(1)
}

// --- Mock RuleRepository ---
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindRuleByPattern(ctx context.Context, orgID string, vendor string, mcc *string) (*domain.Rule, error) {
	args := m.Called(ctx, orgID, vendor, mcc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindCandidateRules(ctx context.Context, orgID string, vendor string, mcc *string) ([]domain.Rule, error) {
	args := m.Called(ctx, orgID, vendor, mcc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rule), args.Error(1)
}

func (m *MockRuleRepository) ListRulesByOrg(ctx context.Context, orgID string) ([]domain.Rule, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rule), args.Error(1)
}

func (m *MockRuleRepository) SaveRule(ctx context.Context, rule domain.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) UpdateRule(ctx context.Context, ruleID string, patch domain.RulePatch) error {
	args := m.Called(ctx, ruleID, patch)
	return args.Error(0)
}

func (m *MockRuleRepository) UpsertRule(ctx context.Context, rule domain.Rule, weightDelta int) (*domain.Rule, bool, error) {
	args := m.Called(ctx, rule, weightDelta)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Rule), args.Bool(1), args.Error(2)
}

// --- Mock CategoryDirectory ---
type MockCategoryDirectory struct {
	mock.Mock
}

func (m *MockCategoryDirectory) ResolveCategory(ctx context.Context, categoryID string, orgID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryDirectory) ListCategories(ctx context.Context, orgID string) ([]domain.Category, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryDirectory) SeedCategories(ctx context.Context, orgID *string, seeds []domain.CategorySeed) ([]domain.Category, error) {
	args := m.Called(ctx, orgID, seeds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// --- Mock GenerativeModel ---
type MockGenerativeModel struct {
	mock.Mock
}

func (m *MockGenerativeModel) Generate(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error) {
	args := m.Called(ctx, prompt, maxTokens, temperature)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
