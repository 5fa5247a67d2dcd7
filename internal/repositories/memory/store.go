// Package memory provides a mutex-guarded, in-process implementation of every
// repository port. It backs tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
)

type ruleKey struct {
	orgID  string
	vendor string
	mcc    string
}

func keyOf(orgID *string, vendor string, mcc *string) ruleKey {
	return ruleKey{orgID: deref(orgID), vendor: vendor, mcc: deref(mcc)}
}

// Store holds all entities in maps guarded by a single RWMutex.
type Store struct {
	mu           sync.RWMutex
	transactions map[string]domain.NormalizedTransaction
	categories   map[string]domain.Category
	rules        map[string]domain.Rule
	ruleIndex    map[ruleKey]string
	decisions    map[string][]domain.Decision
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		transactions: make(map[string]domain.NormalizedTransaction),
		categories:   make(map[string]domain.Category),
		rules:        make(map[string]domain.Rule),
		ruleIndex:    make(map[ruleKey]string),
		decisions:    make(map[string][]domain.Decision),
	}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: s,
		RuleRepo:        s,
		DecisionRepo:    s,
		CategoryRepo:    s,
		ReviewQueueRepo: s,
	}
}

var (
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.RuleRepositoryFacade        = (*Store)(nil)
	_ portsrepo.DecisionRepositoryFacade    = (*Store)(nil)
	_ portsrepo.CategoryRepositoryFacade    = (*Store)(nil)
	_ portsrepo.ReviewQueueReader           = (*Store)(nil)
)

// --- Transactions ---

// PutTransaction inserts or replaces a transaction, standing in for the ingestion pipeline.
func (s *Store) PutTransaction(txn domain.NormalizedTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[txn.TransactionID] = txn
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.NormalizedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (s *Store) UpdateTransactionCategorization(ctx context.Context, transactionID string, patch domain.CategorizationPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	txn.CategoryID = cloneString(patch.CategoryID)
	txn.Confidence = cloneFloat(patch.Confidence)
	txn.NeedsReview = patch.NeedsReview
	txn.Reviewed = patch.Reviewed
	txn.LastUpdatedAt = patch.UpdatedAt
	txn.LastUpdatedBy = patch.UpdatedBy
	s.transactions[transactionID] = txn
	return nil
}

// --- Categories ---

func (s *Store) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCategoriesForOrg(ctx context.Context, orgID string) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.VisibleTo(orgID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out, nil
}

func (s *Store) SaveCategory(ctx context.Context, category domain.Category) error {
	return s.SaveCategories(ctx, []domain.Category{category})
}

// SaveCategories inserts all categories or none. Parents must exist or precede their children.
func (s *Store) SaveCategories(ctx context.Context, categories []domain.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, exists := s.categories[c.CategoryID]; exists {
			return fmt.Errorf("%w: category %s", apperrors.ErrDuplicate, c.CategoryID)
		}
		if _, exists := pending[c.CategoryID]; exists {
			return fmt.Errorf("%w: category %s", apperrors.ErrDuplicate, c.CategoryID)
		}
		if c.ParentID != nil {
			_, stored := s.categories[*c.ParentID]
			_, earlier := pending[*c.ParentID]
			if !stored && !earlier {
				return fmt.Errorf("%w: parent category %s does not exist", apperrors.ErrValidation, *c.ParentID)
			}
		}
		pending[c.CategoryID] = struct{}{}
	}
	for _, c := range categories {
		s.categories[c.CategoryID] = c
	}
	return nil
}

// --- Rules ---

func (s *Store) FindRuleByPattern(ctx context.Context, orgID string, vendor string, mcc *string) (*domain.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ruleIndex[ruleKey{orgID: orgID, vendor: vendor, mcc: deref(mcc)}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	r := s.rules[id]
	return &r, nil
}

func (s *Store) FindCandidateRules(ctx context.Context, orgID string, vendor string, mcc *string) ([]domain.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Rule{}
	for _, r := range s.rules {
		if r.OrgID != nil && *r.OrgID != orgID {
			continue
		}
		vendorHit := vendor != "" && r.Vendor == vendor
		mccOnlyHit := r.Vendor == "" && mcc != nil && r.MCC != nil && *r.MCC == *mcc
		if vendorHit || mccOnlyHit {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out, nil
}

func (s *Store) ListRulesByOrg(ctx context.Context, orgID string) ([]domain.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Rule{}
	for _, r := range s.rules {
		if r.OrgID != nil && *r.OrgID == orgID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].RuleID < out[j].RuleID
	})
	return out, nil
}

func (s *Store) SaveRule(ctx context.Context, rule domain.Rule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := keyOf(rule.OrgID, rule.Vendor, rule.MCC)
	if _, exists := s.ruleIndex[key]; exists {
		return fmt.Errorf("%w: rule for vendor %q", apperrors.ErrDuplicate, rule.Vendor)
	}
	if _, exists := s.rules[rule.RuleID]; exists {
		return fmt.Errorf("%w: rule %s", apperrors.ErrDuplicate, rule.RuleID)
	}
	s.rules[rule.RuleID] = rule
	s.ruleIndex[key] = rule.RuleID
	return nil
}

func (s *Store) UpdateRule(ctx context.Context, ruleID string, patch domain.RulePatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[ruleID]
	if !ok {
		return apperrors.ErrNotFound
	}
	applyRulePatch(&r, patch)
	s.rules[ruleID] = r
	return nil
}

// UpsertRule performs the lookup and the write under one lock, so concurrent callers
// for the same pattern serialize into one insert followed by increments.
func (s *Store) UpsertRule(ctx context.Context, rule domain.Rule, weightDelta int) (*domain.Rule, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(rule.OrgID, rule.Vendor, rule.MCC)
	if id, exists := s.ruleIndex[key]; exists {
		existing := s.rules[id]
		categoryID := rule.CategoryID
		applyRulePatch(&existing, domain.RulePatch{
			CategoryID:  &categoryID,
			WeightDelta: weightDelta,
			Description: rule.Description,
			UpdatedBy:   rule.LastUpdatedBy,
		})
		existing.LastUpdatedAt = rule.LastUpdatedAt
		s.rules[id] = existing
		return &existing, false, nil
	}

	s.rules[rule.RuleID] = rule
	s.ruleIndex[key] = rule.RuleID
	stored := rule
	return &stored, true, nil
}

func applyRulePatch(r *domain.Rule, patch domain.RulePatch) {
	if patch.CategoryID != nil {
		r.CategoryID = *patch.CategoryID
	}
	r.Weight += patch.WeightDelta
	if patch.Description != nil {
		r.Description = cloneString(patch.Description)
	}
	if patch.UpdatedBy != "" {
		r.LastUpdatedBy = patch.UpdatedBy
	}
}

// --- Decisions ---

func (s *Store) AppendDecision(ctx context.Context, decision domain.Decision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[decision.TransactionID] = append(s.decisions[decision.TransactionID], decision)
	return nil
}

func (s *Store) ListDecisionsByTransaction(ctx context.Context, transactionID string) ([]domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Decision, len(s.decisions[transactionID]))
	copy(out, s.decisions[transactionID])
	return out, nil
}

// --- Review queue ---

func (s *Store) ListReviewQueue(ctx context.Context, orgID string, filter domain.ReviewFilter, after *domain.ReviewCursor, limit int) ([]domain.ReviewQueueItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	items := []domain.ReviewQueueItem{}
	for _, txn := range s.transactions {
		if txn.OrgID != orgID || !matchesFilter(txn, filter, search) {
			continue
		}
		item := s.projectLocked(txn)
		if after != nil && !AfterCursor(item, *after) {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return ReviewOrderLess(items[i], items[j]) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func matchesFilter(txn domain.NormalizedTransaction, filter domain.ReviewFilter, search string) bool {
	if filter.NeedsReviewOnly && !txn.NeedsReview {
		return false
	}
	if txn.Confidence != nil {
		if *txn.Confidence < filter.MinConfidence || *txn.Confidence > filter.MaxConfidence {
			return false
		}
	} else if filter.MinConfidence > 0 {
		return false
	}
	if filter.DateFrom != nil && txn.Date.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && txn.Date.After(*filter.DateTo) {
		return false
	}
	if search != "" {
		haystack := strings.ToLower(txn.Description)
		if txn.MerchantName != nil {
			haystack += " " + strings.ToLower(*txn.MerchantName)
		}
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	return true
}

func (s *Store) projectLocked(txn domain.NormalizedTransaction) domain.ReviewQueueItem {
	item := domain.ReviewQueueItem{
		TransactionID: txn.TransactionID,
		Date:          txn.Date,
		AmountMinor:   txn.AmountMinor,
		CurrencyCode:  txn.CurrencyCode,
		Description:   txn.Description,
		MerchantName:  txn.MerchantName,
		MCC:           txn.MCC,
		CategoryID:    cloneString(txn.CategoryID),
		Confidence:    cloneFloat(txn.Confidence),
		NeedsReview:   txn.NeedsReview,
		Rationale:     []string{},
	}
	if txn.CategoryID != nil {
		if c, ok := s.categories[*txn.CategoryID]; ok {
			name := c.Name
			item.CategoryName = &name
		}
	}
	if history := s.decisions[txn.TransactionID]; len(history) > 0 {
		latest := history[len(history)-1]
		source := latest.Source
		decidedAt := latest.CreatedAt
		item.DecisionSource = &source
		item.DecidedAt = &decidedAt
		for _, r := range latest.Rationale {
			if len(item.Rationale) == domain.MaxReviewRationale {
				break
			}
			if r = strings.TrimSpace(r); r != "" {
				item.Rationale = append(item.Rationale, r)
			}
		}
	}
	return item
}

// ReviewOrderLess orders review items by date DESC, confidence ASC with unknown
// confidence last, then transaction id ASC.
func ReviewOrderLess(a, b domain.ReviewQueueItem) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	switch {
	case a.Confidence != nil && b.Confidence == nil:
		return true
	case a.Confidence == nil && b.Confidence != nil:
		return false
	case a.Confidence != nil && b.Confidence != nil && *a.Confidence != *b.Confidence:
		return *a.Confidence < *b.Confidence
	}
	return a.TransactionID < b.TransactionID
}

// AfterCursor reports whether an item sorts strictly after the cursor position.
func AfterCursor(item domain.ReviewQueueItem, c domain.ReviewCursor) bool {
	return ReviewOrderLess(domain.ReviewQueueItem{
		Date:          c.Date,
		Confidence:    c.Confidence,
		TransactionID: c.TransactionID,
	}, item)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
