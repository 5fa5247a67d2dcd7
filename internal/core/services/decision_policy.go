package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
)

// DefaultAutoApplyThreshold is the confidence at or above which a categorized result
// is applied without human review.
const DefaultAutoApplyThreshold = 0.85

// DecisionServiceOption configures the decision service.
type DecisionServiceOption func(*DecisionService)

// WithAutoApplyThreshold overrides DefaultAutoApplyThreshold.
func WithAutoApplyThreshold(threshold float64) DecisionServiceOption {
	return func(s *DecisionService) {
		if threshold > 0 && threshold <= 1 {
			s.threshold = threshold
		}
	}
}

// DecisionService implements the decision policy and exposes the audit trail.
type DecisionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	decisionRepo portsrepo.DecisionRepositoryFacade
	categories   portssvc.CategoryDirectorySvc
	threshold    float64
}

// NewDecisionService creates the decision policy engine.
func NewDecisionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	decisionRepo portsrepo.DecisionRepositoryFacade,
	categories portssvc.CategoryDirectorySvc,
	options ...DecisionServiceOption,
) *DecisionService {
	s := &DecisionService{
		BaseService:  newBaseService(),
		txnRepo:      txnRepo,
		decisionRepo: decisionRepo,
		categories:   categories,
		threshold:    DefaultAutoApplyThreshold,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

var (
	_ portssvc.DecisionPolicySvc = (*DecisionService)(nil)
	_ portssvc.DecisionReaderSvc = (*DecisionService)(nil)
)

func (s *DecisionService) IsAutoApplicable(result domain.CategorizationResult) bool {
	return result.HasCategory() && result.Confidence >= s.threshold
}

func (s *DecisionService) ApplyDecision(ctx context.Context, org domain.OrgContext, transactionID string, result domain.CategorizationResult, source domain.DecisionSource) error {
	if err := s.RequireOrg(org); err != nil {
		return err
	}
	if strings.TrimSpace(transactionID) == "" {
		return fmt.Errorf("%w: transaction id is required", apperrors.ErrValidation)
	}
	if math.IsNaN(result.Confidence) || result.Confidence < 0 || result.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0, 1]", apperrors.ErrValidation, result.Confidence)
	}
	switch source {
	case domain.SourcePass1, domain.SourceLLM, domain.SourceUser:
	default:
		return fmt.Errorf("%w: unknown decision source %q", apperrors.ErrValidation, source)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load transaction", slog.String("transaction_id", transactionID))
		}
		return fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}
	if err := s.AuthorizeOrg(ctx, org, txn.OrgID, "transaction", transactionID); err != nil {
		return err
	}
	if result.HasCategory() {
		if _, err := s.categories.ResolveCategory(ctx, *result.CategoryID, org.OrgID); err != nil {
			return fmt.Errorf("failed to resolve category %s: %w", *result.CategoryID, err)
		}
	}

	now := s.timestamp()
	autoApplied := s.IsAutoApplicable(result)
	confidence := result.Confidence
	patch := domain.CategorizationPatch{
		Confidence:  &confidence,
		NeedsReview: !autoApplied,
		Reviewed:    txn.Reviewed || source == domain.SourceUser,
		UpdatedBy:   org.Actor(),
		UpdatedAt:   now,
	}
	if result.HasCategory() {
		categoryID := *result.CategoryID
		patch.CategoryID = &categoryID
	}

	if err := s.txnRepo.UpdateTransactionCategorization(ctx, transactionID, patch); err != nil {
		s.LogError(ctx, err, "Failed to update transaction categorization", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}

	rationale := result.Rationale
	if rationale == nil {
		rationale = []string{}
	}
	decision := domain.Decision{
		DecisionID:    s.generateID(),
		TransactionID: transactionID,
		OrgID:         org.OrgID,
		Source:        source,
		CategoryID:    patch.CategoryID,
		Confidence:    confidence,
		Rationale:     rationale,
		Attributes:    result.Attributes,
		AutoApplied:   autoApplied,
		DecidedBy:     org.Actor(),
		CreatedAt:     now,
	}
	if err := s.decisionRepo.AppendDecision(ctx, decision); err != nil {
		// The transaction update stands; a missing audit row must not block categorization.
		s.LogError(ctx, fmt.Errorf("%w: %v", apperrors.ErrAuditWrite, err), "Failed to append decision audit row",
			slog.String("transaction_id", transactionID),
			slog.String("decision_id", decision.DecisionID))
	}

	s.LogInfo(ctx, "Decision applied",
		slog.String("transaction_id", transactionID),
		slog.String("source", string(source)),
		slog.Bool("auto_applied", autoApplied),
		slog.Float64("confidence", confidence))
	return nil
}

func (s *DecisionService) ApplyBatch(ctx context.Context, org domain.OrgContext, items []domain.DecisionItem) domain.BatchResult {
	res := domain.BatchResult{Total: len(items), Failed: []domain.BatchItemFailure{}}
	for _, item := range items {
		if err := s.ApplyDecision(ctx, org, item.TransactionID, item.Result, item.Source); err != nil {
			res.Failed = append(res.Failed, domain.BatchItemFailure{TransactionID: item.TransactionID, Error: err.Error()})
			continue
		}
		res.Successful++
	}
	return res
}

func (s *DecisionService) ListDecisions(ctx context.Context, org domain.OrgContext, transactionID string) ([]domain.Decision, error) {
	if err := s.RequireOrg(org); err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}
	if err := s.AuthorizeOrg(ctx, org, txn.OrgID, "transaction", transactionID); err != nil {
		return nil, err
	}
	decisions, err := s.decisionRepo.ListDecisionsByTransaction(ctx, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list decisions", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	if decisions == nil {
		return []domain.Decision{}, nil
	}
	return decisions, nil
}
