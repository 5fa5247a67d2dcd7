package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
)

// ModelUnavailableRationale is recorded when neither pass produced a category
// because the model could not be reached.
const ModelUnavailableRationale = "model unavailable; transaction queued for manual review"

type categorizerService struct {
	BaseService
	txnRepo   portsrepo.TransactionReader
	matcher   portssvc.RuleMatcherSvc
	scorer    portssvc.ModelScorerSvc
	decisions portssvc.DecisionPolicySvc
}

// NewCategorizerService wires the two passes to the decision policy.
func NewCategorizerService(
	txnRepo portsrepo.TransactionReader,
	matcher portssvc.RuleMatcherSvc,
	scorer portssvc.ModelScorerSvc,
	decisions portssvc.DecisionPolicySvc,
) portssvc.CategorizerSvc {
	return &categorizerService{
		BaseService: newBaseService(),
		txnRepo:     txnRepo,
		matcher:     matcher,
		scorer:      scorer,
		decisions:   decisions,
	}
}

var _ portssvc.CategorizerSvc = (*categorizerService)(nil)

func (s *categorizerService) CategorizeTransaction(ctx context.Context, org domain.OrgContext, transactionID string) (*domain.CategorizationOutcome, error) {
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

	pass1, err := s.matcher.Match(ctx, org, *txn)
	if err != nil {
		return nil, fmt.Errorf("pass1 failed: %w", err)
	}
	if s.decisions.IsAutoApplicable(pass1) {
		return s.apply(ctx, org, transactionID, pass1, domain.SourcePass1)
	}

	pass2, err := s.scorer.Score(ctx, org, *txn, pass1.Rationale)
	if err != nil {
		if !errors.Is(err, apperrors.ErrExternalService) {
			return nil, fmt.Errorf("pass2 failed: %w", err)
		}
		s.LogWarn(ctx, err, "Model unavailable, falling back", slog.String("transaction_id", transactionID))
		if pass1.HasCategory() {
			fallback := pass1
			fallback.Rationale = append(append([]string{}, pass1.Rationale...), "model unavailable; rule match kept for review")
			return s.apply(ctx, org, transactionID, fallback, domain.SourcePass1)
		}
		return s.apply(ctx, org, transactionID, domain.CategorizationResult{
			Confidence: 0,
			Rationale:  []string{ModelUnavailableRationale},
		}, domain.SourceLLM)
	}

	if !pass2.HasCategory() && pass1.HasCategory() {
		// Keep the rule candidate so reviewers see it; it is below threshold by construction.
		kept := pass1
		kept.Rationale = append(append([]string{}, pass1.Rationale...), pass2.Rationale...)
		return s.apply(ctx, org, transactionID, kept, domain.SourcePass1)
	}
	return s.apply(ctx, org, transactionID, pass2, domain.SourceLLM)
}

func (s *categorizerService) apply(ctx context.Context, org domain.OrgContext, transactionID string, result domain.CategorizationResult, source domain.DecisionSource) (*domain.CategorizationOutcome, error) {
	if result.Rationale == nil {
		result.Rationale = []string{}
	}
	if err := s.decisions.ApplyDecision(ctx, org, transactionID, result, source); err != nil {
		return nil, err
	}
	return &domain.CategorizationOutcome{
		TransactionID: transactionID,
		Source:        source,
		Result:        result,
		AutoApplied:   s.decisions.IsAutoApplicable(result),
	}, nil
}

func (s *categorizerService) CategorizeBatch(ctx context.Context, org domain.OrgContext, transactionIDs []string) domain.BatchResult {
	res := domain.BatchResult{Total: len(transactionIDs), Failed: []domain.BatchItemFailure{}}
	for _, id := range transactionIDs {
		if _, err := s.CategorizeTransaction(ctx, org, id); err != nil {
			res.Failed = append(res.Failed, domain.BatchItemFailure{TransactionID: id, Error: err.Error()})
			continue
		}
		res.Successful++
	}
	s.LogInfo(ctx, "Batch categorization finished",
		slog.Int("total", res.Total),
		slog.Int("successful", res.Successful),
		slog.Int("failed", len(res.Failed)))
	return res
}
