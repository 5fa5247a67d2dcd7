package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
)

type correctionService struct {
	BaseService
	txnRepo   portsrepo.TransactionReader
	decisions portssvc.DecisionPolicySvc
	learner   portssvc.RuleLearnerSvc
}

// NewCorrectionService creates the entry point for human corrections.
func NewCorrectionService(txnRepo portsrepo.TransactionReader, decisions portssvc.DecisionPolicySvc, learner portssvc.RuleLearnerSvc) portssvc.CorrectionSvc {
	return &correctionService{
		BaseService: newBaseService(),
		txnRepo:     txnRepo,
		decisions:   decisions,
		learner:     learner,
	}
}

var _ portssvc.CorrectionSvc = (*correctionService)(nil)

// CorrectCategory applies a user decision and then reinforces the vendor rule.
// A rule learning failure does not undo the correction; it is reported in RuleError.
func (s *correctionService) CorrectCategory(ctx context.Context, org domain.OrgContext, transactionID string, categoryID string) (*domain.CorrectionResult, error) {
	if err := s.RequireOrg(org); err != nil {
		return nil, err
	}
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category id is required", apperrors.ErrValidation)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}
	if err := s.AuthorizeOrg(ctx, org, txn.OrgID, "transaction", transactionID); err != nil {
		return nil, err
	}

	result := domain.CategorizationResult{
		CategoryID: &categoryID,
		Confidence: 1.0,
		Rationale:  []string{fmt.Sprintf("corrected by %s", org.Actor())},
	}
	if err := s.decisions.ApplyDecision(ctx, org, transactionID, result, domain.SourceUser); err != nil {
		return nil, err
	}

	out := &domain.CorrectionResult{TransactionID: transactionID, CategoryID: categoryID}
	learned, err := s.learner.LearnRule(ctx, org, domain.LearnRuleRequest{
		Vendor:     txn.VendorText(),
		MCC:        txn.MCC,
		CategoryID: categoryID,
	})
	if err != nil {
		s.LogWarn(ctx, err, "Correction applied but rule reinforcement failed", slog.String("transaction_id", transactionID))
		out.RuleError = err.Error()
		return out, nil
	}
	out.Rule = learned
	return out, nil
}
