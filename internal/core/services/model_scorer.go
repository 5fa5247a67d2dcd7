package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
)

// ModelScorerConfig bounds the Pass2 model call.
type ModelScorerConfig struct {
	MaxTokens    int32
	Temperature  float32
	Timeout      time.Duration // Per attempt
	RetryBackoff time.Duration // Wait before the single retry
}

// DefaultModelScorerConfig returns the settings used when none are configured.
func DefaultModelScorerConfig() ModelScorerConfig {
	return ModelScorerConfig{
		MaxTokens:    512,
		Temperature:  0.1,
		Timeout:      10 * time.Second,
		RetryBackoff: 500 * time.Millisecond,
	}
}

const maxModelAttempts = 2

type modelScorerService struct {
	BaseService
	model      portssvc.GenerativeModel
	categories portssvc.CategoryDirectorySvc
	cfg        ModelScorerConfig
}

// NewModelScorerService creates the Pass2 scorer over a generative model provider.
func NewModelScorerService(model portssvc.GenerativeModel, categories portssvc.CategoryDirectorySvc, cfg ModelScorerConfig) portssvc.ModelScorerSvc {
	return &modelScorerService{
		BaseService: newBaseService(),
		model:       model,
		categories:  categories,
		cfg:         cfg,
	}
}

var _ portssvc.ModelScorerSvc = (*modelScorerService)(nil)

func (s *modelScorerService) Score(ctx context.Context, org domain.OrgContext, txn domain.NormalizedTransaction, hints []string) (domain.CategorizationResult, error) {
	if err := s.RequireOrg(org); err != nil {
		return domain.CategorizationResult{}, err
	}
	if err := s.AuthorizeOrg(ctx, org, txn.OrgID, "transaction", txn.TransactionID); err != nil {
		return domain.CategorizationResult{}, err
	}

	categories, err := s.categories.ListCategories(ctx, org.OrgID)
	if err != nil {
		return domain.CategorizationResult{}, fmt.Errorf("failed to list categories for prompt: %w", err)
	}
	if len(categories) > maxPromptCategories {
		categories = categories[:maxPromptCategories]
	}

	prompt := BuildCategorizationPrompt(txn, hints, categories)
	text, err := s.generate(ctx, prompt)
	if err != nil {
		s.LogWarn(ctx, err, "Generative model call failed", slog.String("transaction_id", txn.TransactionID))
		return domain.CategorizationResult{}, err
	}

	result, err := ParseModelResponse(text)
	if err == nil && !offeredCategory(categories, *result.CategoryID) {
		err = parseFailure("category_id %q is not an allowed category", *result.CategoryID)
	}
	if err != nil {
		s.LogWarn(ctx, err, "Discarding unparseable model response",
			slog.String("transaction_id", txn.TransactionID),
			slog.Int("response_length", len(text)))
		return failClosedResult(err), nil
	}

	s.LogDebug(ctx, "Pass2 model scored transaction",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("category_id", *result.CategoryID),
		slog.Float64("confidence", result.Confidence))
	return result, nil
}

// generate calls the model with a per-attempt timeout and at most one retry.
func (s *modelScorerService) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxModelAttempts; attempt++ {
		text, err := s.attempt(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if errors.Is(err, portssvc.ErrModelNotConfigured) || ctx.Err() != nil || attempt == maxModelAttempts {
			break
		}

		s.LogDebug(ctx, "Retrying generative model call", slog.Int("attempt", attempt), slog.String("error", err.Error()))
		timer := time.NewTimer(s.cfg.RetryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w: model call abandoned: %v", apperrors.ErrExternalService, ctx.Err())
		case <-timer.C:
		}
	}
	return "", fmt.Errorf("%w: model call failed: %v", apperrors.ErrExternalService, lastErr)
}

func (s *modelScorerService) attempt(ctx context.Context, prompt string) (string, error) {
	attemptCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	return s.model.Generate(attemptCtx, prompt, s.cfg.MaxTokens, s.cfg.Temperature)
}

func offeredCategory(categories []domain.Category, categoryID string) bool {
	for _, c := range categories {
		if c.CategoryID == categoryID {
			return true
		}
	}
	return false
}
