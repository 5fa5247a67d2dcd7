package services

import (
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, model portssvc.GenerativeModel) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The category directory is consulted by every other service
	container.Categories = NewCategoryDirectoryService(repos.CategoryRepo)

	scorerCfg := DefaultModelScorerConfig()
	threshold := DefaultAutoApplyThreshold
	if cfg != nil {
		if cfg.ModelMaxTokens > 0 {
			scorerCfg.MaxTokens = cfg.ModelMaxTokens
		}
		scorerCfg.Temperature = cfg.ModelTemperature
		if cfg.ModelTimeout > 0 {
			scorerCfg.Timeout = cfg.ModelTimeout
		}
		scorerCfg.RetryBackoff = cfg.ModelRetryBackoff
		if cfg.AutoApplyThreshold > 0 {
			threshold = cfg.AutoApplyThreshold
		}
	}

	container.RuleMatcher = NewRuleMatcherService(repos.RuleRepo)
	container.ModelScorer = NewModelScorerService(model, container.Categories, scorerCfg)

	decisions := NewDecisionService(repos.TransactionRepo, repos.DecisionRepo, container.Categories, WithAutoApplyThreshold(threshold))
	container.Decisions = decisions
	container.Audit = decisions

	container.Rules = NewRuleLearnerService(repos.RuleRepo, container.Categories)
	container.ReviewQueue = NewReviewQueueService(repos.ReviewQueueRepo)
	container.Categorizer = NewCategorizerService(repos.TransactionRepo, container.RuleMatcher, container.ModelScorer, container.Decisions)
	container.Corrections = NewCorrectionService(repos.TransactionRepo, container.Decisions, container.Rules)

	return container
}
