package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Categories  CategoryDirectorySvc
	RuleMatcher RuleMatcherSvc
	ModelScorer ModelScorerSvc
	Decisions   DecisionPolicySvc
	Audit       DecisionReaderSvc
	Rules       RuleLearnerSvc
	ReviewQueue ReviewQueueSvc
	Categorizer CategorizerSvc
	Corrections CorrectionSvc
}
