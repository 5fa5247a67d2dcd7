package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/dto"
	"github.com/SscSPs/categorization_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// categorizationHandler serves categorization runs, corrections and decision history.
type categorizationHandler struct {
	categorizer portssvc.CategorizerSvc
	corrections portssvc.CorrectionSvc
	audit       portssvc.DecisionReaderSvc
}

func newCategorizationHandler(cs portssvc.CategorizerSvc, corr portssvc.CorrectionSvc, audit portssvc.DecisionReaderSvc) *categorizationHandler {
	return &categorizationHandler{
		categorizer: cs,
		corrections: corr,
		audit:       audit,
	}
}

func registerCategorizationRoutes(rg *gin.RouterGroup, cs portssvc.CategorizerSvc, corr portssvc.CorrectionSvc, audit portssvc.DecisionReaderSvc) {
	h := newCategorizationHandler(cs, corr, audit)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/categorize", h.categorizeBatch)
		transactions.POST("/:transactionID/categorize", h.categorizeTransaction)
		transactions.POST("/:transactionID/correction", h.correctCategory)
		transactions.GET("/:transactionID/decisions", h.listDecisions)
	}
}

// categorizeTransaction runs both passes for one stored transaction.
func (h *categorizationHandler) categorizeTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	org, ok := orgContextOrAbort(c)
	if !ok {
		return
	}
	transactionID := c.Param("transactionID")
	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received request to categorize transaction")

	outcome, err := h.categorizer.CategorizeTransaction(c.Request.Context(), org, transactionID)
	if err != nil {
		respondWithError(c, err, "Failed to categorize transaction")
		return
	}

	logger.Info("Transaction categorized",
		slog.String("source", string(outcome.Source)),
		slog.Bool("auto_applied", outcome.AutoApplied))
	c.JSON(http.StatusOK, dto.ToCategorizationOutcomeResponse(outcome))
}

// categorizeBatch categorizes each listed transaction independently.
func (h *categorizationHandler) categorizeBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	org, ok := orgContextOrAbort(c)
	if !ok {
		return
	}
	var req dto.CategorizeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CategorizeBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result := h.categorizer.CategorizeBatch(c.Request.Context(), org, req.TransactionIDs)

	logger.Info("Batch categorization finished",
		slog.Int("total", result.Total),
		slog.Int("successful", result.Successful),
		slog.Int("failed", len(result.Failed)))
	c.JSON(http.StatusOK, dto.ToBatchResultResponse(result))
}

// correctCategory records a reviewer's category and reinforces the matching rule.
func (h *categorizationHandler) correctCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	org, ok := orgContextOrAbort(c)
	if !ok {
		return
	}
	transactionID := c.Param("transactionID")
	var req dto.CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CorrectCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	logger = logger.With(slog.String("transaction_id", transactionID), slog.String("category_id", req.CategoryID))

	result, err := h.corrections.CorrectCategory(c.Request.Context(), org, transactionID, req.CategoryID)
	if err != nil {
		respondWithError(c, err, "Failed to apply correction")
		return
	}
	if result.RuleError != "" {
		logger.Warn("Correction applied without rule reinforcement", slog.String("rule_error", result.RuleError))
	} else {
		logger.Info("Correction applied")
	}
	c.JSON(http.StatusOK, dto.ToCorrectionResponse(result))
}

// listDecisions returns the decision history of a transaction.
func (h *categorizationHandler) listDecisions(c *gin.Context) {
	org, ok := orgContextOrAbort(c)
	if !ok {
		return
	}
	transactionID := c.Param("transactionID")

	decisions, err := h.audit.ListDecisions(c.Request.Context(), org, transactionID)
	if err != nil {
		respondWithError(c, err, "Failed to list decisions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDecisionsResponse(transactionID, decisions))
}
