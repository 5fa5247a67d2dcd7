package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/dto"
	"github.com/SscSPs/categorization_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type decisionHandler struct {
	decisions portssvc.DecisionPolicySvc
}

func registerDecisionRoutes(rg *gin.RouterGroup, ds portssvc.DecisionPolicySvc) {
	h := &decisionHandler{decisions: ds}

	rg.POST("/decisions/batch", h.applyBatch)
}

// applyBatch applies externally produced categorizations through the decision policy.
// Per-item failures are reported in the body; the request itself still succeeds.
func (h *decisionHandler) applyBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	org, ok := orgContextOrAbort(c)
	if !ok {
		return
	}
	var req dto.ApplyDecisionsBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyDecisionBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result := h.decisions.ApplyBatch(c.Request.Context(), org, req.ToDecisionItems())

	logger.Info("Decision batch applied",
		slog.Int("total", result.Total),
		slog.Int("successful", result.Successful))
	c.JSON(http.StatusOK, dto.ToBatchResultResponse(result))
}
