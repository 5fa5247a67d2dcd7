package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/dto"
	"github.com/SscSPs/categorization_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ruleHandler struct {
	rules portssvc.RuleLearnerSvc
}

func registerRuleRoutes(rg *gin.RouterGroup, rs portssvc.RuleLearnerSvc) {
	h := &ruleHandler{rules: rs}

	rules := rg.Group("/rules")
	{
		rules.GET("", h.listRules)
		rules.POST("", h.learnRule)
	}
}

func (h *ruleHandler) listRules(c *gin.Context) {
	org, ok := orgContextOrAbort(c)
	if !ok {
		return
	}
	rules, err := h.rules.ListRules(c.Request.Context(), org)
	if err != nil {
		respondWithError(c, err, "Failed to list rules")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRulesResponse(rules))
}

// learnRule creates a rule or reinforces the existing one for the same pattern.
func (h *ruleHandler) learnRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	org, ok := orgContextOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LearnRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.rules.LearnRule(c.Request.Context(), org, req.ToLearnRuleRequest())
	if err != nil {
		respondWithError(c, err, "Failed to learn rule")
		return
	}

	logger.Info(result.Message, slog.String("rule_id", result.RuleID), slog.Int("weight", result.Weight))
	status := http.StatusOK
	if result.IsNew {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ToLearnRuleResponse(result))
}
